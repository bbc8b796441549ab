// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the Intel 8080.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	addr       int // Address of the next emitted byte.
	expansions int // Count of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// asmTemplate is one encoding of a mnemonic.
type asmTemplate struct {
	opcode   uint8
	operands []string
}

// templates maps each documented mnemonic to its encodings.
var templates = sync.OnceValue(func() (table map[string][]asmTemplate) {
	table = make(map[string][]asmTemplate)
	for opcode, inst := range InstructionSet {
		if !inst.Defined() || inst.Undocumented {
			continue
		}
		words := splitWords(inst.Name)
		table[words[0]] = append(table[words[0]], asmTemplate{
			opcode:   uint8(opcode),
			operands: words[1:],
		})
	}
	return
})

// operandWidth is the encoded width of a template operand, or 0 for a
// register or constant that is part of the opcode.
func operandWidth(operand string) int {
	switch operand {
	case OperandData8:
		return 1
	case OperandData16, OperandAddr16:
		return 2
	default:
		return 0
	}
}

func (tmpl *asmTemplate) matches(args []string) bool {
	if len(args) != len(tmpl.operands) {
		return false
	}

	for n, operand := range tmpl.operands {
		if operandWidth(operand) != 0 {
			continue
		}
		if !strings.EqualFold(operand, args[n]) {
			return false
		}
	}

	return true
}

// splitWords splits a line on blanks and commas, keeping double quoted
// strings as single words.
func splitWords(line string) (words []string) {
	var word strings.Builder
	quoted := false

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for n := 0; n < len(line); n++ {
		ch := line[n]
		switch {
		case quoted:
			word.WriteByte(ch)
			if ch == '\\' && n+1 < len(line) {
				n++
				word.WriteByte(line[n])
			} else if ch == '"' {
				quoted = false
				flush()
			}
		case ch == '"':
			flush()
			quoted = true
			word.WriteByte(ch)
		case ch == ',' || ch == ' ' || ch == '\t':
			flush()
		default:
			word.WriteByte(ch)
		}
	}
	flush()

	return
}

// stripComment removes a trailing ; comment, ignoring any ; in quotes.
func stripComment(text string) string {
	var quote byte
	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case quote != 0 && ch == '\\':
			n++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ';':
			return text[:n]
		}
	}

	return text
}

// outsideStrings applies fn to the parts of line outside double quotes.
func outsideStrings(line string, fn func(string) string) string {
	var out strings.Builder

	start := 0
	quoted := false
	for n := 0; n < len(line); n++ {
		ch := line[n]
		switch {
		case quoted && ch == '\\':
			n++
		case ch == '"' && quoted:
			quoted = false
			out.WriteString(line[start : n+1])
			start = n + 1
		case ch == '"':
			quoted = true
			out.WriteString(fn(line[start:n]))
			start = n
		}
	}
	if quoted {
		out.WriteString(line[start:])
	} else {
		out.WriteString(fn(line[start:]))
	}

	return out.String()
}

// isSymbol is true for words that could name a label.
func isSymbol(word string) bool {
	for n, ch := range word {
		switch {
		case ch == '_' || ch == '.' || unicode.IsLetter(ch):
		case n > 0 && unicode.IsDigit(ch):
		default:
			return false
		}
	}

	return len(word) > 0
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if word == "$" {
		value = int64(asm.addr)
		return
	}

	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}

	// Intel style hexadecimal, e.g. 0FFh
	last := word[len(word)-1]
	if len(word) > 1 && (last == 'h' || last == 'H') && word[0] >= '0' && word[0] <= '9' {
		value, err = strconv.ParseInt(word[:len(word)-1], 16, 32)
		if err != nil {
			err = ErrParseNumber(word)
		}
		return
	}

	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// operand evaluates an instruction or data operand of width bytes.
// Labels not yet defined are returned for linking.
func (asm *Assembler) operand(word string, width int) (value uint16, label string, err error) {
	v, err := asm.valueOf(word)
	if err != nil {
		if !isSymbol(word) {
			return
		}
		addr, ok := asm.Label[word]
		if !ok {
			err = nil
			label = word
			return
		}
		v = int64(addr)
		err = nil
	}

	limit := int64(1) << (8 * width)
	if v >= limit || v < -limit/2 {
		err = fmt.Errorf("%w: %v", ErrOperandRange, word)
		return
	}

	value = uint16(v)
	if width == 1 {
		value &= 0xff
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if len(str) == 0 || !isSymbol(key) {
			continue
		}
		var v int64
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, addr := range asm.Label {
		if !isSymbol(key) || strings.Contains(key, ".") {
			continue
		}
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// expand replaces 'c' literals and $(...) expressions with their values.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = outsideStrings(line, func(text string) string {
		// Do 'x' evaluations
		text = reCharacter.ReplaceAllStringFunc(text, func(word string) string {
			str := word[1 : len(word)-1]
			if str[0] == '\\' {
				switch str[1:] {
				case "\\":
					str = "\\"
				case "n":
					str = "\n"
				case "r":
					str = "\r"
				case "t":
					str = "\t"
				case "e":
					str = "\033"
				case "'":
					str = "'"
				default:
					return word
				}
			}
			return fmt.Sprintf("%d", str[0])
		})

		// Do $() evaluations
		return reExpression.ReplaceAllStringFunc(text, func(str string) string {
			value, _err := asm.parenEval(str[2 : len(str)-1])
			if _err != nil {
				err = _err
			}
			return fmt.Sprintf("%d", value)
		})
	})

	return
}

// parseLine parses a single line into words, handling equates, labels,
// and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words = splitWords(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 || !isSymbol(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value := words[2]
		if equate, ok := asm.Equate[value]; ok {
			value = equate
		}
		asm.Equate[words[1]] = value
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isSymbol(label) {
			err = ErrParseNumber(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// emit appends an opcode at the current address.
func (asm *Assembler) emit(op Opcode) (err error) {
	if asm.addr+len(op.Data) > MemorySize {
		err = ErrProgramOverflow
		return
	}

	op.Addr = uint16(asm.addr)
	asm.Opcode = append(asm.Opcode, op)
	asm.addr += len(op.Data)

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.addr = 0
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of forward labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if op.LinkWidth == 1 && addr > 0xff {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = fmt.Errorf("%w: %v", ErrOperandRange, label)
			return
		}
		op.Data[op.LinkAt] = uint8(addr)
		if op.LinkWidth == 2 {
			op.Data[op.LinkAt+1] = uint8(addr >> 8)
		}
	}

	prog = &Program{
		Opcodes: make([]Opcode, len(asm.Opcode)),
	}
	copy(prog.Opcodes, asm.Opcode)

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(words) != 2 {
			err = ErrOriginSyntax
			return
		}
		var addr int64
		addr, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if addr < int64(asm.addr) {
			err = ErrOriginBackwards
			return
		}
		if addr >= MemorySize {
			err = ErrOperandRange
			return
		}
		asm.addr = int(addr)
		return
	case ".db":
		return asm.parseData(words, lineno, 1)
	case ".dw":
		return asm.parseData(words, lineno, 2)
	case ".ds":
		if len(words) != 2 {
			err = ErrDataSyntax
			return
		}
		var size int64
		size, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if size < 0 || size > MemorySize {
			err = ErrOperandRange
			return
		}
		return asm.emit(Opcode{LineNo: lineno, Words: words, Data: make([]byte, size)})
	}

	return asm.parseInstruction(words, lineno)
}

// parseData emits .db or .dw values, one opcode per value.
func (asm *Assembler) parseData(words []string, lineno int, width int) (err error) {
	if len(words) < 2 {
		err = ErrDataSyntax
		return
	}

	for _, word := range words[1:] {
		op := Opcode{LineNo: lineno, Words: words}

		if word[0] == '"' {
			if width != 1 {
				err = ErrDataSyntax
				return
			}
			var str string
			str, err = strconv.Unquote(word)
			if err != nil {
				err = errors.Join(ErrDataSyntax, err)
				return
			}
			op.Data = []byte(str)
		} else {
			var value uint16
			var label string
			value, label, err = asm.operand(word, width)
			if err != nil {
				return
			}
			op.Data = append(op.Data, uint8(value))
			if width == 2 {
				op.Data = append(op.Data, uint8(value>>8))
			}
			if len(label) != 0 {
				op.LinkLabel = label
				op.LinkWidth = width
			}
		}

		err = asm.emit(op)
		if err != nil {
			return
		}
	}

	return
}

// parseInstruction encodes a mnemonic and its operands.
func (asm *Assembler) parseInstruction(words []string, lineno int) (err error) {
	choices, ok := templates()[strings.ToUpper(words[0])]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]

	err = ErrOperandCount
	for _, tmpl := range choices {
		if len(tmpl.operands) != len(args) {
			continue
		}
		err = ErrInstructionInvalid
		if !tmpl.matches(args) {
			continue
		}

		op := Opcode{LineNo: lineno, Words: words, Data: []byte{tmpl.opcode}}
		for n, operand := range tmpl.operands {
			width := operandWidth(operand)
			if width == 0 {
				continue
			}

			var value uint16
			var label string
			value, label, err = asm.operand(args[n], width)
			if err != nil {
				return
			}
			if len(label) != 0 {
				op.LinkLabel = label
				op.LinkWidth = width
				op.LinkAt = len(op.Data)
			}
			op.Data = append(op.Data, uint8(value))
			if width == 2 {
				op.Data = append(op.Data, uint8(value>>8))
			}
		}

		return asm.emit(op)
	}

	return
}
