package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testPorts struct {
	in  map[uint8]uint8
	out []uint8
	err error
}

func (tp *testPorts) In(port uint8) (value uint8, ok bool) {
	value, ok = tp.in[port]
	return
}

func (tp *testPorts) Out(port uint8, value uint8) error {
	tp.out = append(tp.out, port, value)
	return tp.err
}

// run loads a program at 0x0000 and executes count steps.
func run(t *testing.T, program []byte, count int) (cpu *Cpu) {
	cpu = NewCpu()
	assert.NoError(t, cpu.Load(program))
	cpu.SetSp(0x2400)
	for range count {
		_, err := cpu.Step()
		assert.NoError(t, err)
	}
	return
}

func TestInstructionSet(t *testing.T) {
	assert := assert.New(t)

	documented := 0
	undocumented := 0
	names := map[string]int{}
	for opcode, inst := range InstructionSet {
		if !assert.True(inst.Defined(), "0x%02x", opcode) {
			continue
		}
		assert.Equal(operandSize(inst.Name), inst.Size, inst.Name)
		assert.NotZero(inst.Cycles, inst.Name)
		if inst.Undocumented {
			undocumented++
			assert.Equal("NOP", inst.Name)
			continue
		}
		documented++
		other, dup := names[inst.Name]
		assert.False(dup, "%v: 0x%02x and 0x%02x", inst.Name, other, opcode)
		names[inst.Name] = opcode
	}

	assert.Equal(244, documented)
	assert.Equal(12, undocumented)
}

func TestInstructionSet_Cycles(t *testing.T) {
	assert := assert.New(t)

	table := map[uint8]int{
		0x00: 4, 0x01: 10, 0x02: 7, 0x03: 5, 0x04: 5, 0x06: 7, 0x09: 10,
		0x22: 16, 0x2a: 16, 0x32: 13, 0x34: 10, 0x35: 10, 0x36: 10, 0x3a: 13,
		0x40: 5, 0x46: 7, 0x70: 7, 0x76: 7, 0x7e: 7,
		0x80: 4, 0x86: 7, 0xbe: 7,
		0xc0: 5, 0xc1: 10, 0xc2: 10, 0xc3: 10, 0xc4: 11, 0xc5: 11, 0xc6: 7, 0xc7: 11,
		0xc9: 10, 0xcd: 17, 0xd3: 10, 0xdb: 10,
		0xe3: 18, 0xe9: 5, 0xeb: 4, 0xf3: 4, 0xf9: 5, 0xfb: 4,
		0xcb: 4, 0xed: 4,
	}

	for opcode, cycles := range table {
		assert.Equal(cycles, InstructionSet[opcode].Cycles, "0x%02x %v", opcode, InstructionSet[opcode].Name)
	}

	assert.Equal(6, InstructionSet[0xc4].Taken)
	assert.Equal(6, InstructionSet[0xc0].Taken)
	assert.Equal(0, InstructionSet[0xc2].Taken)
}

func TestScenario(t *testing.T) {
	t.Run("inr-a", func(t *testing.T) {
		assert := assert.New(t)

		cpu := run(t, []byte{0x3e, 0x05, 0x3c}, 2)
		assert.Equal(uint8(0x06), cpu.A())
		fl := cpu.Flags()
		assert.False(fl.Zero)
		assert.False(fl.Sign)
		assert.True(fl.Parity)
		assert.Equal(uint16(3), cpu.Pc())
		assert.Equal(uint64(7+5), cpu.Cycles())
	})

	t.Run("inr-b-wrap", func(t *testing.T) {
		assert := assert.New(t)

		cpu := run(t, []byte{0x37, 0x06, 0xff, 0x04}, 3)
		assert.Equal(uint8(0x00), cpu.B())
		assert.True(cpu.Flags().Zero)
		assert.True(cpu.Flags().Carry)
	})

	t.Run("push-b", func(t *testing.T) {
		assert := assert.New(t)

		cpu := run(t, []byte{0x01, 0x34, 0x12, 0xc5}, 2)
		assert.Equal(uint8(0x34), cpu.Read(0x23fe))
		assert.Equal(uint8(0x12), cpu.Read(0x23ff))
		assert.Equal(uint16(0x23fe), cpu.Sp())
	})

	t.Run("call-ret", func(t *testing.T) {
		assert := assert.New(t)

		program := make([]byte, 0x11)
		copy(program, []byte{0xcd, 0x10, 0x00})
		program[0x10] = 0xc9

		cpu := run(t, program, 1)
		assert.Equal(uint16(0x0010), cpu.Pc())
		assert.Equal(uint16(0x23fe), cpu.Sp())
		assert.Equal(uint16(0x0003), cpu.Peek())

		_, err := cpu.Step()
		assert.NoError(err)
		assert.Equal(uint16(0x0003), cpu.Pc())
		assert.Equal(uint16(0x2400), cpu.Sp())
		assert.Equal(uint64(17+10), cpu.Cycles())
	})

	t.Run("daa", func(t *testing.T) {
		assert := assert.New(t)

		cpu := run(t, []byte{0x3e, 0x9b, 0xb7, 0x27}, 3)
		assert.Equal(uint8(0x01), cpu.A())
		assert.True(cpu.Flags().Carry)
	})
}

func TestPushPop(t *testing.T) {
	assert := assert.New(t)

	// LXI B; LXI D; LXI H; MVI A; STC; PUSH B,D,H,PSW; LXI B,0; LXI D,0; LXI H,0; MVI A,0; ORA A; POP PSW,H,D,B
	program := []byte{
		0x01, 0x34, 0x12,
		0x11, 0x78, 0x56,
		0x21, 0xbc, 0x9a,
		0x3e, 0x80,
		0x37,
		0xc5, 0xd5, 0xe5, 0xf5,
		0x01, 0x00, 0x00,
		0x11, 0x00, 0x00,
		0x21, 0x00, 0x00,
		0x3e, 0x00,
		0xb7,
		0xf1, 0xe1, 0xd1, 0xc1,
	}

	cpu := run(t, program, 18)
	assert.Equal(uint16(0x1234), cpu.BC())
	assert.Equal(uint16(0x5678), cpu.DE())
	assert.Equal(uint16(0x9abc), cpu.HL())
	assert.Equal(uint8(0x80), cpu.A())
	assert.True(cpu.Flags().Carry)
	assert.False(cpu.Flags().Zero)
	assert.Equal(uint16(0x2400), cpu.Sp())
	assert.Equal(uint8(0x03), cpu.Read(0x23f8))
	assert.Equal(uint8(0x80), cpu.Read(0x23f9))
}

func TestConditionalBranch(t *testing.T) {
	table := [](struct {
		name   string
		opcode uint8
		fl     Flags
		pc     uint16
		sp     uint16
		cycles uint64
	}){
		{"jnz-taken", 0xc2, Flags{}, 0x0040, 0x2400, 10},
		{"jnz-not", 0xc2, Flags{Zero: true}, 0x0003, 0x2400, 10},
		{"jc-taken", 0xda, Flags{Carry: true}, 0x0040, 0x2400, 10},
		{"jpe-not", 0xea, Flags{}, 0x0003, 0x2400, 10},
		{"jm-taken", 0xfa, Flags{Sign: true}, 0x0040, 0x2400, 10},
		{"cz-taken", 0xcc, Flags{Zero: true}, 0x0040, 0x23fe, 17},
		{"cz-not", 0xcc, Flags{}, 0x0003, 0x2400, 11},
		{"cpo-taken", 0xe4, Flags{}, 0x0040, 0x23fe, 17},
		{"cp-not", 0xf4, Flags{Sign: true}, 0x0003, 0x2400, 11},
		{"rnc-taken", 0xd0, Flags{}, 0x1234, 0x2402, 11},
		{"rnc-not", 0xd0, Flags{Carry: true}, 0x0001, 0x2400, 5},
		{"rpe-taken", 0xe8, Flags{Parity: true}, 0x1234, 0x2402, 11},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			cpu := NewCpu()
			assert.NoError(cpu.Load([]byte{entry.opcode, 0x40, 0x00}))
			assert.NoError(cpu.LoadAt([]byte{0x34, 0x12}, 0x2400))
			cpu.SetSp(0x2400)
			cpu.SetFlags(entry.fl)

			_, err := cpu.Step()
			assert.NoError(err)
			assert.Equal(entry.pc, cpu.Pc())
			assert.Equal(entry.sp, cpu.Sp())
			assert.Equal(entry.cycles, cpu.Cycles())
		})
	}
}

func TestRst(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.LoadAt([]byte{0xef}, 0x0100))
	cpu.SetPc(0x0100)
	cpu.SetSp(0x2400)

	_, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x0028), cpu.Pc())
	assert.Equal(uint16(0x0101), cpu.Peek())
}

func TestMemoryOperands(t *testing.T) {
	assert := assert.New(t)

	// LXI H,0x3000; MVI M,0x41; INR M; MOV B,M; SHLD 0x3002; LHLD 0x3002; XCHG; STA 0x3004; LDA 0x3000
	program := []byte{
		0x21, 0x00, 0x30,
		0x36, 0x41,
		0x34,
		0x46,
		0x22, 0x02, 0x30,
		0x2a, 0x02, 0x30,
		0xeb,
		0x32, 0x04, 0x30,
		0x3a, 0x00, 0x30,
	}

	cpu := run(t, program, 9)
	assert.Equal(uint8(0x42), cpu.Read(0x3000))
	assert.Equal(uint8(0x42), cpu.B())
	assert.Equal(uint16(0x3000), cpu.Read16(0x3002))
	assert.Equal(uint16(0x3000), cpu.DE())
	assert.Equal(uint8(0x42), cpu.A())
	assert.Equal(uint8(0x00), cpu.Read(0x3004))
}

func TestOperand(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.SetPair(PairHL, 0x3000)

	cpu.SetOperand(RegM, 0x5a)
	assert.Equal(uint8(0x5a), cpu.Read(0x3000))
	assert.Equal(uint8(0x5a), cpu.Operand(RegM))

	// The register file alone has no memory operand.
	assert.Equal(uint8(0), cpu.Get(RegM))
	cpu.Set(RegM, 0x11)
	assert.Equal(uint8(0x5a), cpu.Read(0x3000))

	cpu.SetOperand(RegE, 0x22)
	assert.Equal(uint8(0x22), cpu.E())
	assert.Equal(uint8(0x22), cpu.Operand(RegE))
}

func TestXthl(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load([]byte{0xe3, 0xf9, 0xe9}))
	assert.NoError(cpu.LoadAt([]byte{0x00, 0x20}, 0x2400))
	cpu.SetSp(0x2400)
	cpu.SetPair(PairHL, 0x1234)

	_, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x2000), cpu.HL())
	assert.Equal(uint16(0x1234), cpu.Peek())

	// SPHL
	_, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x2000), cpu.Sp())

	// PCHL
	_, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x2000), cpu.Pc())
}

func TestWrapAround(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.LoadAt([]byte{0x00}, 0xffff))
	cpu.SetPc(0xffff)

	_, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(uint16(0x0000), cpu.Pc())

	cpu.SetSp(0x0001)
	cpu.Push(0xabcd)
	assert.Equal(uint16(0xffff), cpu.Sp())
	assert.Equal(uint8(0xab), cpu.Read(0x0000))
	assert.Equal(uint8(0xcd), cpu.Read(0xffff))
	assert.Equal(uint16(0xabcd), cpu.Pop())
	assert.Equal(uint16(0x0001), cpu.Sp())
}

func TestLoad_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.LoadAt([]byte{1, 2, 3}, 0xfffe)
	assert.ErrorIs(err, ErrOutOfBounds)

	var addrErr ErrAddress
	assert.ErrorAs(err, &addrErr)
	assert.Equal(0xfffe, addrErr.Offset)
	assert.Equal(3, addrErr.Length)

	assert.ErrorIs(cpu.LoadAt(nil, -1), ErrOutOfBounds)
	assert.NoError(cpu.LoadAt([]byte{1, 2}, 0xfffe))
	assert.NoError(cpu.Load(make([]byte, MemorySize)))
}

func TestHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load([]byte{0x76, 0x00}))

	event, err := cpu.Step()
	assert.Equal(EventHalt, event)
	assert.ErrorIs(err, ErrHalted)
	assert.True(cpu.Halted())
	assert.Equal(uint16(1), cpu.Pc())
	assert.Equal(uint64(7), cpu.Cycles())

	event, err = cpu.Step()
	assert.Equal(EventHalt, event)
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(uint16(1), cpu.Pc())
	assert.Equal(uint64(7), cpu.Cycles())
}

func TestInterrupt(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.IntEnabled())

	// DI; EI; HLT
	assert.NoError(cpu.Load([]byte{0xf3, 0xfb, 0x76}))
	cpu.SetSp(0x2400)

	_, err := cpu.Step()
	assert.NoError(err)
	assert.False(cpu.IntEnabled())
	assert.False(cpu.InjectInterrupt(0x0038))
	assert.ErrorIs(cpu.Interrupt(0x0038), ErrInterruptRejected)
	assert.Equal(uint16(1), cpu.Pc())

	_, err = cpu.Step()
	assert.NoError(err)
	assert.True(cpu.IntEnabled())

	_, err = cpu.Step()
	assert.ErrorIs(err, ErrHalted)

	cycles := cpu.Cycles()
	assert.NoError(cpu.Interrupt(0x0038))
	assert.False(cpu.Halted())
	assert.False(cpu.IntEnabled())
	assert.Equal(uint16(0x0038), cpu.Pc())
	assert.Equal(uint16(0x0003), cpu.Peek())
	assert.Equal(uint16(0x23fe), cpu.Sp())
	assert.Equal(cycles+InterruptCycles, cpu.Cycles())
	assert.Equal(uint16(0x0038), cpu.Trap().Vector)
}

func TestInOut(t *testing.T) {
	assert := assert.New(t)

	// IN 0x10; OUT 0x20; IN 0x11
	program := []byte{0xdb, 0x10, 0xd3, 0x20, 0xdb, 0x11}

	cpu := NewCpu()
	assert.NoError(cpu.Load(program))

	event, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(EventIn, event)
	assert.Equal(PortSentinel, cpu.A())

	ports := &testPorts{in: map[uint8]uint8{0x11: 0x5a}}
	cpu.Ports = ports

	event, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(EventOut, event)
	assert.Equal([]uint8{0x20, 0xff}, ports.out)
	assert.Equal(Trap{Port: 0x20, Data: 0xff}, cpu.Trap())

	event, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(EventIn, event)
	assert.Equal(uint8(0x5a), cpu.A())
	assert.Equal(Trap{Port: 0x11, Data: 0x5a}, cpu.Trap())
}

func TestInOut_Error(t *testing.T) {
	assert := assert.New(t)

	errPort := errors.New("port broken")

	cpu := NewCpu()
	cpu.Ports = &testPorts{err: errPort}
	assert.NoError(cpu.LoadAt([]byte{0xd3, 0x01}, 0x0200))
	cpu.SetPc(0x0200)

	event, err := cpu.Step()
	assert.Equal(EventOut, event)
	assert.ErrorIs(err, errPort)
	assert.ErrorIs(err, ErrOpcode{})

	var opErr ErrOpcode
	assert.ErrorAs(err, &opErr)
	assert.Equal(uint16(0x0200), opErr.Pc)
	assert.Equal(uint8(0xd3), opErr.Opcode)
}

func TestHook(t *testing.T) {
	assert := assert.New(t)

	var called int
	cpu := NewCpu()
	cpu.SetHook(0x0005, func(cpu *Cpu) error {
		called++
		cpu.SetPc(cpu.Pop())
		return nil
	})

	// CALL 5; HLT
	assert.NoError(cpu.Load([]byte{0xcd, 0x05, 0x00, 0x76}))
	cpu.SetSp(0x2400)

	event, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(EventNone, event)

	event, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(EventHook, event)
	assert.Equal(1, called)
	assert.Equal(uint16(0x0003), cpu.Pc())
	assert.Equal(uint16(0x2400), cpu.Sp())

	event, _ = cpu.Step()
	assert.Equal(EventHalt, event)

	cpu.SetHook(0x0005, nil)
	cpu.Reset()
	assert.NoError(cpu.Load([]byte{0xcd, 0x05, 0x00}))
	cpu.SetSp(0x2400)
	_, err = cpu.Step()
	assert.NoError(err)
	event, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(EventNone, event)
	assert.Equal(1, called)
}

func TestHook_Error(t *testing.T) {
	assert := assert.New(t)

	errExit := errors.New("exit")

	cpu := NewCpu()
	cpu.SetHook(0x0000, func(cpu *Cpu) error { return errExit })

	event, err := cpu.Step()
	assert.Equal(EventHook, event)
	assert.ErrorIs(err, errExit)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := run(t, []byte{0x3e, 0x42, 0xf3, 0x37}, 3)
	cpu.Reset()

	assert.Equal(uint8(0), cpu.A())
	assert.Equal(Flags{}, cpu.Flags())
	assert.Equal(uint16(0), cpu.Pc())
	assert.Equal(uint16(0), cpu.Sp())
	assert.Equal(uint64(0), cpu.Cycles())
	assert.True(cpu.IntEnabled())
	assert.Equal(make([]byte, MemorySize), cpu.Dump())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MVI A,0x05", Code{Opcode: 0x3e, Arg: 0x05}.String())
	assert.Equal("JMP 0x1234", Code{Opcode: 0xc3, Arg: 0x1234}.String())
	assert.Equal("LXI SP,0xbeef", Code{Opcode: 0x31, Arg: 0xbeef}.String())
	assert.Equal("MOV M,A", Code{Opcode: 0x77}.String())
	assert.Equal("RST 7", Code{Opcode: 0xff}.String())

	assert.Equal([]byte{0xc3, 0x34, 0x12}, Code{Opcode: 0xc3, Arg: 0x1234}.Bytes())
	assert.Equal([]byte{0xfe, 0x0d}, Code{Opcode: 0xfe, Arg: 0x0d}.Bytes())
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := run(t, []byte{0x3e, 0x80, 0x37}, 2)
	text := cpu.String()
	assert.Contains(text, "pc: 0003")
	assert.Contains(text, "a: 80 szapC")
	assert.Contains(text, "BC: 0000")
}
