package cpm

import (
	"errors"

	"github.com/nadil-athauda/i8080-core/translate"
)

var f = translate.From

var (
	// ErrExit is returned by the hooks when the program terminates
	// through BDOS function 0 or a warm boot. Callers should expect it.
	ErrExit = errors.New(f("exit"))
)
