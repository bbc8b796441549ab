package io

import (
	"errors"

	"github.com/nadil-athauda/i8080-core/translate"
)

var f = translate.From

var (
	// Port errors
	ErrPortFull     = errors.New(f("port full"))
	ErrPortReadOnly = errors.New(f("port read-only"))

	// Image errors
	ErrImageEmpty = errors.New(f("image archive empty"))
)
