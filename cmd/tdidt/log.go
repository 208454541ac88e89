package main

import (
	"fmt"
	"os"
)

// logger writes progress messages to STDERR when the verbose flag is set
type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if l {
		fmt.Fprintln(os.Stderr, fmt.Sprintf(format, a...))
	}
}
