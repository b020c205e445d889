package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
)

func warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, format, a...)
}

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, format, a...)
}

func info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format, a...)
}
