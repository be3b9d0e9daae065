// Package cmd implements the ps2dump subcommands.
package cmd

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal is swapped out by tests.
var isTerminal = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

var errInteractiveInput = errors.New("refusing to read a capture from a terminal; pipe one in or pass a file")

// openInput opens path for reading; "-" or "" is stdin, which must not be a
// terminal.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		if isTerminal(os.Stdin) {
			return nil, errInteractiveInput
		}
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput opens path for writing; "-" or "" is fallback.
func openOutput(path string, fallback io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{fallback}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
