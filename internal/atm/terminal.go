package atm

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// TerminalPINReader reads a PIN from fd without echo. It returns nil when fd
// is not a terminal so the session falls back to plain line input.
func TerminalPINReader(fd int, out io.Writer) PINReader {
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		pin, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(pin), nil
	}
}
