package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal access is indirected so tests can simulate a TTY.
var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
	}

	readSecret = func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
	}
)

// promptSecret prints label to w and reads a line without echo.
func promptSecret(w io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(w, label)
	b, err := readSecret()
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
