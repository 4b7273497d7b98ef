package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/upskills/internal/shared"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetToken prints a prompt to w and reads a bearer token from the user's
// terminal without echo. A newline is printed after the read to keep the UI
// tidy. Surrounding whitespace is trimmed, and the raw buffer returned by
// the terminal is wiped before GetToken returns.
func GetToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter token: "); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	shared.WipeByteArray(raw)
	return token, nil
}
