package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/GTDGit/vendor_console/internal/console"
)

// promptConfirmer asks on out and reads a y/yes answer from in. Anything
// else, including EOF, declines.
func promptConfirmer(in io.Reader, out io.Writer) console.Confirmer {
	reader := bufio.NewReader(in)
	return console.ConfirmFunc(func(_ context.Context, message string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", message)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}

// readLine prompts for a single value, e.g. a password.
func readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
