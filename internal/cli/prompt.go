// Package cli provides shared terminal helpers for the console
// commands: the masked token prompt and destructive-action
// confirmation.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNonInteractive means a prompt was needed but stdin is not a TTY.
var ErrNonInteractive = errors.New("stdin is not a terminal")

// TokenPrompter reads the bearer credential without echoing it.
type TokenPrompter struct {
	Stdout io.Writer
	// IsTTY reports whether stdin is a terminal. Injectable for
	// tests.
	IsTTY func() bool
	// ReadSecret reads one line of masked input. Injectable for
	// tests; the default uses term.ReadPassword on stdin.
	ReadSecret func() (string, error)
}

// NewTokenPrompter creates a TokenPrompter bound to the real terminal.
func NewTokenPrompter() *TokenPrompter {
	return &TokenPrompter{
		Stdout: os.Stdout,
		IsTTY:  defaultIsTTY,
		ReadSecret: func() (string, error) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(raw), err
		},
	}
}

func defaultIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompt asks for the token. Returns ErrNonInteractive when no
// terminal is attached; scripts must pass the token via flag or
// environment instead.
func (p *TokenPrompter) Prompt() (string, error) {
	if !p.IsTTY() {
		return "", fmt.Errorf("token required: %w", ErrNonInteractive)
	}

	fmt.Fprint(p.Stdout, "Token: ")
	secret, err := p.ReadSecret()
	fmt.Fprintln(p.Stdout)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(secret)
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

// ConfirmResult represents the result of a confirmation prompt.
type ConfirmResult int

const (
	// ConfirmYes means the user confirmed.
	ConfirmYes ConfirmResult = iota
	// ConfirmNo means the user declined.
	ConfirmNo
	// ConfirmNonInteractive means stdin is not a TTY and --yes was
	// not set.
	ConfirmNonInteractive
)

// Confirmer handles interactive confirmation of destructive actions.
type Confirmer struct {
	Stdin  io.Reader
	Stdout io.Writer
	IsTTY  func() bool
}

// NewConfirmer creates a Confirmer bound to the real terminal.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		IsTTY:  defaultIsTTY,
	}
}

// ConfirmDelete prompts before a job delete is sent to the server.
// yesFlag skips the prompt entirely.
func (c *Confirmer) ConfirmDelete(jobID, sourcePath string, yesFlag bool) ConfirmResult {
	if yesFlag {
		return ConfirmYes
	}
	if !c.IsTTY() {
		return ConfirmNonInteractive
	}

	if sourcePath != "" {
		fmt.Fprintf(c.Stdout, "Delete job %s (%s)? (y/N): ", jobID, sourcePath)
	} else {
		fmt.Fprintf(c.Stdout, "Delete job %s? (y/N): ", jobID)
	}

	reader := bufio.NewReader(c.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(c.Stdout)
		return ConfirmNo
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "y" || input == "yes" {
		return ConfirmYes
	}
	return ConfirmNo
}
