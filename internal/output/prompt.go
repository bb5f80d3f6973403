package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a secret is requested without a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// ConfirmPrompt asks for user confirmation and returns true if confirmed.
func ConfirmPrompt(message string) (bool, error) {
	return ConfirmPromptFrom(os.Stdin, message, false)
}

// ConfirmPromptFrom asks for confirmation reading the answer from r.
// An empty answer returns defaultYes.
func ConfirmPromptFrom(r io.Reader, message string, defaultYes bool) (bool, error) {
	prompt := "[y/N]"
	if defaultYes {
		prompt = "[Y/n]"
	}

	fmt.Fprintf(os.Stderr, "%s %s: ", message, prompt)
	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && response != "") {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response == "" {
		return defaultYes, nil
	}
	return response == "y" || response == "yes", nil
}

// StringPromptDefault asks for a string input with a default value.
func StringPromptDefault(message, defaultValue string) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintf(os.Stderr, "%s [%s]: ", message, defaultValue)
	response, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return defaultValue, nil
	}
	return response, nil
}

// PasswordPrompt reads a secret from the terminal without echo.
func PasswordPrompt(message string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	fmt.Fprintf(os.Stderr, "%s: ", message)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// NewPasswordPrompt reads a secret twice and fails when the entries differ.
func NewPasswordPrompt(message string) (string, error) {
	first, err := PasswordPrompt(message)
	if err != nil {
		return "", err
	}
	second, err := PasswordPrompt("Confirm " + strings.ToLower(message))
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}
