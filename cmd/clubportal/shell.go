package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pearcec/clubportal/internal/portal"
)

// shell reads line-oriented commands and answers from a reader.
type shell struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompts bool // print prompts; off when input is piped
}

func newShell(in io.Reader, out io.Writer, prompts bool) *shell {
	return &shell{scanner: bufio.NewScanner(in), out: out, prompts: prompts}
}

// stdinShell reads from the process's stdin, prompting only on a terminal.
func stdinShell(out io.Writer) *shell {
	return newShell(os.Stdin, out, term.IsTerminal(int(os.Stdin.Fd())))
}

// ask prints label and returns the next trimmed line. ok is false at EOF.
func (s *shell) ask(label string) (string, bool) {
	if s.prompts {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

// askDefault is ask with a value kept when the answer is blank.
func (s *shell) askDefault(label, current string) (string, bool) {
	answer, ok := s.ask(fmt.Sprintf("%s [%s]", label, current))
	if !ok {
		return "", false
	}
	if answer == "" {
		return current, true
	}
	return answer, true
}

// loop dispatches commands until handle reports quit or input ends.
func (s *shell) loop(prompt string, handle func(cmd, rest string) (quit bool)) {
	for {
		line, ok := s.ask(prompt)
		if !ok {
			return
		}
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "quit", "exit":
			return
		}
		if handle(strings.ToLower(cmd), strings.TrimSpace(rest)) {
			return
		}
	}
}

// login keeps asking for an identity until the session opens.
func (s *shell) login(ctx context.Context, sess *portal.Session) error {
	label := "College Email"
	if sess.Role() == portal.RoleSociety {
		label = "Society Email"
	}
	for {
		email, ok := s.ask(label)
		if !ok {
			return io.EOF
		}
		err := sess.Login(ctx, email)
		if err == nil {
			fmt.Fprintf(s.out, "Logged in as %s\n", sess.Identity())
			return nil
		}
		fmt.Fprintln(s.out, portal.UserMessage(err))
	}
}
