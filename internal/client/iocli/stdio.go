package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive подтверждение невозможно: нет терминала и ответ не задан
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal (use --yes)")

type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	assume *bool // заранее заданный ответ на подтверждения (--yes)
}

func NewStdio() IO {
	return &Stdio{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewStdioAssume создает Stdio, который отвечает на все подтверждения answer
func NewStdioAssume(answer bool) IO {
	return &Stdio{in: bufio.NewReader(os.Stdin), out: os.Stdout, assume: &answer}
}

func (s *Stdio) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// Confirm запрашивает подтверждение. В терминале используется форма huh,
// иначе читается строка y/yes.
func (s *Stdio) Confirm(prompt string) (bool, error) {
	if s.assume != nil {
		return *s.assume, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		var ok bool
		err := huh.NewConfirm().
			Title(prompt).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	}

	answer, err := s.ReadInput(prompt + " [y/N]: ")
	if errors.Is(err, io.EOF) {
		return false, ErrNotInteractive
	}
	if err != nil {
		return false, err
	}
	return parseAnswer(answer), nil
}

func parseAnswer(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
