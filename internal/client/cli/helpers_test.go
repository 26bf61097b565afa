package cli

import (
	"fmt"
	"strings"

	"github.com/iudanet/tallykeeper/internal/client/iocli"
)

// recorder собирает вывод команды
type recorder struct {
	lines   []string
	written []byte
}

func (r *recorder) String() string {
	return strings.Join(r.lines, "\n") + string(r.written)
}

// newTestIO создает IOMock, который отвечает на подтверждения answer
func newTestIO(answer bool) (*iocli.IOMock, *recorder) {
	rec := &recorder{}
	mockIO := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			rec.lines = append(rec.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		},
		PrintfFunc: func(format string, a ...any) {
			rec.lines = append(rec.lines, fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			rec.written = append(rec.written, p...)
			return len(p), nil
		},
		ConfirmFunc: func(prompt string) (bool, error) {
			return answer, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "", fmt.Errorf("unexpected password prompt")
		},
	}
	return mockIO, rec
}
