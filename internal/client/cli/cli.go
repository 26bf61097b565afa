package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/tallykeeper/internal/client/counters"
	"github.com/iudanet/tallykeeper/internal/client/iocli"
	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/client/session"
	"github.com/iudanet/tallykeeper/internal/client/sync"
	"github.com/iudanet/tallykeeper/internal/logging"
)

// EnvPassphrase переменная окружения с парольной фразой документа
const EnvPassphrase = "TALLYKEEPER_PASSPHRASE"

// Passphrases источники парольной фразы для шифрования удаленного документа
type Passphrases struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io          iocli.IO
	counters    counters.Service
	syncService sync.Service
	replica     *replica.Store
	session     *session.Session
	logger      *logging.Logger
	status      func(ctx context.Context) (*session.Status, error)
}

// New создает Cli поверх открытой сессии
func New(io iocli.IO, s *session.Session, logger *logging.Logger) *Cli {
	return &Cli{
		io:          io,
		counters:    s.Counters,
		syncService: s.Sync,
		replica:     s.Replica,
		session:     s,
		logger:      logger,
		status:      s.Status,
	}
}

// getPassphrase возвращает парольную фразу из источников в порядке приоритета:
// 1. Переменная окружения TALLYKEEPER_PASSPHRASE
// 2. Файл
// 3. Параметр командной строки
// 4. Интерактивный ввод
func (c *Cli) getPassphrase(p Passphrases) (string, error) {
	// Priority 1: Environment variable
	if env := os.Getenv(EnvPassphrase); env != "" {
		return env, nil
	}

	// Priority 2: File
	if p.FromFile != "" {
		content, err := os.ReadFile(p.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		// Убираем trailing newline/whitespace
		passphrase := strings.TrimSpace(string(content))
		if passphrase == "" {
			return "", fmt.Errorf("passphrase file is empty")
		}
		return passphrase, nil
	}

	// Priority 3: CLI parameter
	if p.FromArgs != "" {
		return p.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	passphrase, err := c.io.ReadPassword("Passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase from stdin: %w", err)
	}
	if passphrase == "" {
		return "", fmt.Errorf("passphrase cannot be empty")
	}
	return passphrase, nil
}

// flush выполняет фоновую синхронизацию, запланированную командой,
// и кратко сообщает о результате. Ошибка синхронизации не ломает команду.
func (c *Cli) flush(ctx context.Context) {
	if c.session == nil {
		return
	}
	result, err := c.session.Flush(ctx)
	switch {
	case err != nil:
		c.io.Printf("%s Not synced: %s\n", RenderWarn("⚠"), explain(err))
	case result != nil && result.Wrote:
		c.io.Printf("%s Synced (revision %d)\n", RenderPass("✓"), result.Revision)
	}
}

// ioConfirmer запрашивает подтверждение операций синхронизации через IO
type ioConfirmer struct {
	io iocli.IO
}

// NewConfirmer создает sync.Confirmer поверх IO
func NewConfirmer(io iocli.IO) sync.Confirmer {
	return &ioConfirmer{io: io}
}

func (c *ioConfirmer) Confirm(ctx context.Context, kind sync.ConfirmKind, message string) (bool, error) {
	return c.io.Confirm(message)
}
