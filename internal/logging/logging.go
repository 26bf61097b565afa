// Package logging создает slog.Logger процесса: уровень, формат и,
// при необходимости, файл с ротацией.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Форматы вывода
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options настройки логгера
type Options struct {
	Output     io.Writer // куда писать, если File не задан (по умолчанию os.Stderr)
	Level      string    // debug, info, warn, error
	Format     string    // text, json
	File       string    // путь к файлу лога; пустой - писать в Output
	MaxSizeMB  int       // размер файла до ротации
	MaxBackups int       // сколько старых файлов хранить
	MaxAgeDays int       // сколько дней хранить старые файлы
}

// Logger логгер и его ресурсы
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	closer io.Closer
}

// New создает логгер по настройкам
func New(opts Options) (*Logger, error) {
	level := new(slog.LevelVar)
	if err := SetLevel(level, opts.Level); err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    valueOr(opts.MaxSizeMB, 10),
			MaxBackups: valueOr(opts.MaxBackups, 3),
			MaxAge:     valueOr(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		out = rotator
		closer = rotator
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(out, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q (text, json)", opts.Format)
	}

	return &Logger{Logger: slog.New(handler), level: level, closer: closer}, nil
}

// SetLevel меняет уровень логирования на лету
func (l *Logger) SetLevel(level string) error {
	return SetLevel(l.level, level)
}

// Level возвращает текущий уровень
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close закрывает файл лога, если он открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// SetLevel разбирает уровень и устанавливает его в v
func SetLevel(v *slog.LevelVar, level string) error {
	if level == "" {
		v.Set(slog.LevelInfo)
		return nil
	}
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}
	v.Set(parsed)
	return nil
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
