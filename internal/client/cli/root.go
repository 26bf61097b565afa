package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/tallykeeper/internal/client/iocli"
	"github.com/iudanet/tallykeeper/internal/client/session"
	"github.com/iudanet/tallykeeper/internal/logging"
)

// EnvPrefix префикс переменных окружения клиента
const EnvPrefix = "TALLYKEEPER"

// Config keys
const (
	keyDB            = "db"
	keyLogLevel      = "log.level"
	keyLogFormat     = "log.format"
	keyLogFile       = "log.file"
	keyDebounce      = "sync.debounce"
	keyProbeInterval = "sync.probe_interval"
	keyProbeTimeout  = "sync.probe_timeout"
)

// app состояние одного запуска команды
type app struct {
	v         *viper.Viper
	io        iocli.IO
	cli       *Cli
	logger    *logging.Logger
	session   *session.Session
	cfgFile   string
	assumeYes bool
}

// NewRootCommand собирает дерево команд клиента
func NewRootCommand(version string) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "tallykeeper",
		Short:         "Offline-first counters with optional sync",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/tallykeeper/config.yaml)")
	flags.String("db", defaultDBPath(), "path to local database")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", logging.FormatText, "log format: text, json")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")
	flags.BoolVarP(&a.assumeYes, "yes", "y", false, "answer yes to every confirmation")

	_ = a.v.BindPFlag(keyDB, flags.Lookup("db"))
	_ = a.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(keyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(keyLogFile, flags.Lookup("log-file"))
	a.v.SetDefault(keyDebounce, "2s")
	a.v.SetDefault(keyProbeInterval, "15s")
	a.v.SetDefault(keyProbeTimeout, "3s")

	root.AddGroup(
		&cobra.Group{ID: "counters", Title: "Counters:"},
		&cobra.Group{ID: "sync", Title: "Synchronization:"},
	)
	root.AddCommand(a.counterCommands()...)
	root.AddCommand(a.syncCommands()...)

	return root
}

// open читает конфигурацию, создает логгер и открывает сессию
func (a *app) open(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  a.v.GetString(keyLogLevel),
		Format: a.v.GetString(keyLogFormat),
		File:   a.v.GetString(keyLogFile),
	})
	if err != nil {
		return err
	}
	a.logger = logger

	if a.assumeYes {
		a.io = iocli.NewStdioAssume(true)
	} else {
		a.io = iocli.NewStdio()
	}

	dbPath := a.v.GetString(keyDB)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	s, err := session.Open(ctx, session.Options{
		Logger:        logger.Logger,
		Confirmer:     NewConfirmer(a.io),
		DBPath:        dbPath,
		Debounce:      a.v.GetDuration(keyDebounce),
		ProbeInterval: a.v.GetDuration(keyProbeInterval),
		ProbeTimeout:  a.v.GetDuration(keyProbeTimeout),
	})
	if err != nil {
		_ = logger.Close()
		return fmt.Errorf("failed to open local database: %w", err)
	}
	a.session = s
	a.cli = New(a.io, s, logger)
	return nil
}

// close отправляет отложенные изменения и освобождает ресурсы
func (a *app) close(ctx context.Context) error {
	if a.session == nil {
		return nil
	}
	a.cli.flush(ctx)

	err := a.session.Close()
	if a.logger != nil {
		err = errors.Join(err, a.logger.Close())
	}
	return err
}

func (a *app) loadConfig() error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(envReplacer)
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(configDir())
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// watchConfig меняет уровень логирования при изменении файла конфигурации
func (a *app) watchConfig() {
	if a.v.ConfigFileUsed() == "" {
		return
	}
	a.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := a.v.GetString(keyLogLevel)
		if err := a.logger.SetLevel(level); err != nil {
			a.logger.Warn("ignoring invalid log level from config", "level", level, "error", err)
			return
		}
		a.logger.Info("config reloaded", "file", e.Name, "log_level", level)
	})
	a.v.WatchConfig()
}

func (a *app) counterCommands() []*cobra.Command {
	var note string
	var delta int
	var all bool
	var limit int

	add := &cobra.Command{
		Use:     "add <name>",
		GroupID: "counters",
		Short:   "Create a counter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runAdd(cmd.Context(), args[0])
		},
	}

	inc := &cobra.Command{
		Use:     "inc <counter>",
		Aliases: []string{"+"},
		GroupID: "counters",
		Short:   "Increment a counter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runIncrement(cmd.Context(), args[0], delta, note)
		},
	}
	inc.Flags().IntVarP(&delta, "by", "n", 1, "increment by")
	inc.Flags().StringVarP(&note, "note", "m", "", "note for the record")

	noteCmd := &cobra.Command{
		Use:     "note <counter> <text>",
		GroupID: "counters",
		Short:   "Add a note without changing the count",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runNote(cmd.Context(), args[0], args[1])
		},
	}

	undo := &cobra.Command{
		Use:     "undo <counter>",
		GroupID: "counters",
		Short:   "Remove the latest increment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runUndo(cmd.Context(), args[0])
		},
	}

	editNote := &cobra.Command{
		Use:     "edit-note <counter> <record> <text>",
		GroupID: "counters",
		Short:   "Change the note of a record (record number from history)",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runEditNote(cmd.Context(), args[0], args[1], args[2])
		},
	}

	deleteRecord := &cobra.Command{
		Use:     "delete-record <counter> <record>",
		GroupID: "counters",
		Short:   "Delete a record from history",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runDeleteRecord(cmd.Context(), args[0], args[1])
		},
	}

	rename := &cobra.Command{
		Use:     "rename <counter> <name>",
		GroupID: "counters",
		Short:   "Rename a counter",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runRename(cmd.Context(), args[0], args[1])
		},
	}

	archive := &cobra.Command{
		Use:     "archive <counter>",
		GroupID: "counters",
		Short:   "Hide a counter from the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runArchive(cmd.Context(), args[0], true)
		},
	}

	unarchive := &cobra.Command{
		Use:     "unarchive <counter>",
		GroupID: "counters",
		Short:   "Restore an archived counter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runArchive(cmd.Context(), args[0], false)
		},
	}

	move := &cobra.Command{
		Use:     "move <counter> <up|down|top|bottom|position>",
		GroupID: "counters",
		Short:   "Change the position of a counter",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if position, err := strconv.Atoi(args[1]); err == nil {
				return a.cli.runReorder(cmd.Context(), args[0], position)
			}
			return a.cli.runMove(cmd.Context(), args[0], args[1])
		},
	}

	reset := &cobra.Command{
		Use:     "reset <counter>",
		GroupID: "counters",
		Short:   "Delete the whole history of a counter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runReset(cmd.Context(), args[0])
		},
	}

	del := &cobra.Command{
		Use:     "delete <counter>",
		Aliases: []string{"rm"},
		GroupID: "counters",
		Short:   "Delete a counter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runDelete(cmd.Context(), args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:     "clear",
		GroupID: "counters",
		Short:   "Delete all counters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runClear(cmd.Context())
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "counters",
		Short:   "List counters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runList(cmd.Context(), all)
		},
	}
	list.Flags().BoolVarP(&all, "all", "a", false, "include archived counters")

	history := &cobra.Command{
		Use:     "history <counter>",
		Aliases: []string{"show"},
		GroupID: "counters",
		Short:   "Show a counter and its records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runHistory(cmd.Context(), args[0], limit)
		},
	}
	history.Flags().IntVarP(&limit, "limit", "l", 20, "number of records to show (0 for all)")

	return []*cobra.Command{add, inc, noteCmd, undo, editNote, deleteRecord, rename,
		archive, unarchive, move, reset, del, clearCmd, list, history}
}

func (a *app) syncCommands() []*cobra.Command {
	var force bool
	var format string
	var replace bool
	var opts RemoteOptions

	syncCmd := &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Merge local and remote changes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runSync(cmd.Context(), force)
		},
	}
	syncCmd.Flags().BoolVarP(&force, "force", "f", false, "download the remote document even if unchanged")

	push := &cobra.Command{
		Use:     "push",
		GroupID: "sync",
		Short:   "Overwrite the remote document with local data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPush(cmd.Context())
		},
	}

	pull := &cobra.Command{
		Use:     "pull",
		GroupID: "sync",
		Short:   "Overwrite local data with the remote document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPull(cmd.Context())
		},
	}

	status := &cobra.Command{
		Use:     "status",
		GroupID: "sync",
		Short:   "Show sync status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runStatus(cmd.Context())
		},
	}

	watch := &cobra.Command{
		Use:     "watch",
		GroupID: "sync",
		Short:   "Keep running and sync on every change",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.watchConfig()
			return a.cli.runWatch(ctx)
		},
	}

	export := &cobra.Command{
		Use:     "export [file]",
		GroupID: "sync",
		Short:   "Write all counters to a file (stdout by default)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.cli.runExport(cmd.Context(), path, format)
		},
	}
	export.Flags().StringVar(&format, "format", "", "json, yaml or toml (default from file extension)")

	importCmd := &cobra.Command{
		Use:     "import <file>",
		GroupID: "sync",
		Short:   "Merge counters from a file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runImport(cmd.Context(), args[0], format, replace)
		},
	}
	importCmd.Flags().StringVar(&format, "format", "", "json, yaml or toml (default from file extension)")
	importCmd.Flags().BoolVar(&replace, "replace", false, "replace local data instead of merging")

	remoteCmd := &cobra.Command{
		Use:     "remote",
		GroupID: "sync",
		Short:   "Configure the remote document",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Set the remote backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runRemoteSet(cmd.Context(), opts)
		},
	}
	f := set.Flags()
	f.StringVar(&opts.Backend, "backend", "http", "http, s3 or redis")
	f.StringVar(&opts.Endpoint, "endpoint", "", "server URL, S3 endpoint or redis host:port")
	f.StringVar(&opts.Token, "token", "", "bearer token (http) or password (redis)")
	f.StringVar(&opts.DocumentKey, "key", "default", "document key")
	f.StringVar(&opts.Bucket, "bucket", "", "S3 bucket")
	f.StringVar(&opts.Region, "region", "", "S3 region")
	f.StringVar(&opts.AccessKeyID, "access-key", "", "S3 access key id")
	f.StringVar(&opts.SecretAccessKey, "secret-key", "", "S3 secret access key")
	f.BoolVar(&opts.Encrypt, "encrypt", false, "encrypt the document with a passphrase")
	f.StringVar(&opts.Passphrase.FromFile, "passphrase-file", "", "read passphrase from file")
	f.StringVar(&opts.Passphrase.FromArgs, "passphrase", "", "passphrase (prefer "+EnvPassphrase+")")
	f.BoolVar(&opts.AutoSync, "auto-sync", true, "sync after every change")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the remote backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runRemoteShow(cmd.Context())
		},
	}

	unset := &cobra.Command{
		Use:   "unset",
		Short: "Stop syncing this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runRemoteUnset(cmd.Context())
		},
	}
	remoteCmd.AddCommand(set, show, unset)

	return []*cobra.Command{syncCmd, push, pull, status, watch, export, importCmd, remoteCmd}
}
