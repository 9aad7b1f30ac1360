// Package cli is the grocery command line. Each invocation loads the
// persisted state, applies one command and writes the state back.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/config"
	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/logging"
	"github.com/idilsaglam/grocery/internal/session"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/store/jsonstore"
	"github.com/idilsaglam/grocery/internal/store/sqlitestore"
	"github.com/idilsaglam/grocery/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// IO is the set of streams a run talks to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO uses the process streams.
func StdIO() IO { return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr} }

// Options are the root flags.
type Options struct {
	ConfigPath string
	DataDir    string
	Backend    string
	ExportDir  string
	Theme      string
	Verbose    bool
	Ephemeral  bool
	NoColor    bool
}

// usageError marks mistakes in how the command was invoked.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// app is the per-run state. The session is opened lazily so help and
// usage errors never touch the data directory.
type app struct {
	opt     Options
	io      IO
	print   ui.Printer
	cfg     *config.Config
	logger  *slog.Logger
	st      store.Store
	sess    *session.Session
	closers []io.Closer
	stdin   *bufio.Reader
}

func (a *app) session(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	cfg, err := config.Load(a.opt.ConfigPath)
	if err != nil {
		return nil, err
	}
	if a.opt.DataDir != "" {
		cfg.DataDir = a.opt.DataDir
	}
	if a.opt.Backend != "" {
		cfg.Backend = a.opt.Backend
	}
	if a.opt.ExportDir != "" {
		cfg.ExportDir = a.opt.ExportDir
	}
	if a.opt.Theme != "" {
		cfg.Theme = a.opt.Theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, usagef("%v", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	var mirror io.Writer
	if a.opt.Verbose {
		mirror = a.io.Err
	}
	logger, logFile, err := logging.Setup(logging.Options{Dir: config.StateDir(), Level: cfg.LogLevel, Mirror: mirror})
	if err != nil {
		a.print.Warn("logging disabled: " + err.Error())
		logger = logging.Discard()
	} else {
		a.closers = append(a.closers, logFile)
	}
	a.logger = logger

	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.st = st
	a.closers = append(a.closers, st)

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}
	pipeline := export.NewPipeline(export.DirSink{Dir: exportDir},
		export.WithLogger(logger.With("component", "export")),
		export.WithRasterizer(export.NewFontRasterizer(cfg.RasterFont)),
		export.WithPrompter(export.PromptFunc(func(_ context.Context, msg string) bool {
			return a.confirm(msg)
		})),
	)
	sess := session.New(st,
		session.WithLogger(logger.With("component", "session")),
		session.WithExporter(pipeline),
		session.WithDefaultUnit(cfg.Unit()),
	)
	if err := sess.Open(ctx); err != nil {
		return nil, err
	}
	a.sess = sess
	logger.Debug("state opened", "backend", cfg.Backend, "data_dir", cfg.DataDir, "ephemeral", a.opt.Ephemeral)
	return sess, nil
}

func (a *app) openStore() (store.Store, error) {
	if a.opt.Ephemeral {
		return store.NewMemory(), nil
	}
	switch a.cfg.Backend {
	case config.BackendSQLite:
		return sqlitestore.Open(a.cfg.StorePath())
	default:
		return jsonstore.New(a.cfg.DataDir)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

// dispatch runs one command against the session.
func (a *app) dispatch(cmd *cobra.Command, c session.Command) (session.Result, error) {
	sess, err := a.session(cmd.Context())
	if err != nil {
		return session.Result{}, err
	}
	return sess.Dispatch(cmd.Context(), c)
}

// confirm asks a y/N question on stderr and reads the answer from stdin.
// End of input counts as no.
func (a *app) confirm(message string) bool {
	fmt.Fprint(a.io.Err, message+" (y/N) ")
	answer, err := a.stdin.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(a.io.Err)
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdio IO) int {
	a := &app{
		io:    stdio,
		print: ui.Printer{Out: stdio.Out, Err: stdio.Err},
		stdin: bufio.NewReader(stdio.In),
	}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdio.In)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	a.print.Fail(err.Error())
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue), apperr.IsValidation(err):
		return ExitUsage
	default:
		return ExitError
	}
}
