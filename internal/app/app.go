package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/config"
	"github.com/chainrun/chainrun/internal/ctxlog"
	"github.com/chainrun/chainrun/internal/history"
	"github.com/chainrun/chainrun/internal/model"
	"github.com/chainrun/chainrun/internal/runner"
	"github.com/chainrun/chainrun/internal/store"
	"github.com/chainrun/chainrun/internal/template"
)

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	pool    *pool
	history *history.Store
}

// New builds a fully initialized App from the given configuration. The
// signing key is resolved from the environment once, at startup; a
// missing key configuration yields a read-only app that can still run
// manual and view steps.
func New(cfg *config.Config, outW io.Writer) (*App, error) {
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, outW)

	key, err := cfg.PrivateKey()
	if err != nil {
		return nil, err
	}
	var signer chain.Signer
	if key != "" {
		if signer, err = chain.NewKeySigner(key); err != nil {
			return nil, fmt.Errorf("sender key: %w", err)
		}
		logger.Debug("signer configured", "address", signer.Address())
	} else {
		logger.Debug("no signer configured, transactions disabled")
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		pool:   newPool(cfg.Networks, signer),
	}
	if cfg.HistoryDB != "" {
		if a.history, err = history.Open(cfg.HistoryDB); err != nil {
			return nil, err
		}
		logger.Debug("audit log opened", "path", cfg.HistoryDB)
	}
	return a, nil
}

// Context returns ctx with the application logger attached, so every
// layer below logs through the same handler.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// History returns the audit store, or nil when auditing is disabled.
func (a *App) History() *history.Store {
	return a.history
}

// Close releases dialed connections and the audit database.
func (a *App) Close() {
	a.pool.Close()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("closing audit log", "error", err)
		}
	}
}

// Session is one opened checklist: the document, a runner over it, and
// the path to write it back to.
type Session struct {
	Path   string
	Runner *runner.Runner
}

// OpenSession loads the checklist at path and builds a runner for it,
// recording under a fresh audit run when auditing is enabled.
func (a *App) OpenSession(ctx context.Context, path string) (*Session, error) {
	list, err := store.Load(path)
	if err != nil {
		return nil, err
	}

	var opts []runner.Option
	if a.history != nil {
		run, err := a.history.BeginRun(ctx, path, list.Requester)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("audit run started", "run_id", run.ID, "checklist", path)
		opts = append(opts, runner.WithRecorder(run))
	}

	r, err := runner.New(list, a.pool, template.NewHCL(), opts...)
	if err != nil {
		return nil, fmt.Errorf("checklist %s: %w", path, err)
	}
	return &Session{Path: path, Runner: r}, nil
}

// Save writes the checklist back to its file, folding the roll-up
// complete flag in first.
func (s *Session) Save() error {
	list := s.Runner.Checklist()
	list.Complete = allComplete(list.Steps)
	return store.Save(s.Path, list)
}

func allComplete(steps model.Steps) bool {
	for _, st := range steps {
		if !st.Complete() {
			return false
		}
	}
	return len(steps) > 0
}
