// Package session owns the application state: the draft, the saved lists
// and the histories. Every change goes through Dispatch, which serializes
// access with a mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/idilsaglam/grocery/internal/autocomplete"
	"github.com/idilsaglam/grocery/internal/draft"
	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/history"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/repository"
	"github.com/idilsaglam/grocery/internal/store"
)

// ErrNoExporter is returned by ExportDraft when no pipeline was configured.
var ErrNoExporter = errors.New("export is not configured")

// Session is the single controller surfaces talk to.
type Session struct {
	mu       sync.Mutex
	store    store.Store
	ids      *model.IDs
	draft    *draft.Editor
	repo     *repository.Repository
	history  *history.Sets
	exporter *export.Pipeline
	logger   *slog.Logger
	now      func() time.Time
	unit     model.Unit
}

// Option tunes a Session.
type Option func(*Session)

// WithClock overrides time.Now for every component.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = l } }

// WithExporter enables ExportDraft.
func WithExporter(p *export.Pipeline) Option { return func(s *Session) { s.exporter = p } }

// WithDefaultUnit sets the unit used when AddItem leaves it blank.
func WithDefaultUnit(u model.Unit) Option { return func(s *Session) { s.unit = u } }

// New wires a session over st. Call Open before dispatching.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{store: st, now: time.Now, logger: slog.Default(), unit: model.DefaultUnit}
	for _, o := range opts {
		o(s)
	}
	s.ids = model.NewIDs(s.now)
	s.draft = draft.New(draft.WithClock(s.now), draft.WithIDs(s.ids), draft.WithDefaultUnit(s.unit))
	s.repo = repository.New(st, repository.WithClock(s.now), repository.WithIDs(s.ids))
	s.history = history.NewSets()
	return s
}

// Open loads the saved lists, the histories and the persisted draft.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Load(ctx); err != nil {
		return err
	}
	h, err := history.Load(ctx, s.store)
	if err != nil {
		return err
	}
	s.history = h

	var current model.List
	found, err := store.LoadJSON(ctx, s.store, store.KeyCurrentList, &current)
	if err != nil {
		return err
	}
	if found && current.Name != "" {
		s.draft.Load(current)
	}
	s.logger.Debug("session opened", "lists", s.repo.Len(), "items_history", s.history.Items.Len(), "draft", s.draft.ID())
	return nil
}

// Flush writes every persisted entry.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Flush(ctx); err != nil {
		return err
	}
	if err := s.history.Save(ctx, s.store); err != nil {
		return err
	}
	return s.persistDraft(ctx)
}

// Draft returns a copy of the draft.
func (s *Session) Draft() model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Current()
}

// Lists returns copies of the saved lists, newest first.
func (s *Session) Lists() []model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.All()
}

// List returns a copy of saved list id.
func (s *Session) List(id int64) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(id)
}

// CanRasterize reports whether exports of non-Latin lists get the raster
// strategy.
func (s *Session) CanRasterize() bool {
	return s.exporter != nil && s.exporter.CanRasterize()
}

// Dispatch runs cmd against the state.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if c, ok := cmd.(ExportDraft); ok {
		return s.exportDraft(ctx, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.apply(ctx, cmd)
	res.Draft = s.draft.Current()
	log := s.logger.With("command", fmt.Sprintf("%T", cmd), "draft", res.Draft.ID)
	if err != nil {
		log.Debug("command rejected", "error", err)
		return res, err
	}
	if res.Changed {
		log.Debug("command applied", "items", len(res.Draft.Items))
	}
	return res, nil
}

func (s *Session) apply(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case NewList:
		return s.newList(ctx, c)
	case AddItem:
		return s.addItem(ctx, c)
	case RemoveItem:
		return s.removeItem(ctx, c)
	case EditItem:
		return s.editItem(ctx, c)
	case ClearItems:
		return s.clearItems(ctx)
	case CloseList:
		s.draft.Close()
		return Result{Message: "List closed", Changed: true}, s.persistDraft(ctx)
	case RenameDraft:
		return s.renameDraft(ctx, c)
	case SaveDraft:
		return s.saveDraft(ctx)
	case DuplicateList:
		return s.duplicateList(ctx, c)
	case RenameList:
		return s.renameList(ctx, c)
	case DeleteList:
		return s.deleteList(ctx, c)
	case LoadList:
		return s.loadList(ctx, c)
	case SuggestItems:
		return Result{Suggestions: autocomplete.Filter(s.history.Items.Values(), c.Query)}, nil
	case SuggestPreparations:
		return Result{Suggestions: autocomplete.Filter(s.history.Preparations.Values(), c.Query)}, nil
	}
	return Result{}, fmt.Errorf("unknown command %T", cmd)
}

func (s *Session) persistDraft(ctx context.Context) error {
	return store.SaveJSON(ctx, s.store, store.KeyCurrentList, s.draft.Current())
}
