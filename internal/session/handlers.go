package session

import (
	"context"
	"fmt"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/draft"
	"github.com/idilsaglam/grocery/internal/export"
)

func (s *Session) newList(ctx context.Context, c NewList) (Result, error) {
	l, err := s.draft.NewList(c.Name)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Created list %q", l.Name), Changed: true}, s.persistDraft(ctx)
}

// addItem appends to the draft and records the history. When either
// write fails the item and any new history entries are dropped again.
func (s *Session) addItem(ctx context.Context, c AddItem) (Result, error) {
	prevDraft, prevHistory := s.draft.Current(), s.history.Clone()
	it, err := s.draft.AddItem(draft.ItemInput{
		Name:        c.Name,
		Quantity:    c.Quantity,
		Unit:        c.Unit,
		Preparation: c.Preparation,
	})
	if err != nil {
		return Result{}, err
	}
	rollback := func(err error) (Result, error) {
		s.draft.Load(prevDraft)
		s.history = prevHistory
		return Result{}, err
	}
	if s.history.Record(it.Name, it.Preparation) {
		if err := s.history.Save(ctx, s.store); err != nil {
			return rollback(err)
		}
	}
	if err := s.persistDraft(ctx); err != nil {
		return rollback(err)
	}
	return Result{Message: fmt.Sprintf("Added %s", it.Name), Changed: true, Item: &it}, nil
}

func (s *Session) removeItem(ctx context.Context, c RemoveItem) (Result, error) {
	if !s.draft.RemoveItem(c.ID) {
		return Result{}, nil
	}
	return Result{Message: "Item removed", Changed: true}, s.persistDraft(ctx)
}

func (s *Session) editItem(ctx context.Context, c EditItem) (Result, error) {
	in, ok := s.draft.EditItem(c.ID)
	if !ok {
		return Result{}, apperr.NotFound("item", c.ID)
	}
	res := Result{Message: fmt.Sprintf("Editing %s", in.Name), Changed: true, Recalled: &in}
	return res, s.persistDraft(ctx)
}

func (s *Session) clearItems(ctx context.Context) (Result, error) {
	if !s.draft.Clear() {
		return Result{Message: "List is already empty"}, nil
	}
	return Result{Message: "All items cleared", Changed: true}, s.persistDraft(ctx)
}

// renameDraft renames the draft and, when it mirrors a saved record,
// the record too. A failed write puts the draft back.
func (s *Session) renameDraft(ctx context.Context, c RenameDraft) (Result, error) {
	prev := s.draft.Current()
	l, err := s.draft.Rename(c.Name)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.repo.SyncName(ctx, l.ID, l.Name, l.UpdatedAt); err != nil {
		s.draft.Load(prev)
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("List renamed to %q", l.Name), Changed: true}, s.persistDraft(ctx)
}

func (s *Session) saveDraft(ctx context.Context) (Result, error) {
	saved, outcome, err := s.repo.Save(ctx, s.draft.Current())
	if err != nil {
		return Result{}, err
	}
	s.draft.Adopt(saved)
	if err := s.history.Save(ctx, s.store); err != nil {
		return Result{}, err
	}
	res := Result{
		Message: fmt.Sprintf("List %s successfully!", outcome),
		Changed: true,
		List:    &saved,
		Outcome: outcome,
	}
	return res, s.persistDraft(ctx)
}

func (s *Session) duplicateList(ctx context.Context, c DuplicateList) (Result, error) {
	dup, err := s.repo.Duplicate(ctx, c.ID, c.Name)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Duplicated as %q", dup.Name), Changed: true, List: &dup}, nil
}

func (s *Session) renameList(ctx context.Context, c RenameList) (Result, error) {
	l, err := s.repo.Rename(ctx, c.ID, c.Name)
	if err != nil {
		return Result{}, err
	}
	res := Result{Message: fmt.Sprintf("List renamed to %q", l.Name), Changed: true, List: &l}
	if s.draft.ID() == l.ID {
		s.draft.SetName(l.Name)
		return res, s.persistDraft(ctx)
	}
	return res, nil
}

// deleteList removes a saved record. A missing id is not an error.
func (s *Session) deleteList(ctx context.Context, c DeleteList) (Result, error) {
	removed, err := s.repo.Delete(ctx, c.ID)
	if err != nil || !removed {
		return Result{}, err
	}
	res := Result{Message: "List deleted", Changed: true}
	if s.draft.ID() == c.ID {
		s.draft.Close()
		return res, s.persistDraft(ctx)
	}
	return res, nil
}

func (s *Session) loadList(ctx context.Context, c LoadList) (Result, error) {
	l, err := s.repo.Get(c.ID)
	if err != nil {
		return Result{}, err
	}
	s.draft.Load(l)
	return Result{Message: fmt.Sprintf("Opened %q", l.Name), Changed: true}, s.persistDraft(ctx)
}

// exportDraft snapshots the draft and renders it without holding the
// session lock, so the surface stays responsive during a slow raster.
func (s *Session) exportDraft(ctx context.Context, c ExportDraft) (Result, error) {
	if s.exporter == nil {
		return Result{}, ErrNoExporter
	}
	s.mu.Lock()
	snap := s.draft.Current()
	s.mu.Unlock()

	var (
		rep export.Report
		err error
	)
	switch {
	case c.HTMLOnly:
		rep, err = s.exporter.ExportHTML(ctx, snap)
	case c.Prompter != nil:
		rep, err = s.exporter.ExportWith(ctx, snap, c.Prompter)
	default:
		rep, err = s.exporter.Export(ctx, snap)
	}
	res := Result{Draft: snap, Export: &rep}
	if err != nil {
		s.logger.Warn("export failed", "list", snap.ID, "error", err)
		return res, err
	}
	res.Message = exportMessage(rep)
	return res, nil
}

func exportMessage(rep export.Report) string {
	switch rep.Strategy {
	case export.StrategyHTML:
		return "HTML file downloaded! Open it in a browser to view or print."
	default:
		if rep.AcceptedHTML {
			return "PDF and HTML downloaded successfully!"
		}
		return "PDF downloaded successfully!"
	}
}
