package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/logging"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/repository"
	"github.com/idilsaglam/grocery/internal/store"
)

func tickClock() func() time.Time {
	t := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func open(t *testing.T, st store.Store, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(tickClock()), WithLogger(logging.Discard())}, opts...)
	s := New(st, opts...)
	require.NoError(t, s.Open(context.Background()))
	return s
}

func must(t *testing.T, s *Session, cmd Command) Result {
	t.Helper()
	res, err := s.Dispatch(context.Background(), cmd)
	require.NoError(t, err, "%T", cmd)
	return res
}

func TestFreshSessionHasUntitledDraft(t *testing.T) {
	s := open(t, store.NewMemory())
	d := s.Draft()
	assert.Equal(t, model.UntitledName, d.Name)
	assert.False(t, d.HasID())
	assert.Empty(t, s.Lists())
}

func TestAddItemRecordsAndPersistsHistory(t *testing.T) {
	st := store.NewMemory()
	s := open(t, st)
	must(t, s, NewList{Name: "Weekly"})

	res := must(t, s, AddItem{Name: " Milk ", Quantity: "abc", Preparation: "cold"})
	require.NotNil(t, res.Item)
	assert.Equal(t, "Milk", res.Item.Name)
	assert.Equal(t, 1, res.Item.Quantity)
	assert.Equal(t, model.UnitKg, res.Item.Unit)
	must(t, s, AddItem{Name: "milk powder", Quantity: "2", Unit: "packet"})
	must(t, s, AddItem{Name: "Lime", Quantity: "3", Unit: "PCS"})
	must(t, s, AddItem{Name: "Milk", Quantity: "1"})

	var items []string
	found, err := store.LoadJSON(context.Background(), st, store.KeyPreviousItems, &items)
	require.NoError(t, err)
	require.True(t, found, "history written without an explicit save")
	assert.Equal(t, []string{"Milk", "milk powder", "Lime"}, items)

	res = must(t, s, SuggestItems{Query: "mil"})
	assert.Equal(t, []string{"Milk", "milk powder"}, res.Suggestions)
	assert.Empty(t, must(t, s, SuggestItems{Query: ""}).Suggestions)
	assert.Equal(t, []string{"cold"}, must(t, s, SuggestPreparations{Query: "CO"}).Suggestions)
}

func TestAddItemValidation(t *testing.T) {
	s := open(t, store.NewMemory())
	_, err := s.Dispatch(context.Background(), AddItem{Name: "  "})
	assert.True(t, apperr.IsValidation(err))
	_, err = s.Dispatch(context.Background(), AddItem{Name: "Rice", Unit: "furlong"})
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, s.Draft().Items)

	_, err = s.Dispatch(context.Background(), NewList{Name: ""})
	assert.True(t, apperr.IsValidation(err))
}

func TestDefaultUnitOption(t *testing.T) {
	s := open(t, store.NewMemory(), WithDefaultUnit(model.UnitPcs))
	res := must(t, s, AddItem{Name: "Egg"})
	assert.Equal(t, model.UnitPcs, res.Item.Unit)
}

func TestSaveInsertsThenUpdates(t *testing.T) {
	s := open(t, store.NewMemory())

	_, err := s.Dispatch(context.Background(), SaveDraft{})
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, s.Lists())

	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk"})
	res := must(t, s, SaveDraft{})
	assert.Equal(t, repository.Inserted, res.Outcome)
	assert.Equal(t, "List saved successfully!", res.Message)
	require.NotNil(t, res.List)

	must(t, s, AddItem{Name: "Bread"})
	res = must(t, s, SaveDraft{})
	assert.Equal(t, repository.Updated, res.Outcome)
	assert.Equal(t, "List updated successfully!", res.Message)

	lists := s.Lists()
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Items, 2)
	assert.Equal(t, s.Draft().ID, lists[0].ID)
}

func TestSavingUntitledDraftAssignsID(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, AddItem{Name: "Milk"})
	res := must(t, s, SaveDraft{})
	assert.True(t, res.List.HasID())
	assert.Equal(t, res.List.ID, res.Draft.ID)
	assert.NotNil(t, res.Draft.CreatedAt)
}

func TestLoadListIsAliasFree(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk"})
	saved := must(t, s, SaveDraft{}).List
	must(t, s, CloseList{})

	res := must(t, s, LoadList{ID: saved.ID})
	assert.Equal(t, saved.Items, res.Draft.Items)

	must(t, s, AddItem{Name: "Eggs"})
	stored, err := s.List(saved.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1, "draft edits stay out of the record until saved")

	_, err = s.Dispatch(context.Background(), LoadList{ID: 42})
	assert.True(t, apperr.IsNotFound(err))
}

func TestRenameDraftSyncsRecord(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk"})
	id := must(t, s, SaveDraft{}).List.ID
	must(t, s, AddItem{Name: "Unsaved"})

	must(t, s, RenameDraft{Name: "Diwali"})
	rec, err := s.List(id)
	require.NoError(t, err)
	assert.Equal(t, "Diwali", rec.Name)
	assert.Len(t, rec.Items, 1, "rename does not copy items")

	_, err = s.Dispatch(context.Background(), RenameDraft{Name: "Diwali"})
	assert.True(t, apperr.IsValidation(err))
}

func TestRenameListUpdatesMirroredDraft(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, NewList{Name: "A"})
	must(t, s, AddItem{Name: "Milk"})
	a := must(t, s, SaveDraft{}).List
	must(t, s, NewList{Name: "B"})
	must(t, s, AddItem{Name: "Tea"})
	b := must(t, s, SaveDraft{}).List

	must(t, s, RenameList{ID: a.ID, Name: "A2"})
	assert.Equal(t, "B", s.Draft().Name)

	must(t, s, RenameList{ID: b.ID, Name: "B2"})
	assert.Equal(t, "B2", s.Draft().Name)
	assert.Len(t, s.Draft().Items, 1)

	_, err := s.Dispatch(context.Background(), RenameList{ID: 1, Name: "x"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteClosesMirroredDraftAndIsIdempotent(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk"})
	id := must(t, s, SaveDraft{}).List.ID

	res := must(t, s, DeleteList{ID: id})
	assert.True(t, res.Changed)
	assert.Equal(t, model.UntitledName, res.Draft.Name)
	assert.Empty(t, s.Lists())

	res = must(t, s, DeleteList{ID: id})
	assert.False(t, res.Changed)
}

func TestDuplicate(t *testing.T) {
	s := open(t, store.NewMemory())
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk"})
	src := must(t, s, SaveDraft{}).List

	dup := must(t, s, DuplicateList{ID: src.ID, Name: "Weekly (Copy)"}).List
	require.NotNil(t, dup)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, src.Items, dup.Items)
	assert.Equal(t, dup.ID, s.Lists()[0].ID, "copy goes to the front")

	_, err := s.Dispatch(context.Background(), DuplicateList{ID: 7, Name: "x"})
	assert.True(t, apperr.IsNotFound(err))
	_, err = s.Dispatch(context.Background(), DuplicateList{ID: src.ID, Name: " "})
	assert.True(t, apperr.IsValidation(err))
}

func TestEditItemRecallsAndRemoves(t *testing.T) {
	s := open(t, store.NewMemory())
	a := must(t, s, AddItem{Name: "Onion", Quantity: "2", Unit: "kg", Preparation: "chopped"}).Item
	must(t, s, AddItem{Name: "Tea"})

	res := must(t, s, EditItem{ID: a.ID})
	require.NotNil(t, res.Recalled)
	assert.Equal(t, "Onion", res.Recalled.Name)
	assert.Equal(t, "2", res.Recalled.Quantity)
	assert.Equal(t, "chopped", res.Recalled.Preparation)
	require.Len(t, res.Draft.Items, 1)
	assert.Equal(t, "Tea", res.Draft.Items[0].Name)

	_, err := s.Dispatch(context.Background(), EditItem{ID: a.ID})
	assert.True(t, apperr.IsNotFound(err))
}

func TestRemoveAndClear(t *testing.T) {
	s := open(t, store.NewMemory())
	a := must(t, s, AddItem{Name: "A"}).Item
	must(t, s, AddItem{Name: "B"})

	assert.False(t, must(t, s, RemoveItem{ID: 999}).Changed)
	assert.True(t, must(t, s, RemoveItem{ID: a.ID}).Changed)
	assert.True(t, must(t, s, ClearItems{}).Changed)
	assert.False(t, must(t, s, ClearItems{}).Changed)
}

func TestStateSurvivesReopen(t *testing.T) {
	st := store.NewMemory()
	s := open(t, st)
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Milk", Preparation: "cold"})
	must(t, s, SaveDraft{})
	must(t, s, AddItem{Name: "Draft only"})
	require.NoError(t, s.Flush(context.Background()))

	again := open(t, st)
	require.Len(t, again.Lists(), 1)
	d := again.Draft()
	assert.Equal(t, "Weekly", d.Name)
	assert.Len(t, d.Items, 2)
	assert.Equal(t, []string{"cold"}, must(t, again, SuggestPreparations{Query: "c"}).Suggestions)

	// ids minted after reopening never collide with stored ones
	added := must(t, again, AddItem{Name: "New"}).Item
	for _, it := range d.Items {
		assert.Greater(t, added.ID, it.ID)
	}
}

// flakyStore fails every write once broken is set.
type flakyStore struct {
	*store.Memory
	broken bool
}

func (f *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

func TestPersistenceErrorsSurface(t *testing.T) {
	st := &flakyStore{Memory: store.NewMemory()}
	s := open(t, st)
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Tea"})

	st.broken = true
	_, err := s.Dispatch(context.Background(), SaveDraft{})
	assert.True(t, apperr.IsPersistence(err))
	assert.Empty(t, s.Lists())
}

func TestFailedAddLeavesStateUnchanged(t *testing.T) {
	st := &flakyStore{Memory: store.NewMemory()}
	s := open(t, st)
	must(t, s, NewList{Name: "Weekly"})
	must(t, s, AddItem{Name: "Tea"})
	before := s.Draft()

	st.broken = true
	for range 2 {
		_, err := s.Dispatch(context.Background(), AddItem{Name: "Milk", Preparation: "cold"})
		assert.True(t, apperr.IsPersistence(err))
	}
	assert.Equal(t, before, s.Draft())

	st.broken = false
	res := must(t, s, SuggestItems{Query: "mil"})
	assert.Empty(t, res.Suggestions)
	res = must(t, s, SuggestPreparations{Query: "cold"})
	assert.Empty(t, res.Suggestions)

	must(t, s, AddItem{Name: "Milk"})
	assert.Len(t, s.Draft().Items, 2)
}

func TestFailedDraftWriteRollsBackHistory(t *testing.T) {
	st := &failKeyStore{Memory: store.NewMemory(), key: store.KeyCurrentList}
	s := open(t, st)

	_, err := s.Dispatch(context.Background(), AddItem{Name: "Milk"})
	require.True(t, apperr.IsPersistence(err))
	assert.Empty(t, s.Draft().Items)
	assert.Empty(t, must(t, s, SuggestItems{Query: "mil"}).Suggestions)
}

// failKeyStore rejects writes to a single key.
type failKeyStore struct {
	*store.Memory
	key string
}

func (f *failKeyStore) Put(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

func TestExportDraft(t *testing.T) {
	dir := t.TempDir()
	p := export.NewPipeline(export.DirSink{Dir: dir}, export.WithLogger(logging.Discard()))

	noExport := open(t, store.NewMemory())
	_, err := noExport.Dispatch(context.Background(), ExportDraft{})
	assert.ErrorIs(t, err, ErrNoExporter)

	s := open(t, store.NewMemory(), WithExporter(p))
	assert.False(t, s.CanRasterize())
	_, err = s.Dispatch(context.Background(), ExportDraft{})
	assert.True(t, apperr.IsValidation(err))

	must(t, s, NewList{Name: "Mom's Diwali List!"})
	must(t, s, AddItem{Name: "कोथिंबीर", Unit: "जुडी"})
	accept := export.PromptFunc(func(context.Context, string) bool { return true })
	res := must(t, s, ExportDraft{Prompter: accept})
	require.NotNil(t, res.Export)
	assert.True(t, res.Export.HasNonLatinScript)
	assert.True(t, res.Export.Disclaimer)
	assert.Equal(t, "PDF and HTML downloaded successfully!", res.Message)

	for _, name := range []string{"Grocery_List_Mom_s_Diwali_List_.pdf", "Grocery_List_Mom_s_Diwali_List_.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	res = must(t, s, ExportDraft{HTMLOnly: true})
	assert.Equal(t, export.StrategyHTML, res.Export.Strategy)
}
