package session

import (
	"github.com/idilsaglam/grocery/internal/draft"
	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/repository"
)

// Command is one user action. Surfaces build commands and hand them to
// Session.Dispatch.
type Command interface {
	command()
}

// Draft commands.
type (
	NewList    struct{ Name string }
	AddItem    struct{ Name, Quantity, Unit, Preparation string }
	RemoveItem struct{ ID int64 }
	// EditItem pulls an item out of the draft into the form. The item is
	// gone until the form is submitted again as an AddItem.
	EditItem    struct{ ID int64 }
	ClearItems  struct{}
	CloseList   struct{}
	RenameDraft struct{ Name string }
	SaveDraft   struct{}
)

// Saved list commands.
type (
	DuplicateList struct {
		ID   int64
		Name string
	}
	RenameList struct {
		ID   int64
		Name string
	}
	DeleteList struct{ ID int64 }
	LoadList   struct{ ID int64 }
)

// Suggestions.
type (
	SuggestItems        struct{ Query string }
	SuggestPreparations struct{ Query string }
)

// ExportDraft renders the draft. Prompter answers the HTML offer for this
// call; nil uses the pipeline's own. HTMLOnly skips the PDF strategies.
type ExportDraft struct {
	Prompter export.Prompter
	HTMLOnly bool
}

func (NewList) command()             {}
func (AddItem) command()             {}
func (RemoveItem) command()          {}
func (EditItem) command()            {}
func (ClearItems) command()          {}
func (CloseList) command()           {}
func (RenameDraft) command()         {}
func (SaveDraft) command()           {}
func (DuplicateList) command()       {}
func (RenameList) command()          {}
func (DeleteList) command()          {}
func (LoadList) command()            {}
func (SuggestItems) command()        {}
func (SuggestPreparations) command() {}
func (ExportDraft) command()         {}

// Result is what a command produced. Draft is always the post-command
// snapshot; the other fields are set by the commands they concern.
type Result struct {
	Message string
	Changed bool
	Draft   model.List

	Item        *model.Item      // AddItem
	Recalled    *draft.ItemInput // EditItem
	List        *model.List      // saved record touched by SaveDraft, DuplicateList, RenameList
	Outcome     repository.Outcome
	Suggestions []string
	Export      *export.Report
}
