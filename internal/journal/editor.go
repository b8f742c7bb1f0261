package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookline-dev/bookline/internal/model"
)

// Errors returned by Editor operations.
var (
	ErrUnknownLine    = errors.New("unknown line id")
	ErrUnknownAccount = errors.New("account not in postable set")
	ErrMinLines       = errors.New("entry requires at least two lines")
	ErrPosted         = errors.New("entry already posted")
	ErrCommitInFlight = errors.New("commit already in flight")
)

// PostError reports why an entry could not transition to posted.
type PostError struct {
	Violations []Violation
}

func (e *PostError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return "entry cannot be posted: " + strings.Join(msgs, "; ")
}

// Store is the persistence collaborator for drafts and posted entries. Both
// calls are expected to be network-bound; implementations receive a snapshot
// of the entry and return the externally assigned entry id.
type Store interface {
	SaveDraft(ctx context.Context, e model.JournalEntry) (string, error)
	Post(ctx context.Context, e model.JournalEntry) (string, error)
}

// Editor owns the in-memory state of a single journal entry and enforces
// line exclusivity and the balanced-entry rules while the user edits.
// Mutations are synchronous and atomic; only Post and SaveDraft suspend, and
// a single-flight guard rejects a second commit while one is outstanding so
// the same entry cannot be submitted twice.
type Editor struct {
	mu       sync.Mutex
	entry    model.JournalEntry
	accounts AccountResolver
	store    Store
	inFlight bool
}

// NewEditor returns a draft editor dated today and seeded with the minimum
// two empty lines.
func NewEditor(accounts AccountResolver, store Store) *Editor {
	ed := &Editor{
		entry: model.JournalEntry{
			Date:   time.Now(),
			Status: model.StatusDraft,
		},
		accounts: accounts,
		store:    store,
	}
	ed.entry.Lines = append(ed.entry.Lines, newLine(), newLine())
	return ed
}

func newLine() model.Line {
	return model.Line{ID: uuid.NewString()}
}

// AddLine appends an empty line and returns its id.
func (ed *Editor) AddLine() (string, error) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return "", ErrPosted
	}
	l := newLine()
	ed.entry.Lines = append(ed.entry.Lines, l)
	return l.ID, nil
}

// RemoveLine removes a line. It refuses to drop the entry below the two
// lines a double-entry transaction needs.
func (ed *Editor) RemoveLine(id string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	if len(ed.entry.Lines) <= MinLines {
		return ErrMinLines
	}
	for i, l := range ed.entry.Lines {
		if l.ID == id {
			ed.entry.Lines = append(ed.entry.Lines[:i], ed.entry.Lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLine, id)
}

// SetLineAccount assigns an account to a line. The id is resolved through
// the postable set; an account outside it is rejected and the line keeps its
// previous assignment.
func (ed *Editor) SetLineAccount(id, accountID string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	line, err := ed.findLine(id)
	if err != nil {
		return err
	}
	if _, ok := ed.accounts.Get(accountID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	line.AccountID = accountID
	return nil
}

// SetLineAmount sets one side of a line. Negative values clamp to zero.
// A positive value zeroes the opposite side, so a line never carries both a
// debit and a credit; a zero clears the given side.
func (ed *Editor) SetLineAmount(id string, side model.Side, value decimal.Decimal) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	line, err := ed.findLine(id)
	if err != nil {
		return err
	}
	if value.IsNegative() {
		value = decimal.Zero
	}
	switch side {
	case model.SideDebit:
		line.Debit = value
		if value.IsPositive() {
			line.Credit = decimal.Zero
		}
	case model.SideCredit:
		line.Credit = value
		if value.IsPositive() {
			line.Debit = decimal.Zero
		}
	default:
		return fmt.Errorf("unknown side %q", side)
	}
	return nil
}

// SetLineDescription sets a line's free-form description.
func (ed *Editor) SetLineDescription(id, description string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	line, err := ed.findLine(id)
	if err != nil {
		return err
	}
	line.Description = description
	return nil
}

// SetLinePartner sets a line's counterpart reference.
func (ed *Editor) SetLinePartner(id, partnerID string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	line, err := ed.findLine(id)
	if err != nil {
		return err
	}
	line.PartnerID = partnerID
	return nil
}

// SetDate sets the entry date.
func (ed *Editor) SetDate(date time.Time) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	ed.entry.Date = date
	return nil
}

// SetReference sets the entry's free-form reference.
func (ed *Editor) SetReference(reference string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	ed.entry.Reference = reference
	return nil
}

// SetDescription sets the entry description.
func (ed *Editor) SetDescription(description string) error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.entry.Status == model.StatusPosted {
		return ErrPosted
	}
	ed.entry.Description = description
	return nil
}

// findLine returns a pointer into the line slice; callers hold the mutex.
func (ed *Editor) findLine(id string) (*model.Line, error) {
	for i := range ed.entry.Lines {
		if ed.entry.Lines[i].ID == id {
			return &ed.entry.Lines[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLine, id)
}

// Totals are the live debit/credit sums of an entry.
type Totals struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal // Debit minus Credit
	Balanced   bool
}

// Totals recomputes the sums from current line state on every call.
// Comparison is exact decimal equality.
func (ed *Editor) Totals() Totals {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	debit := decimal.Zero
	credit := decimal.Zero
	for _, l := range ed.entry.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return Totals{
		Debit:      debit,
		Credit:     credit,
		Difference: debit.Sub(credit),
		Balanced:   debit.Equal(credit),
	}
}

// Lines returns a copy of the current lines in order.
func (ed *Editor) Lines() []model.Line {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return append([]model.Line(nil), ed.entry.Lines...)
}

// Entry returns an independent snapshot of the entry.
func (ed *Editor) Entry() model.JournalEntry {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.snapshotLocked()
}

// Status returns the entry's lifecycle state.
func (ed *Editor) Status() model.EntryStatus {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.entry.Status
}

// Committing reports whether a Post or SaveDraft is currently outstanding.
func (ed *Editor) Committing() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.inFlight
}

// Validate runs the posting checks against the current state.
func (ed *Editor) Validate() []Violation {
	return ValidateForPost(ed.Entry(), ed.accounts)
}

// Post transitions the entry from draft to posted, but only when validation
// reports no violations. The store call happens outside the lock; a failed
// commit leaves the in-memory entry exactly as it was so the caller can
// retry without re-entering data.
func (ed *Editor) Post(ctx context.Context) (string, error) {
	ed.mu.Lock()
	if ed.inFlight {
		ed.mu.Unlock()
		return "", ErrCommitInFlight
	}
	if ed.entry.Status == model.StatusPosted {
		ed.mu.Unlock()
		return "", ErrPosted
	}
	if violations := ValidateForPost(ed.snapshotLocked(), ed.accounts); len(violations) > 0 {
		ed.mu.Unlock()
		return "", &PostError{Violations: violations}
	}
	snapshot := ed.snapshotLocked()
	ed.inFlight = true
	ed.mu.Unlock()

	id, err := ed.store.Post(ctx, snapshot)

	ed.mu.Lock()
	ed.inFlight = false
	if err == nil {
		ed.entry.ID = id
		ed.entry.Status = model.StatusPosted
	}
	ed.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("posting entry: %w", err)
	}
	return id, nil
}

// SaveDraft persists the current state without requiring balance or
// completeness. The entry stays a draft and keeps the id the store assigns
// so later saves overwrite the same draft.
func (ed *Editor) SaveDraft(ctx context.Context) (string, error) {
	ed.mu.Lock()
	if ed.inFlight {
		ed.mu.Unlock()
		return "", ErrCommitInFlight
	}
	if ed.entry.Status == model.StatusPosted {
		ed.mu.Unlock()
		return "", ErrPosted
	}
	snapshot := ed.snapshotLocked()
	ed.inFlight = true
	ed.mu.Unlock()

	id, err := ed.store.SaveDraft(ctx, snapshot)

	ed.mu.Lock()
	ed.inFlight = false
	if err == nil {
		ed.entry.ID = id
	}
	ed.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("saving draft: %w", err)
	}
	return id, nil
}

func (ed *Editor) snapshotLocked() model.JournalEntry {
	snapshot := ed.entry
	snapshot.Lines = append([]model.Line(nil), ed.entry.Lines...)
	return snapshot
}
