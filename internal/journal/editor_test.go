package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline-dev/bookline/internal/model"
)

// fakeStore records commits and can be made to fail or block.
type fakeStore struct {
	mu       sync.Mutex
	posted   []model.JournalEntry
	drafts   []model.JournalEntry
	postErr  error
	draftErr error
	block    chan struct{} // when non-nil, commits wait until closed
}

func (s *fakeStore) Post(_ context.Context, e model.JournalEntry) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postErr != nil {
		return "", s.postErr
	}
	s.posted = append(s.posted, e)
	return "2025-01-001", nil
}

func (s *fakeStore) SaveDraft(_ context.Context, e model.JournalEntry) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draftErr != nil {
		return "", s.draftErr
	}
	s.drafts = append(s.drafts, e)
	if e.ID != "" {
		return e.ID, nil
	}
	return "draft-1", nil
}

// balancedEditor builds a draft ready to post: rent debit, bank credit.
func balancedEditor(t *testing.T, store Store) *Editor {
	t.Helper()
	ed := NewEditor(testResolver, store)
	lines := ed.Lines()
	require.Len(t, lines, 2)

	require.NoError(t, ed.SetDescription("Office rent"))
	require.NoError(t, ed.SetDate(date(2025, 1, 15)))
	require.NoError(t, ed.SetLineAccount(lines[0].ID, "5200"))
	require.NoError(t, ed.SetLineAmount(lines[0].ID, model.SideDebit, dec("100.00")))
	require.NoError(t, ed.SetLineAccount(lines[1].ID, "1120"))
	require.NoError(t, ed.SetLineAmount(lines[1].ID, model.SideCredit, dec("100.00")))
	return ed
}

func TestNewEditorStartsWithTwoEmptyLines(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})

	assert.Equal(t, model.StatusDraft, ed.Status())
	lines := ed.Lines()
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Used())
	assert.NotEqual(t, lines[0].ID, lines[1].ID)
}

func TestAddRemoveLine(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})

	lineID, err := ed.AddLine()
	require.NoError(t, err)
	assert.Len(t, ed.Lines(), 3)

	require.NoError(t, ed.RemoveLine(lineID))
	assert.Len(t, ed.Lines(), 2)
}

func TestRemoveLineRefusesBelowMinimum(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lines := ed.Lines()

	err := ed.RemoveLine(lines[0].ID)
	assert.ErrorIs(t, err, ErrMinLines)
	assert.Len(t, ed.Lines(), 2, "entry must still have two lines")
}

func TestRemoveUnknownLine(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	_, err := ed.AddLine()
	require.NoError(t, err)

	assert.ErrorIs(t, ed.RemoveLine("nope"), ErrUnknownLine)
	assert.Len(t, ed.Lines(), 3)
}

func TestSetLineAccount(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID

	require.NoError(t, ed.SetLineAccount(lineID, "1110"))
	assert.Equal(t, "1110", ed.Lines()[0].AccountID)
}

func TestSetLineAccountUnknownRejected(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID
	require.NoError(t, ed.SetLineAccount(lineID, "1110"))

	err := ed.SetLineAccount(lineID, "9999")
	assert.ErrorIs(t, err, ErrUnknownAccount)
	assert.Equal(t, "1110", ed.Lines()[0].AccountID, "line keeps its previous assignment")
}

func TestSetLineAmountExclusivity(t *testing.T) {
	// Setting the opposite side moves the amount, never doubles it.
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID

	require.NoError(t, ed.SetLineAmount(lineID, model.SideDebit, dec("50.00")))
	require.NoError(t, ed.SetLineAmount(lineID, model.SideCredit, dec("30.00")))

	line := ed.Lines()[0]
	assert.True(t, line.Debit.IsZero(), "debit %s", line.Debit)
	assert.True(t, line.Credit.Equal(dec("30.00")), "credit %s", line.Credit)
}

func TestSetLineAmountAlternatingSides(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID

	amounts := []string{"10", "20", "15", "40", "5"}
	for i, amt := range amounts {
		side := model.SideDebit
		if i%2 == 1 {
			side = model.SideCredit
		}
		require.NoError(t, ed.SetLineAmount(lineID, side, dec(amt)))

		line := ed.Lines()[0]
		assert.False(t, line.Debit.IsPositive() && line.Credit.IsPositive(),
			"line carries both sides after step %d: debit=%s credit=%s", i, line.Debit, line.Credit)
	}
}

func TestSetLineAmountClampsNegative(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID

	require.NoError(t, ed.SetLineAmount(lineID, model.SideDebit, dec("-42")))
	assert.True(t, ed.Lines()[0].Debit.IsZero())
}

func TestSetLineAmountZeroClearsSide(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lineID := ed.Lines()[0].ID

	require.NoError(t, ed.SetLineAmount(lineID, model.SideDebit, dec("75.00")))
	require.NoError(t, ed.SetLineAmount(lineID, model.SideDebit, decimal.Zero))

	line := ed.Lines()[0]
	assert.True(t, line.Debit.IsZero())
	assert.True(t, line.Credit.IsZero())
}

func TestSetLineAmountUnknownSide(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	err := ed.SetLineAmount(ed.Lines()[0].ID, model.Side("sideways"), dec("1"))
	assert.Error(t, err)
}

func TestTotalsRecomputed(t *testing.T) {
	ed := NewEditor(testResolver, &fakeStore{})
	lines := ed.Lines()

	require.NoError(t, ed.SetLineAmount(lines[0].ID, model.SideDebit, dec("100.00")))
	totals := ed.Totals()
	assert.True(t, totals.Debit.Equal(dec("100.00")))
	assert.False(t, totals.Balanced)
	assert.True(t, totals.Difference.Equal(dec("100.00")))

	require.NoError(t, ed.SetLineAmount(lines[1].ID, model.SideCredit, dec("100.00")))
	totals = ed.Totals()
	assert.True(t, totals.Balanced)
	assert.True(t, totals.Difference.IsZero())
}

func TestPostBalancedEntry(t *testing.T) {
	store := &fakeStore{}
	ed := balancedEditor(t, store)

	assert.Empty(t, ed.Validate())

	entryID, err := ed.Post(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-001", entryID)
	assert.Equal(t, model.StatusPosted, ed.Status())
	require.Len(t, store.posted, 1)
	assert.Equal(t, "Office rent", store.posted[0].Description)
}

func TestPostUnbalancedEntryRejected(t *testing.T) {
	store := &fakeStore{}
	ed := balancedEditor(t, store)
	require.NoError(t, ed.SetLineAmount(ed.Lines()[1].ID, model.SideCredit, dec("90.00")))

	_, err := ed.Post(context.Background())
	var postErr *PostError
	require.ErrorAs(t, err, &postErr)
	require.Len(t, postErr.Violations, 1)
	assert.Equal(t, ViolationUnbalanced, postErr.Violations[0].Kind)
	assert.True(t, postErr.Violations[0].Difference.Equal(dec("10.00")))

	assert.Equal(t, model.StatusDraft, ed.Status(), "failed post leaves the entry a draft")
	assert.Empty(t, store.posted)
}

func TestPostedIsTerminal(t *testing.T) {
	store := &fakeStore{}
	ed := balancedEditor(t, store)
	_, err := ed.Post(context.Background())
	require.NoError(t, err)

	_, err = ed.Post(context.Background())
	assert.ErrorIs(t, err, ErrPosted)
	_, err = ed.SaveDraft(context.Background())
	assert.ErrorIs(t, err, ErrPosted)

	lineID := ed.Lines()[0].ID
	assert.ErrorIs(t, ed.SetLineAmount(lineID, model.SideDebit, dec("1")), ErrPosted)
	assert.ErrorIs(t, ed.SetLineAccount(lineID, "1110"), ErrPosted)
	assert.ErrorIs(t, ed.SetDescription("changed"), ErrPosted)
	assert.ErrorIs(t, ed.RemoveLine(lineID), ErrPosted)
	_, err = ed.AddLine()
	assert.ErrorIs(t, err, ErrPosted)
}

func TestPostStoreFailurePreservesState(t *testing.T) {
	store := &fakeStore{postErr: errors.New("server unreachable")}
	ed := balancedEditor(t, store)
	before := ed.Entry()

	_, err := ed.Post(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPosted)

	assert.Equal(t, model.StatusDraft, ed.Status())
	assert.Equal(t, before.Lines, ed.Lines(), "a failed commit must not touch line state")
	assert.False(t, ed.Committing())

	// Retry succeeds once the store recovers.
	store.postErr = nil
	_, err = ed.Post(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, ed.Status())
}

func TestSaveDraftAllowsIncompleteEntry(t *testing.T) {
	store := &fakeStore{}
	ed := NewEditor(testResolver, store)
	require.NoError(t, ed.SetLineAmount(ed.Lines()[0].ID, model.SideDebit, dec("10")))

	draftID, err := ed.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "draft-1", draftID)
	assert.Equal(t, model.StatusDraft, ed.Status())
	require.Len(t, store.drafts, 1)

	// Subsequent saves reuse the assigned id.
	draftID2, err := ed.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, draftID, draftID2)
}

func TestCommitSingleFlight(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	ed := balancedEditor(t, store)

	done := make(chan error, 1)
	go func() {
		_, err := ed.Post(context.Background())
		done <- err
	}()

	require.Eventually(t, ed.Committing, time.Second, time.Millisecond)

	_, err := ed.Post(context.Background())
	assert.ErrorIs(t, err, ErrCommitInFlight)
	_, err = ed.SaveDraft(context.Background())
	assert.ErrorIs(t, err, ErrCommitInFlight)

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, model.StatusPosted, ed.Status())
	assert.False(t, ed.Committing())
	assert.Len(t, store.posted, 1, "the entry is submitted exactly once")
}

func TestEntrySnapshotIsIndependent(t *testing.T) {
	ed := balancedEditor(t, &fakeStore{})
	snapshot := ed.Entry()

	snapshot.Lines[0].Debit = dec("999")
	assert.True(t, ed.Lines()[0].Debit.Equal(dec("100.00")), "mutating a snapshot must not affect the editor")
}
