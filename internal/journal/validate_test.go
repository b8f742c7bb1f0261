package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline-dev/bookline/internal/model"
)

// fakeAccounts implements AccountResolver for testing.
type fakeAccounts struct {
	accounts map[string]model.Account
}

func (f *fakeAccounts) Get(id string) (model.Account, bool) {
	a, ok := f.accounts[id]
	return a, ok
}

// newFakeAccounts returns a resolver where every given id is postable.
func newFakeAccounts(ids ...string) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[string]model.Account)}
	for _, id := range ids {
		f.accounts[id] = model.Account{
			ID: id, Code: id, Name: "Account " + id,
			IsActive: true, AllowDirectPosting: true,
		}
	}
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

var testResolver = newFakeAccounts("1110", "1120", "2110", "4100", "5200")

func balancedEntry(amount string) model.JournalEntry {
	return model.JournalEntry{
		Date:        date(2025, 1, 15),
		Description: "Office rent",
		Status:      model.StatusDraft,
		Lines: []model.Line{
			{ID: "l1", AccountID: "5200", Debit: dec(amount)},
			{ID: "l2", AccountID: "1120", Credit: dec(amount)},
		},
	}
}

func kinds(violations []Violation) []ViolationKind {
	out := make([]ViolationKind, len(violations))
	for i, v := range violations {
		out[i] = v.Kind
	}
	return out
}

func TestValidateBalancedEntry(t *testing.T) {
	violations := ValidateForPost(balancedEntry("100.00"), testResolver)
	assert.Empty(t, violations)
}

func TestValidateUnbalanced(t *testing.T) {
	e := balancedEntry("100.00")
	e.Lines[1].Credit = dec("90.00")

	violations := ValidateForPost(e, testResolver)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationUnbalanced, violations[0].Kind)
	assert.True(t, violations[0].Difference.Equal(dec("10.00")), "difference %s", violations[0].Difference)
}

func TestValidateEmptyDescription(t *testing.T) {
	e := balancedEntry("50.00")
	e.Description = "   "

	violations := ValidateForPost(e, testResolver)
	assert.Contains(t, kinds(violations), ViolationEmptyDescription)
}

func TestValidateTooFewLines(t *testing.T) {
	e := balancedEntry("50.00")
	e.Lines = e.Lines[:1]

	violations := ValidateForPost(e, testResolver)
	assert.Contains(t, kinds(violations), ViolationTooFewLines)
}

func TestValidateEmptyLinesIgnored(t *testing.T) {
	e := balancedEntry("50.00")
	e.Lines = append(e.Lines, model.Line{ID: "l3"}, model.Line{ID: "l4"})

	violations := ValidateForPost(e, testResolver)
	assert.Empty(t, violations, "empty lines must not trip line checks")
}

func TestValidateNonPositiveTotal(t *testing.T) {
	// Accounts assigned, no amounts: balanced at zero is still not postable.
	e := balancedEntry("0")
	e.Lines[0].Debit = decimal.Zero
	e.Lines[1].Credit = decimal.Zero

	violations := ValidateForPost(e, testResolver)
	assert.Contains(t, kinds(violations), ViolationNonPositiveTotal)
	assert.NotContains(t, kinds(violations), ViolationUnbalanced)
}

func TestValidateUnknownAccount(t *testing.T) {
	e := balancedEntry("25.00")
	e.Lines[0].AccountID = "9999"

	violations := ValidateForPost(e, testResolver)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationNotPostable, violations[0].Kind)
	assert.Equal(t, "l1", violations[0].LineID)
}

func TestValidateNonPostableAccount(t *testing.T) {
	resolver := newFakeAccounts("1110", "1120")
	closed := resolver.accounts["1110"]
	closed.IsActive = false
	resolver.accounts["1110"] = closed

	e := balancedEntry("25.00")
	e.Lines[0].AccountID = "1110"
	e.Lines[1].AccountID = "1120"

	violations := ValidateForPost(e, resolver)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationNotPostable, violations[0].Kind)
}

func TestValidateMultipleViolations(t *testing.T) {
	e := model.JournalEntry{
		Date:   date(2025, 1, 15),
		Status: model.StatusDraft,
		Lines: []model.Line{
			{ID: "l1", AccountID: "9999", Debit: dec("100.00")},
		},
	}

	got := kinds(ValidateForPost(e, testResolver))
	assert.Contains(t, got, ViolationEmptyDescription)
	assert.Contains(t, got, ViolationTooFewLines)
	assert.Contains(t, got, ViolationNotPostable)
	assert.Contains(t, got, ViolationUnbalanced)
}

func TestValidateMultiLineBalanced(t *testing.T) {
	// Split debit across two expense accounts.
	e := model.JournalEntry{
		Date:        date(2025, 1, 15),
		Description: "Rent and supplies",
		Status:      model.StatusDraft,
		Lines: []model.Line{
			{ID: "l1", AccountID: "5200", Debit: dec("60.00")},
			{ID: "l2", AccountID: "5200", Debit: dec("40.00")},
			{ID: "l3", AccountID: "1120", Credit: dec("100.00")},
		},
	}
	assert.Empty(t, ValidateForPost(e, testResolver))
}

func TestViolationError(t *testing.T) {
	v := Violation{Kind: ViolationNotPostable, LineID: "l1", Detail: "account \"x\" is not open for direct posting"}
	assert.Contains(t, v.Error(), "l1")
	assert.Contains(t, v.Error(), string(ViolationNotPostable))

	v = Violation{Kind: ViolationUnbalanced, Detail: "debits (1.00) != credits (2.00)"}
	assert.Contains(t, v.Error(), "debits")
}
