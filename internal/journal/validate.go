package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bookline-dev/bookline/internal/model"
)

// MinLines is the smallest number of lines a double-entry transaction needs.
const MinLines = 2

// ViolationKind identifies a posting rule an entry breaks.
type ViolationKind string

const (
	ViolationUnbalanced       ViolationKind = "unbalanced"
	ViolationNonPositiveTotal ViolationKind = "non-positive-total"
	ViolationEmptyDescription ViolationKind = "empty-description"
	ViolationTooFewLines      ViolationKind = "too-few-lines"
	ViolationNotPostable      ViolationKind = "account-not-postable"
)

// Violation describes a single rule an entry breaks. An empty slice from
// ValidateForPost means the entry may be posted.
type Violation struct {
	Kind       ViolationKind
	LineID     string          // set for per-line violations
	Difference decimal.Decimal // set for ViolationUnbalanced: debits minus credits
	Detail     string
}

func (v Violation) Error() string {
	if v.LineID != "" {
		return fmt.Sprintf("%s [line %s]: %s", v.Kind, v.LineID, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
}

// AccountResolver resolves an account ID against the postable set.
type AccountResolver interface {
	Get(id string) (model.Account, bool)
}

// ValidateForPost checks every rule an entry must satisfy before it may
// transition to posted. Pure: callers may probe it speculatively without
// touching entry state. Empty lines are ignored throughout.
func ValidateForPost(e model.JournalEntry, accounts AccountResolver) []Violation {
	var violations []Violation

	if strings.TrimSpace(e.Description) == "" {
		violations = append(violations, Violation{
			Kind:   ViolationEmptyDescription,
			Detail: "entry description is required",
		})
	}

	used := e.UsedLines()
	if len(used) < MinLines {
		violations = append(violations, Violation{
			Kind:   ViolationTooFewLines,
			Detail: fmt.Sprintf("need at least %d lines, have %d", MinLines, len(used)),
		})
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range used {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)

		acct, ok := accounts.Get(l.AccountID)
		if !ok || !acct.Postable() {
			violations = append(violations, Violation{
				Kind:   ViolationNotPostable,
				LineID: l.ID,
				Detail: fmt.Sprintf("account %q is not open for direct posting", l.AccountID),
			})
		}
	}

	if !totalDebit.Equal(totalCredit) {
		violations = append(violations, Violation{
			Kind:       ViolationUnbalanced,
			Difference: totalDebit.Sub(totalCredit),
			Detail:     fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
		})
	} else if totalDebit.IsZero() {
		violations = append(violations, Violation{
			Kind:   ViolationNonPositiveTotal,
			Detail: "entry total must be greater than zero",
		})
	}

	return violations
}
