package accounts

import (
	"strings"

	"github.com/bookline-dev/bookline/internal/model"
)

// Status constrains a filter to active or inactive accounts.
type Status string

const (
	StatusAny      Status = ""
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Filter is a conjunction of optional constraints on the flat collection.
// Zero values mean "no constraint on this field".
type Filter struct {
	Search     string // case-insensitive substring on name, containment on code
	Type       model.AccountType
	Category   model.AccountCategory
	Status     Status
	HasBalance bool // true requires a non-zero balance
	Level      int  // 0 = any
}

// Match reports whether a single account satisfies every supplied constraint.
func (f Filter) Match(a model.Account) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(a.Code, f.Search) {
			return false
		}
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Status == StatusActive && !a.IsActive {
		return false
	}
	if f.Status == StatusInactive && a.IsActive {
		return false
	}
	if f.HasBalance && a.Balance.IsZero() {
		return false
	}
	if f.Level > 0 && a.Level != f.Level {
		return false
	}
	return true
}

// Apply returns the accounts matching f, preserving the input order.
//
// When Level is supplied the result is closed under ancestry: every matched
// account's ParentID chain is added even where the ancestors fail the filter
// themselves. Without this the matches would form floating subtrees with no
// visible root.
func Apply(accts []model.Account, f Filter) []model.Account {
	include := make(map[string]bool, len(accts))
	var matched []model.Account
	for _, a := range accts {
		if f.Match(a) {
			include[a.ID] = true
			matched = append(matched, a)
		}
	}

	if f.Level > 0 {
		byID := make(map[string]model.Account, len(accts))
		for _, a := range accts {
			byID[a.ID] = a
		}
		for _, m := range matched {
			pid := m.ParentID
			for pid != "" && !include[pid] {
				p, ok := byID[pid]
				if !ok {
					break
				}
				include[p.ID] = true
				pid = p.ParentID
			}
		}
	}

	var out []model.Account
	for _, a := range accts {
		if include[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
