package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry. Posted is terminal.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
)

// Side names the debit or credit column of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Line is one row of a journal entry. At most one of Debit/Credit is
// non-zero at any time.
type Line struct {
	ID          string
	AccountID   string
	Description string
	PartnerID   string // optional counterpart, informational only
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Used reports whether the line carries any data. Empty lines are ignored
// by validation and never persisted.
func (l Line) Used() bool {
	return l.AccountID != "" || !l.Debit.IsZero() || !l.Credit.IsZero()
}

// JournalEntry is a single balanced transaction.
type JournalEntry struct {
	ID          string // assigned by the store on commit
	Date        time.Time
	Reference   string
	Description string
	Status      EntryStatus
	Lines       []Line
}

// UsedLines returns the lines that carry data, in order.
func (e JournalEntry) UsedLines() []Line {
	var lines []Line
	for _, l := range e.Lines {
		if l.Used() {
			lines = append(lines, l)
		}
	}
	return lines
}
