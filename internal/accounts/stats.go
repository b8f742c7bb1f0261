package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/bookline-dev/bookline/internal/model"
)

// Stats summarizes a flat account collection for display.
type Stats struct {
	Total      int
	Active     int
	Inactive   int
	ByType     map[model.AccountType]int
	ByCategory map[model.AccountCategory]int

	TotalBalance decimal.Decimal // sum of absolute balances
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
}

// ComputeStats aggregates counts and balance totals over the collection.
func ComputeStats(accts []model.Account) Stats {
	stats := Stats{
		ByType:       make(map[model.AccountType]int),
		ByCategory:   make(map[model.AccountCategory]int),
		TotalBalance: decimal.Zero,
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}

	for _, a := range accts {
		stats.Total++
		if a.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		stats.ByType[a.Type]++
		if a.Category != "" {
			stats.ByCategory[a.Category]++
		}
		stats.TotalBalance = stats.TotalBalance.Add(a.Balance.Abs())
		stats.TotalDebit = stats.TotalDebit.Add(a.DebitBalance)
		stats.TotalCredit = stats.TotalCredit.Add(a.CreditBalance)
	}
	return stats
}
