package accounts

import "github.com/bookline-dev/bookline/internal/model"

// DefaultChart returns the starter chart of accounts written by
// "bookline init". IDs match codes in the default chart; stores that assign
// opaque ids keep their own.
func DefaultChart(currency string) []model.Account {
	acct := func(code, name, parentID string, level int, t model.AccountType, c model.AccountCategory, direct bool) model.Account {
		return model.Account{
			ID:                 code,
			Code:               code,
			Name:               name,
			ParentID:           parentID,
			Level:              level,
			Type:               t,
			Category:           c,
			Currency:           currency,
			IsActive:           true,
			AllowDirectPosting: direct,
		}
	}

	chart := []model.Account{
		acct("1000", "Assets", "", 1, model.AccountTypeAsset, model.CategoryCurrentAsset, false),
		acct("1100", "Current Assets", "1000", 2, model.AccountTypeAsset, model.CategoryCurrentAsset, false),
		acct("1110", "Cash", "1100", 3, model.AccountTypeAsset, model.CategoryCurrentAsset, true),
		acct("1120", "Bank Accounts", "1100", 3, model.AccountTypeAsset, model.CategoryCurrentAsset, true),
		acct("1130", "Accounts Receivable", "1100", 3, model.AccountTypeAsset, model.CategoryCurrentAsset, true),
		acct("1200", "Fixed Assets", "1000", 2, model.AccountTypeAsset, model.CategoryFixedAsset, false),
		acct("1210", "Equipment", "1200", 3, model.AccountTypeAsset, model.CategoryFixedAsset, true),

		acct("2000", "Liabilities", "", 1, model.AccountTypeLiability, model.CategoryCurrentLiability, false),
		acct("2100", "Current Liabilities", "2000", 2, model.AccountTypeLiability, model.CategoryCurrentLiability, false),
		acct("2110", "Accounts Payable", "2100", 3, model.AccountTypeLiability, model.CategoryCurrentLiability, true),
		acct("2120", "Taxes Payable", "2100", 3, model.AccountTypeLiability, model.CategoryCurrentLiability, true),

		acct("3000", "Equity", "", 1, model.AccountTypeEquity, model.CategoryCapital, false),
		acct("3100", "Owner's Capital", "3000", 2, model.AccountTypeEquity, model.CategoryCapital, true),

		acct("4000", "Revenue", "", 1, model.AccountTypeRevenue, model.CategoryOperatingRevenue, false),
		acct("4100", "Sales Revenue", "4000", 2, model.AccountTypeRevenue, model.CategoryOperatingRevenue, true),
		acct("4200", "Other Revenue", "4000", 2, model.AccountTypeRevenue, model.CategoryOtherRevenue, true),

		acct("5000", "Expenses", "", 1, model.AccountTypeExpense, model.CategoryOperatingExpense, false),
		acct("5100", "Salaries & Wages", "5000", 2, model.AccountTypeExpense, model.CategoryOperatingExpense, true),
		acct("5200", "Rent", "5000", 2, model.AccountTypeExpense, model.CategoryOperatingExpense, true),
		acct("5300", "Office Supplies", "5000", 2, model.AccountTypeExpense, model.CategoryOperatingExpense, true),

		acct("6000", "Cost of Sales", "", 1, model.AccountTypeCost, model.CategoryCostOfSales, false),
		acct("6100", "Purchases", "6000", 2, model.AccountTypeCost, model.CategoryCostOfSales, true),
	}

	// Retained earnings is maintained by closing, not direct postings.
	retained := acct("3200", "Retained Earnings", "3000", 2, model.AccountTypeEquity, model.CategoryRetainedEarnings, false)
	retained.IsSystem = true
	return append(chart, retained)
}
