package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeCost      AccountType = "cost"
)

// AccountCategory is a sub-classification within an AccountType.
type AccountCategory string

const (
	CategoryCurrentAsset      AccountCategory = "current_asset"
	CategoryFixedAsset        AccountCategory = "fixed_asset"
	CategoryOtherAsset        AccountCategory = "other_asset"
	CategoryCurrentLiability  AccountCategory = "current_liability"
	CategoryLongTermLiability AccountCategory = "long_term_liability"
	CategoryCapital           AccountCategory = "capital"
	CategoryRetainedEarnings  AccountCategory = "retained_earnings"
	CategoryOperatingRevenue  AccountCategory = "operating_revenue"
	CategoryOtherRevenue      AccountCategory = "other_revenue"
	CategoryOperatingExpense  AccountCategory = "operating_expense"
	CategoryOtherExpense      AccountCategory = "other_expense"
	CategoryCostOfSales       AccountCategory = "cost_of_sales"
)

var categoriesByType = map[AccountType][]AccountCategory{
	AccountTypeAsset:     {CategoryCurrentAsset, CategoryFixedAsset, CategoryOtherAsset},
	AccountTypeLiability: {CategoryCurrentLiability, CategoryLongTermLiability},
	AccountTypeEquity:    {CategoryCapital, CategoryRetainedEarnings},
	AccountTypeRevenue:   {CategoryOperatingRevenue, CategoryOtherRevenue},
	AccountTypeExpense:   {CategoryOperatingExpense, CategoryOtherExpense},
	AccountTypeCost:      {CategoryCostOfSales},
}

// CategoriesFor returns the valid categories for an account type.
func CategoriesFor(t AccountType) []AccountCategory {
	return categoriesByType[t]
}

// ValidCategory reports whether c is a valid category for accounts of type t.
func ValidCategory(t AccountType, c AccountCategory) bool {
	for _, valid := range categoriesByType[t] {
		if valid == c {
			return true
		}
	}
	return false
}

// Account is a node in the chart of accounts. Codes are hierarchically
// prefixed strings ("1000", "1100", "1110") so plain lexicographic order
// already matches the tree order.
type Account struct {
	ID                 string
	Code               string
	Name               string
	NameEn             string
	ParentID           string // "" = root
	Level              int    // root = 1
	Type               AccountType
	Category           AccountCategory
	Currency           string
	IsActive           bool
	IsSystem           bool
	AllowDirectPosting bool
	HasChildren        bool
	Balance            decimal.Decimal // signed net
	DebitBalance       decimal.Decimal
	CreditBalance      decimal.Decimal
	Tags               []string
}

// Postable reports whether the account may appear on a journal line.
func (a Account) Postable() bool {
	return a.IsActive && a.AllowDirectPosting
}
