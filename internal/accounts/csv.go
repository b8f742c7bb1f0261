package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bookline-dev/bookline/internal/model"
)

const (
	numFields  = 16
	colID      = 0
	colCode    = 1
	colName    = 2
	colNameEn  = 3
	colParent  = 4
	colLevel   = 5
	colType    = 6
	colCat     = 7
	colCcy     = 8
	colActive  = 9
	colSystem  = 10
	colDirect  = 11
	colBalance = 12
	colDebit   = 13
	colCredit  = 14
	colTags    = 15
)

var accountsHeader = []string{
	"id", "code", "name", "name_en", "parent_id", "level", "type", "category",
	"currency", "active", "system", "direct_posting", "balance",
	"debit_balance", "credit_balance", "tags",
}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(accountsHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colNameEn] = acct.NameEn
	row[colParent] = acct.ParentID
	row[colLevel] = strconv.Itoa(acct.Level)
	row[colType] = string(acct.Type)
	row[colCat] = string(acct.Category)
	row[colCcy] = acct.Currency
	row[colActive] = strconv.FormatBool(acct.IsActive)
	row[colSystem] = strconv.FormatBool(acct.IsSystem)
	row[colDirect] = strconv.FormatBool(acct.AllowDirectPosting)
	row[colBalance] = acct.Balance.StringFixed(2)
	row[colDebit] = acct.DebitBalance.StringFixed(2)
	row[colCredit] = acct.CreditBalance.StringFixed(2)
	row[colTags] = strings.Join(acct.Tags, ";")
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
	}
	if level < 1 {
		return model.Account{}, fmt.Errorf("level must be positive, got %d", level)
	}

	active, err := strconv.ParseBool(record[colActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
	}
	system, err := strconv.ParseBool(record[colSystem])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing system %q: %w", record[colSystem], err)
	}
	direct, err := strconv.ParseBool(record[colDirect])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing direct_posting %q: %w", record[colDirect], err)
	}

	balance, err := parseAmount(record[colBalance], "balance")
	if err != nil {
		return model.Account{}, err
	}
	debit, err := parseAmount(record[colDebit], "debit_balance")
	if err != nil {
		return model.Account{}, err
	}
	credit, err := parseAmount(record[colCredit], "credit_balance")
	if err != nil {
		return model.Account{}, err
	}

	var tags []string
	if record[colTags] != "" {
		tags = strings.Split(record[colTags], ";")
	}

	return model.Account{
		ID:                 record[colID],
		Code:               record[colCode],
		Name:               record[colName],
		NameEn:             record[colNameEn],
		ParentID:           record[colParent],
		Level:              level,
		Type:               model.AccountType(record[colType]),
		Category:           model.AccountCategory(record[colCat]),
		Currency:           record[colCcy],
		IsActive:           active,
		IsSystem:           system,
		AllowDirectPosting: direct,
		Balance:            balance,
		DebitBalance:       debit,
		CreditBalance:      credit,
		Tags:               tags,
	}, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
