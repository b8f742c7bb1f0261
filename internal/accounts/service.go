package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookline-dev/bookline/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts. HasChildren is
// derived from the ParentID references rather than trusted from the input.
func NewService(accounts []model.Account) *Service {
	hasChild := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.ParentID != "" {
			hasChild[a.ParentID] = true
		}
	}

	accts := make([]model.Account, len(accounts))
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for i, a := range accounts {
		a.HasChildren = hasChild[a.ID]
		accts[i] = a
		byID[a.ID] = a
		byCode[a.Code] = a
	}
	return &Service{accounts: accts, byID: byID, byCode: byCode}
}

// Load reads chart-of-accounts.csv from a book root and returns a Service.
func Load(bookRoot string) (*Service, error) {
	path := filepath.Join(bookRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in store order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by its human-facing code.
func (s *Service) GetByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(bookRoot string) error {
	dir := filepath.Join(bookRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
