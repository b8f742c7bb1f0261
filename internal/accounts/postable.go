package accounts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bookline-dev/bookline/internal/model"
)

// DefaultSearchLimit caps interactive postable lookups.
const DefaultSearchLimit = 20

// PostableIndex is the subset of accounts eligible to receive journal
// postings (active and direct posting allowed), sorted ascending by code.
// Codes are hierarchical prefix strings, so lexicographic order follows the
// tree and decides which account a user sees first when codes collide in a
// search.
type PostableIndex struct {
	accounts []model.Account
	byID     map[string]model.Account
	searches *gocache.Cache
}

// NewPostableIndex derives the postable set from the full flat collection.
func NewPostableIndex(accts []model.Account) *PostableIndex {
	var postable []model.Account
	for _, a := range accts {
		if a.Postable() {
			postable = append(postable, a)
		}
	}
	sort.Slice(postable, func(i, j int) bool {
		return postable[i].Code < postable[j].Code
	})

	byID := make(map[string]model.Account, len(postable))
	for _, a := range postable {
		byID[a.ID] = a
	}
	return &PostableIndex{
		accounts: postable,
		byID:     byID,
		searches: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// All returns the postable accounts in code order.
func (ix *PostableIndex) All() []model.Account {
	return ix.accounts
}

// Len returns the number of postable accounts.
func (ix *PostableIndex) Len() int {
	return len(ix.accounts)
}

// Get returns a postable account by ID. Accounts outside the postable set
// are not found, which is what makes the index usable as the resolver for
// journal line assignment.
func (ix *PostableIndex) Get(id string) (model.Account, bool) {
	a, ok := ix.byID[id]
	return a, ok
}

// Search returns up to limit postable accounts whose code or name contains
// query, case-insensitive, in code order. A limit <= 0 falls back to
// DefaultSearchLimit. Results are memoized briefly since the same query is
// re-issued on every keystroke of an interactive picker.
func (ix *PostableIndex) Search(query string, limit int) []model.Account {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)
	key := fmt.Sprintf("%s|%d", q, limit)
	if hit, ok := ix.searches.Get(key); ok {
		return hit.([]model.Account)
	}

	var out []model.Account
	for _, a := range ix.accounts {
		if q != "" && !strings.Contains(strings.ToLower(a.Code), q) && !strings.Contains(strings.ToLower(a.Name), q) {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	ix.searches.SetDefault(key, out)
	return out
}
