package accounts

import (
	"errors"
	"fmt"

	"github.com/bookline-dev/bookline/internal/model"
)

// ErrHierarchyCycle reports a parent chain that loops back on itself.
var ErrHierarchyCycle = errors.New("account hierarchy contains a cycle")

// Node is an account with its resolved children. Nodes are clones of the
// input records: building a tree never mutates the flat collection, so the
// build is safe to repeat on every read.
type Node struct {
	model.Account
	Children []*Node
}

// BuildTree converts the flat collection into a forest of root nodes whose
// Children mirror the ParentID relationships. An account whose ParentID does
// not resolve to any known account is treated as a root. A ParentID chain
// that cycles is a structural error and fails the whole build.
func BuildTree(accts []model.Account) ([]*Node, error) {
	if err := checkCycles(accts); err != nil {
		return nil, err
	}

	arena := make(map[string]*Node, len(accts))
	for _, a := range accts {
		arena[a.ID] = &Node{Account: a}
	}

	var roots []*Node
	for _, a := range accts {
		n := arena[a.ID]
		parent, ok := arena[a.ParentID]
		if a.ParentID == "" || !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots, nil
}

// checkCycles walks every account's parent chain with a visited set.
// Chains already proven to terminate are memoized so the pass stays O(n).
func checkCycles(accts []model.Account) error {
	parentOf := make(map[string]string, len(accts))
	for _, a := range accts {
		parentOf[a.ID] = a.ParentID
	}

	safe := make(map[string]bool, len(accts))
	for _, a := range accts {
		seen := make(map[string]bool)
		id := a.ID
		for id != "" && !safe[id] {
			if seen[id] {
				return fmt.Errorf("%w: account %s", ErrHierarchyCycle, id)
			}
			seen[id] = true
			parent, known := parentOf[id]
			if !known {
				break // unresolved parent, chain ends at a lenient root
			}
			id = parent
		}
		for visited := range seen {
			safe[visited] = true
		}
	}
	return nil
}

// Flatten returns the forest's accounts in pre-order.
func Flatten(roots []*Node) []model.Account {
	var out []model.Account
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n.Account)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}
