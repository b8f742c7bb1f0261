package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookline-dev/bookline/internal/accounts"
	"github.com/bookline-dev/bookline/internal/model"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the chart of accounts",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsTreeCommand())
	cmd.AddCommand(newAccountsStatsCommand())
	cmd.AddCommand(newAccountsPostableCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var (
		search     string
		accType    string
		category   string
		status     string
		hasBalance bool
		level      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && status != string(accounts.StatusActive) && status != string(accounts.StatusInactive) {
				return fmt.Errorf("invalid status %q: want active or inactive", status)
			}
			if level < 0 {
				return fmt.Errorf("invalid level %d: must be positive", level)
			}

			svc, err := accounts.Load(bookRoot(cmd))
			if err != nil {
				return err
			}

			filter := accounts.Filter{
				Search:     search,
				Type:       model.AccountType(accType),
				Category:   model.AccountCategory(category),
				Status:     accounts.Status(status),
				HasBalance: hasBalance,
				Level:      level,
			}
			for _, a := range accounts.Apply(svc.All(), filter) {
				printAccount(a, 0)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring match on name or code")
	cmd.Flags().StringVar(&accType, "type", "", "account type (asset, liability, equity, revenue, expense, cost)")
	cmd.Flags().StringVar(&category, "category", "", "account category")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	cmd.Flags().BoolVar(&hasBalance, "has-balance", false, "only accounts with a non-zero balance")
	cmd.Flags().IntVar(&level, "level", 0, "exact hierarchy level (ancestors are kept)")

	return cmd
}

func newAccountsTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the account hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := accounts.Load(bookRoot(cmd))
			if err != nil {
				return err
			}

			roots, err := accounts.BuildTree(svc.All())
			if err != nil {
				return err
			}
			for _, root := range roots {
				printNode(root, 0)
			}
			return nil
		},
	}
}

func newAccountsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := accounts.Load(bookRoot(cmd))
			if err != nil {
				return err
			}

			stats := accounts.ComputeStats(svc.All())
			fmt.Printf("Accounts: %d (%d active, %d inactive)\n", stats.Total, stats.Active, stats.Inactive)
			for _, typ := range []model.AccountType{
				model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
				model.AccountTypeRevenue, model.AccountTypeExpense, model.AccountTypeCost,
			} {
				if n := stats.ByType[typ]; n > 0 {
					fmt.Printf("  %-10s %d\n", typ, n)
				}
			}
			fmt.Printf("Total balance: %s (debits %s, credits %s)\n",
				stats.TotalBalance.StringFixed(2), stats.TotalDebit.StringFixed(2), stats.TotalCredit.StringFixed(2))
			return nil
		},
	}
}

func newAccountsPostableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postable [query]",
		Short: "Search accounts open for direct posting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := bookRoot(cmd)
			svc, err := accounts.Load(root)
			if err != nil {
				return err
			}

			limit := accounts.DefaultSearchLimit
			if cfg, err := loadConfig(root); err == nil && cfg.Postable.SearchLimit > 0 {
				limit = cfg.Postable.SearchLimit
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			index := accounts.NewPostableIndex(svc.All())
			for _, a := range index.Search(query, limit) {
				printAccount(a, 0)
			}
			return nil
		},
	}
	return cmd
}

func printAccount(a model.Account, indent int) {
	fmt.Printf("%s%-8s %-32s %-10s %12s\n",
		strings.Repeat("  ", indent), a.Code, a.Name, a.Type, a.Balance.StringFixed(2))
}

func printNode(n *accounts.Node, indent int) {
	printAccount(n.Account, indent)
	for _, c := range n.Children {
		printNode(c, indent+1)
	}
}
