package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bookline-dev/bookline/internal/accounts"
	"github.com/bookline-dev/bookline/internal/journal"
	"github.com/bookline-dev/bookline/internal/model"
)

func newEntryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Create journal entries",
	}
	cmd.AddCommand(newEntryAddCommand())
	return cmd
}

func newEntryAddCommand() *cobra.Command {
	var (
		dateStr     string
		description string
		reference   string
		debits      []string
		credits     []string
		draft       bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry from debit/credit line specs",
		Example: `  bookline entry add --description "Office rent" \
    --debit 5200=1200.00 --credit 1120=1200.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := bookRoot(cmd)

			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			svc, err := accounts.Load(root)
			if err != nil {
				return err
			}

			entryDate := time.Now()
			if dateStr != "" {
				if entryDate, err = time.Parse("2006-01-02", dateStr); err != nil {
					return fmt.Errorf("parsing date %q: %w", dateStr, err)
				}
			}

			index := accounts.NewPostableIndex(svc.All())
			store := journal.NewFileStore(root, journal.GitOptions{
				AutoCommit:  cfg.Git.AutoCommit,
				AuthorName:  cfg.Git.AuthorName,
				AuthorEmail: cfg.Git.AuthorEmail,
			})

			ed := journal.NewEditor(index, store)
			if err := ed.SetDate(entryDate); err != nil {
				return err
			}
			if err := ed.SetDescription(description); err != nil {
				return err
			}
			if err := ed.SetReference(reference); err != nil {
				return err
			}

			specs, err := parseLineSpecs(debits, credits)
			if err != nil {
				return err
			}

			lines := ed.Lines()
			for i, spec := range specs {
				lineID := ""
				if i < len(lines) {
					lineID = lines[i].ID
				} else {
					if lineID, err = ed.AddLine(); err != nil {
						return err
					}
				}

				acct, ok := svc.GetByCode(spec.code)
				if !ok {
					return fmt.Errorf("no account with code %q", spec.code)
				}
				if err := ed.SetLineAccount(lineID, acct.ID); err != nil {
					return err
				}
				if err := ed.SetLineAmount(lineID, spec.side, spec.amount); err != nil {
					return err
				}
			}

			if draft {
				draftID, err := ed.SaveDraft(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Saved draft %s\n", draftID)
				return nil
			}

			entryID, err := ed.Post(cmd.Context())
			if err != nil {
				return err
			}
			totals := ed.Totals()
			fmt.Printf("Posted %s (%s %s)\n", entryID, totals.Debit.StringFixed(2), cfg.Book.Currency)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "entry description (required to post)")
	cmd.Flags().StringVar(&reference, "reference", "", "free-form reference")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line as CODE=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line as CODE=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&draft, "draft", false, "save as draft instead of posting")

	return cmd
}

type lineSpec struct {
	side   model.Side
	code   string
	amount decimal.Decimal
}

func parseLineSpecs(debits, credits []string) ([]lineSpec, error) {
	var specs []lineSpec
	for _, raw := range debits {
		spec, err := parseLineSpec(model.SideDebit, raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, raw := range credits {
		spec, err := parseLineSpec(model.SideCredit, raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseLineSpec(side model.Side, raw string) (lineSpec, error) {
	code, amountStr, found := strings.Cut(raw, "=")
	if !found || code == "" {
		return lineSpec{}, fmt.Errorf("invalid %s spec %q: want CODE=AMOUNT", side, raw)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return lineSpec{}, fmt.Errorf("invalid amount in %s spec %q: %w", side, raw, err)
	}
	return lineSpec{side: side, code: code, amount: amount}, nil
}
