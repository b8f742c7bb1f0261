package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bookline-dev/bookline/internal/buildinfo"
	"github.com/bookline-dev/bookline/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	// A .env file is optional; it can point BOOKLINE_ROOT at a book directory.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "bookline",
		Short:   "Chart-of-accounts register and double-entry journal editor",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("book", defaultBookRoot(), "path to the book directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newEntryCommand())

	return rootCmd
}

func defaultBookRoot() string {
	if root := os.Getenv("BOOKLINE_ROOT"); root != "" {
		return root
	}
	return "."
}

func bookRoot(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("book")
	return root
}

func loadConfig(root string) (*config.Config, error) {
	return config.Load(filepath.Join(root, "bookline.yaml"))
}
