package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/leads"
	"github.com/leadpilot/leadpilot/internal/store"
)

func newLeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Manage imported lead lists",
	}

	cmd.AddCommand(newLeadsImportCmd())
	cmd.AddCommand(newLeadsListCmd())
	return cmd
}

func newLeadsImportCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import leads from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if source == "" {
				source = filepath.Base(args[0])
			}

			res, err := leads.NewImporter(log).Import(f, source)
			if err != nil {
				return err
			}
			for _, skip := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", skip)
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			inserted, err := store.NewLeadStore(db).InsertBatch(res.Leads)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d leads (%d parsed, %d skipped, %d duplicates)\n",
				inserted, len(res.Leads), len(res.Skipped), len(res.Leads)-inserted)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source label (default: file name)")

	return cmd
}

func newLeadsListCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			leadStore := store.NewLeadStore(db)
			list, err := leadStore.List()
			if source != "" {
				list, err = leadStore.ListBySource(source)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No imported leads.")
				return nil
			}
			for _, l := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s <%s> [%s]\n", l.ID, l.CompanyName, l.Email, l.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "filter by import source")

	return cmd
}
