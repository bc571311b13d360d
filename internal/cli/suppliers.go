package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/store"
)

func newSuppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Manage suppliers",
	}

	cmd.AddCommand(newSuppliersListCmd())
	cmd.AddCommand(newSuppliersAddCmd())
	cmd.AddCommand(newSuppliersRemoveCmd())
	return cmd
}

func newSuppliersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			sups, err := store.NewSupplierStore(db).List()
			if err != nil {
				return err
			}
			if len(sups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suppliers yet. Add one with 'leadpilot suppliers add'.")
				return nil
			}
			for _, s := range sups {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", s.ID, s.CompanyName, s.ProductName)
			}
			return nil
		},
	}
}

func newSuppliersAddCmd() *cobra.Command {
	var sup domain.Supplier

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sup.CompanyName == "" || sup.ProductName == "" {
				return fmt.Errorf("--company and --product are required")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.NewSupplierStore(db).Create(&sup); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added supplier %s (%s)\n", sup.CompanyName, sup.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sup.CompanyName, "company", "", "company name (required)")
	cmd.Flags().StringVar(&sup.ProductName, "product", "", "product name (required)")
	cmd.Flags().StringVar(&sup.CompanyWebsite, "website", "", "company website")
	cmd.Flags().StringVar(&sup.ContactName, "contact", "", "contact name")
	cmd.Flags().StringVar(&sup.ContactEmail, "email", "", "contact email")
	cmd.Flags().StringVar(&sup.ContactPhone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&sup.ProductDescription, "description", "", "product description")
	cmd.Flags().StringVar(&sup.KeyFeatures, "features", "", "key features")
	cmd.Flags().StringVar(&sup.PrimaryUseCases, "use-cases", "", "primary use cases")
	cmd.Flags().StringVar(&sup.PricingModel, "pricing", "", "pricing model")
	cmd.Flags().StringVar(&sup.UniqueSellingPoints, "usp", "", "unique selling points")
	cmd.Flags().StringVar(&sup.IdealCustomer, "icp", "", "ideal customer profile")

	return cmd
}

func newSuppliersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a supplier and its campaigns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.NewSupplierStore(db).Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed supplier %s\n", args[0])
			return nil
		},
	}
}

// openDatabase opens the configured SQLite database.
func openDatabase() (*store.DB, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	return store.Open(paths.Database(cfg.Storage), log)
}

// lookupSupplier fetches one supplier by ID from the configured database.
func lookupSupplier(cfg config.Config, id string) (*domain.Supplier, error) {
	db, err := store.Open(paths.Database(cfg.Storage), log)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return store.NewSupplierStore(db).Get(id)
}
