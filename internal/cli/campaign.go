package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/campaign"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/store"
)

func newCampaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Draft and send outreach campaigns",
	}

	cmd.AddCommand(newCampaignDraftCmd())
	cmd.AddCommand(newCampaignSendCmd())
	cmd.AddCommand(newCampaignListCmd())
	cmd.AddCommand(newCampaignAuthCmd())
	cmd.AddCommand(newCampaignCheckCmd())
	return cmd
}

func newCampaignDraftCmd() *cobra.Command {
	var (
		supplierID string
		source     string
		preview    bool
	)

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft one outreach email per imported lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if supplierID == "" {
				return fmt.Errorf("--supplier is required")
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			sup, err := store.NewSupplierStore(db).Get(supplierID)
			if err != nil {
				return err
			}

			leadStore := store.NewLeadStore(db)
			list, err := leadStore.List()
			if source != "" {
				list, err = leadStore.ListBySource(source)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No imported leads to draft for.")
				return nil
			}

			gen := campaign.Generator{SenderName: cfg.Campaign.SenderName}
			campaigns := store.NewCampaignStore(db)
			for i := range list {
				draft := gen.Draft(sup, &list[i])
				if preview {
					fmt.Fprintf(cmd.OutOrStdout(), "To: %s\nSubject: %s\n\n%s\n---\n",
						draft.Recipient, draft.Subject, draft.Body)
					continue
				}
				if err := campaigns.Create(draft); err != nil {
					return err
				}
			}
			if !preview {
				fmt.Fprintf(cmd.OutOrStdout(), "Drafted %d campaigns for %s\n", len(list), sup.CompanyName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&supplierID, "supplier", "", "supplier ID to pitch (required)")
	cmd.Flags().StringVar(&source, "source", "", "only draft for leads from this import source")
	cmd.Flags().BoolVar(&preview, "preview", false, "print drafts without saving them")

	return cmd
}

func newCampaignSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Send all pending campaigns via Gmail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if cfg.Campaign.From == "" {
				return fmt.Errorf("campaign.from is not configured")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			sender, err := campaign.NewGmailSender(cmd.Context(),
				paths.GmailCredentials(cfg.Campaign),
				paths.GmailToken(cfg.Campaign),
				cfg.Campaign.From,
				log,
			)
			if err != nil {
				return err
			}

			runner := campaign.NewRunner(store.NewCampaignStore(db), sender, log)
			sent, err := runner.SendPending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d campaigns\n", sent)
			return nil
		},
	}
}

func newCampaignListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			campaigns := store.NewCampaignStore(db)
			list, err := campaigns.List()
			if status != "" {
				list, err = campaigns.ListByStatus(status)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No campaigns.")
				return nil
			}
			for _, c := range list {
				sentAt := ""
				if c.SentAt != nil {
					sentAt = c.SentAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %s  %s %s\n", c.ID, c.Status, c.Recipient, c.Subject, sentAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, sent, failed, replied)")

	return cmd
}

func newCampaignAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Gmail sending via OAuth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}
			if err := campaign.Authorize(cmd.Context(),
				paths.GmailCredentials(cfg.Campaign),
				paths.GmailToken(cfg.Campaign),
			); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Gmail authorization complete.")
			return nil
		},
	}
}

func newCampaignCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the inbox once for replies to sent campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if cfg.Campaign.IMAP.Host == "" {
				return fmt.Errorf("campaign.imap.host is not configured")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			watcher := campaign.NewWatcher(campaign.IMAPConfig{
				Host:     cfg.Campaign.IMAP.Host,
				Port:     cfg.Campaign.IMAP.Port,
				Username: cfg.Campaign.IMAP.Username,
				Password: cfg.Campaign.IMAP.Password,
			}, store.NewCampaignStore(db), log)

			replied, err := watcher.CheckOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d campaigns as replied\n", replied)
			return nil
		},
	}
}
