package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/campaign"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/gateway"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/store"
)

func newGatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Manage the LeadPilot gateway server",
	}

	cmd.AddCommand(newGatewayRunCmd())
	return cmd
}

func newGatewayRunCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the widget gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			// Rebuild the logger per config: file target and style.
			w, closeLog, err := logging.Writer(cfg.Logging.File, cfg.Logging.ConsoleStyle)
			if err != nil {
				return err
			}
			defer closeLog()
			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			log = logging.New(w, level)

			db, err := store.Open(paths.Database(cfg.Storage), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			transport := backend.NewHTTPTransport(
				cfg.Backend.URL,
				time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
				log,
			)

			srv := gateway.New(cfg, transport, log,
				gateway.WithSuppliers(store.NewSupplierStore(db)),
				gateway.WithState(store.NewStateStore(db)),
			)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Reply tracking rides along when a mailbox is configured.
			if cfg.Campaign.IMAP.Host != "" {
				watcher := campaign.NewWatcher(campaign.IMAPConfig{
					Host:     cfg.Campaign.IMAP.Host,
					Port:     cfg.Campaign.IMAP.Port,
					Username: cfg.Campaign.IMAP.Username,
					Password: cfg.Campaign.IMAP.Password,
					Poll:     time.Duration(cfg.Campaign.IMAP.PollSeconds) * time.Second,
				}, store.NewCampaignStore(db), log)
				go watcher.Run(ctx)
				log.Info().Str("host", cfg.Campaign.IMAP.Host).Msg("campaign reply watcher running")
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
