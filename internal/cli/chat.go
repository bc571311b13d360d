package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/chat"
	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/domain"
)

func newChatCmd() *cobra.Command {
	var supplierID string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Run one assistant turn from the terminal",
		Long:  "Sends one message to the lead-generation backend and prints the reply with the same timed reveal the widget shows. With --supplier, runs a lead-generation turn instead.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if message == "" && supplierID == "" {
				return fmt.Errorf("provide a message or --supplier")
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			transport := backend.NewHTTPTransport(
				cfg.Backend.URL,
				time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
				log,
			)

			lis := &terminalListener{out: cmd.OutOrStdout()}
			ctrl := chat.NewController(transport, chat.Config{
				RevealInterval: time.Duration(cfg.Session.RevealIntervalMs) * time.Millisecond,
			}, lis, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if supplierID != "" {
				sup, err := lookupSupplier(cfg, supplierID)
				if err != nil {
					return err
				}
				ctrl.SubmitLeadGeneration(ctx, *sup)
			} else if !ctrl.SubmitUserTurn(ctx, message) {
				return fmt.Errorf("turn was not accepted")
			}

			// Let the reveal drain before exiting.
			for ctrl.RevealState() == chat.RevealRevealing {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(10 * time.Millisecond):
				}
			}
			fmt.Fprintln(cmd.OutOrStdout())

			snap := ctrl.Snapshot()
			if len(snap.History) > 0 {
				last := snap.History[len(snap.History)-1]
				for _, src := range last.Sources {
					fmt.Fprintf(cmd.OutOrStdout(), "  source: %s\n", src)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&supplierID, "supplier", "", "generate leads for this supplier ID instead of chatting")

	return cmd
}

// terminalListener renders session mutations to the terminal. Reveal
// ticks print only the newly disclosed suffix so the text types itself.
type terminalListener struct {
	out     io.Writer
	lastLen int
}

func (l *terminalListener) MessageAppended(index int, msg domain.ChatMessage) {
	if msg.Role == domain.RoleBot && msg.Text != "" {
		fmt.Fprintln(l.out, msg.Text)
	}
	l.lastLen = 0
}

func (l *terminalListener) MessageRevealed(index int, text string) {
	if len(text) > l.lastLen {
		fmt.Fprint(l.out, text[l.lastLen:])
		l.lastLen = len(text)
	}
}

func (l *terminalListener) LeadsReplaced(leads []domain.Lead) {
	fmt.Fprintf(l.out, "Generated %d leads:\n", len(leads))
	for _, lead := range leads {
		fmt.Fprintf(l.out, "  %s <%s> %s\n", lead.CompanyName, lead.Email, lead.Phone)
	}
}

func (l *terminalListener) SessionReset() {}
