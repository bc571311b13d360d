package campaign

import (
	"context"
	"time"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/store"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Runner drains the Pending campaign queue through a Sender, flipping
// each campaign to Sent or Failed as it goes.
type Runner struct {
	campaigns *store.CampaignStore
	sender    Sender
	log       *logging.Logger
}

// NewRunner creates a runner over the given store and sender.
func NewRunner(campaigns *store.CampaignStore, sender Sender, log *logging.Logger) *Runner {
	return &Runner{campaigns: campaigns, sender: sender, log: log.Sub("campaign")}
}

// SendPending sends every Pending campaign. A failed send marks that
// campaign Failed and moves on; the first storage error aborts. Returns
// how many campaigns went out.
func (r *Runner) SendPending(ctx context.Context) (int, error) {
	pending, err := r.campaigns.ListByStatus(domain.CampaignPending)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		if err := r.sender.Send(ctx, c.Recipient, c.Subject, c.Body); err != nil {
			r.log.Error().Err(err).Str("campaign", c.ID).Str("to", c.Recipient).Msg("send failed")
			if err := r.campaigns.MarkFailed(c.ID); err != nil {
				return sent, err
			}
			continue
		}

		if err := r.campaigns.MarkSent(c.ID, time.Now()); err != nil {
			return sent, err
		}
		sent++
		r.log.Info().Str("campaign", c.ID).Str("to", c.Recipient).Msg("campaign sent")
	}
	return sent, nil
}
