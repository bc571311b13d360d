package campaign

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/leadpilot/leadpilot/internal/domain"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/internal/store"
)

// IMAPConfig locates the mailbox the watcher polls for replies.
type IMAPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// Poll is the interval between mailbox checks in Run.
	Poll time.Duration

	// Lookback bounds how far back the search goes. Zero means 7 days.
	Lookback time.Duration
}

// Watcher polls an IMAP inbox and flips Sent campaigns to Replied when
// their recipient writes back.
type Watcher struct {
	cfg       IMAPConfig
	campaigns *store.CampaignStore
	log       *logging.Logger
}

// NewWatcher creates a reply watcher.
func NewWatcher(cfg IMAPConfig, campaigns *store.CampaignStore, log *logging.Logger) *Watcher {
	if cfg.Poll <= 0 {
		cfg.Poll = 5 * time.Minute
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 7 * 24 * time.Hour
	}
	return &Watcher{cfg: cfg, campaigns: campaigns, log: log.Sub("replies")}
}

// Run polls until the context is cancelled. Poll errors are logged, not
// fatal; the connection is re-established each cycle.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Poll)
	defer ticker.Stop()

	for {
		if n, err := w.CheckOnce(ctx); err != nil {
			w.log.Error().Err(err).Msg("reply check failed")
		} else if n > 0 {
			w.log.Info().Int("replied", n).Msg("campaign replies recorded")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CheckOnce runs one poll cycle and returns how many campaigns were
// flipped to Replied.
func (w *Watcher) CheckOnce(ctx context.Context) (int, error) {
	sent, err := w.campaigns.ListByStatus(domain.CampaignSent)
	if err != nil {
		return 0, err
	}
	if len(sent) == 0 {
		return 0, nil
	}

	senders, err := w.recentSenders()
	if err != nil {
		return 0, err
	}

	replied := matchReplies(sent, senders)
	for _, c := range replied {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := w.campaigns.MarkReplied(c.ID); err != nil {
			return 0, err
		}
		w.log.Debug().Str("campaign", c.ID).Str("from", c.Recipient).Msg("reply matched")
	}
	return len(replied), nil
}

// recentSenders returns the normalized From addresses of inbox mail
// within the lookback window.
func (w *Watcher) recentSenders() (map[string]bool, error) {
	addr := fmt.Sprintf("%s:%d", w.cfg.Host, w.cfg.Port)
	c, err := client.DialTLS(addr, &tls.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(w.cfg.Username, w.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("selecting inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Now().Add(-w.cfg.Lookback)
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching inbox: %w", err)
	}
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{imap.FetchEnvelope}, messages)
	}()

	senders := map[string]bool{}
	for msg := range messages {
		if msg.Envelope == nil {
			continue
		}
		for _, from := range msg.Envelope.From {
			senders[strings.ToLower(from.Address())] = true
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching envelopes: %w", err)
	}
	return senders, nil
}

// matchReplies picks the Sent campaigns whose recipient appears in the
// sender set. Address comparison is case-insensitive.
func matchReplies(sent []domain.Campaign, senders map[string]bool) []domain.Campaign {
	var replied []domain.Campaign
	for _, c := range sent {
		if senders[strings.ToLower(c.Recipient)] {
			replied = append(replied, c)
		}
	}
	return replied
}
