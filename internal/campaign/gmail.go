package campaign

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/leadpilot/leadpilot/internal/logging"
)

// GmailSender sends campaign email through the Gmail API using OAuth
// credentials and a previously saved token.
type GmailSender struct {
	svc  *gmail.Service
	from string
	log  *logging.Logger
}

// NewGmailSender builds a sender from an OAuth client credentials file
// and a cached token file. from is the From header address.
func NewGmailSender(ctx context.Context, credentialsPath, tokenPath, from string, log *logging.Logger) (*GmailSender, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no auth token found at %s - run 'leadpilot campaign auth' first: %w", tokenPath, err)
	}

	client := config.Client(ctx, token)
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &GmailSender{svc: svc, from: from, log: log.Sub("gmail")}, nil
}

// Send delivers one plain-text message as the authenticated user.
func (g *GmailSender) Send(ctx context.Context, to, subject, body string) error {
	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", g.from)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(message.String())),
	}

	if _, err := g.svc.Users.Messages.Send("me", gmailMessage).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sending via gmail: %w", err)
	}
	g.log.Debug().Str("to", to).Msg("message sent")
	return nil
}

// Authorize runs the interactive OAuth flow and caches the token for
// later sends.
func Authorize(ctx context.Context, credentialsPath, tokenPath string) error {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return fmt.Errorf("unable to parse credentials: %w", err)
	}

	tok, err := getTokenFromWeb(ctx, config)
	if err != nil {
		return err
	}
	return saveToken(tokenPath, tok)
}

func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
