// Package config loads and validates LeadPilot configuration.
package config

// Config is the root configuration for LeadPilot.
type Config struct {
	Backend  BackendConfig  `yaml:"backend,omitempty"`
	Gateway  GatewayConfig  `yaml:"gateway,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Campaign CampaignConfig `yaml:"campaign,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// BackendConfig locates the lead-generation backend API.
type BackendConfig struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// GatewayConfig controls the widget-facing HTTP/WebSocket server.
type GatewayConfig struct {
	Port           int         `yaml:"port,omitempty"`
	Bind           string      `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string      `yaml:"customBindHost,omitempty"`
	Auth           GatewayAuth `yaml:"auth,omitempty"`

	// AllowedOrigins lists browser origins allowed to open the widget
	// socket. Empty denies cross-origin connections.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Mode  string `yaml:"mode,omitempty"` // "token" | "none"
	Token string `yaml:"token,omitempty"`
}

// SessionConfig tunes per-connection chat sessions.
type SessionConfig struct {
	// RevealIntervalMs is the delay between revealed characters.
	RevealIntervalMs int `yaml:"revealIntervalMs,omitempty"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	// Path to the database file. Empty means <base>/data/leadpilot.db.
	Path string `yaml:"path,omitempty"`
}

// CampaignConfig configures outreach email sending and reply tracking.
type CampaignConfig struct {
	// From is the From header address for outgoing mail.
	From string `yaml:"from,omitempty"`

	// SenderName signs generated email bodies.
	SenderName string `yaml:"senderName,omitempty"`

	// CredentialsPath and TokenPath locate the Gmail OAuth files.
	// Empty means the standard files under the credentials directory.
	CredentialsPath string `yaml:"credentialsPath,omitempty"`
	TokenPath       string `yaml:"tokenPath,omitempty"`

	IMAP IMAPConfig `yaml:"imap,omitempty"`
}

// IMAPConfig locates the inbox polled for campaign replies.
type IMAPConfig struct {
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	PollSeconds int    `yaml:"pollSeconds,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
