package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Backend: BackendConfig{
			URL:            "http://127.0.0.1:8000",
			TimeoutSeconds: 60,
		},
		Gateway: GatewayConfig{
			Port: 18650,
			Bind: "loopback",
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		Session: SessionConfig{
			RevealIntervalMs: 30,
		},
		Campaign: CampaignConfig{
			IMAP: IMAPConfig{
				Port:        993,
				PollSeconds: 300,
			},
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
