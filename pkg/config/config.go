// Package config loads the engine's tuning knobs. Every value has a
// default, so no config file or environment variable is required to run.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every knob the binary and its packages read at startup.
type Config struct {
	// LogLevel is one of debug/info/warn/error.
	LogLevel string

	// SymbolQueueDepth is the per-symbol inbox capacity in pkg/dispatcher.
	SymbolQueueDepth int

	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint, e.g. ":9090". Empty disables the metrics server.
	MetricsAddr string

	// WebsocketAddr is the listen address for the fill-feed websocket
	// server. Empty disables it.
	WebsocketAddr string

	// NATSURL, when non-empty, enables publishing fills to NATS at this
	// URL.
	NATSURL string

	// NATSSubject is the subject fills are published under.
	NATSSubject string
}

// Load reads configuration from environment variables prefixed LOB_ (and
// an optional config file if present on the search path), falling back to
// defaults for anything unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("symbol_queue_depth", 1024)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("websocket_addr", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("nats_subject", "lob.fills")

	v.SetConfigName("lobd")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/lobd")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	return Config{
		LogLevel:         v.GetString("log_level"),
		SymbolQueueDepth: v.GetInt("symbol_queue_depth"),
		MetricsAddr:      v.GetString("metrics_addr"),
		WebsocketAddr:    v.GetString("websocket_addr"),
		NATSURL:          v.GetString("nats_url"),
		NATSSubject:      v.GetString("nats_subject"),
	}, nil
}
