package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent spool configuration stored as config.toml
// in the .spool/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Runtime RuntimeConfig `toml:"runtime"`
	Client  ClientConfig  `toml:"client"`
	History HistoryConfig `toml:"history"`
	Events  EventsConfig  `toml:"events"`
	MCP     MCPConfig     `toml:"mcp"`
	Serve   ServeConfig   `toml:"serve"`
}

// RuntimeConfig identifies the agent runtime to invoke.
type RuntimeConfig struct {
	// Endpoint is the data-plane base URL (the local stub runtime by default).
	Endpoint string `toml:"endpoint,omitempty"`

	// ARN is the default agent runtime ARN. When empty, invoke falls back
	// to control-plane discovery.
	ARN string `toml:"arn,omitempty"`

	// BearerToken authorizes invocations on runtimes with inbound OAuth.
	BearerToken string `toml:"bearer_token,omitempty"`
}

// ClientConfig holds settings for the invocation HTTP client.
type ClientConfig struct {
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`
}

// HistoryConfig holds invocation history storage settings.
type HistoryConfig struct {
	// Backend selects the store: sqlite, postgres, or memory.
	Backend string `toml:"backend,omitempty"`

	// SQLitePath is the database file for the sqlite backend.
	// Empty means .spool/history.db.
	SQLitePath string `toml:"sqlite_path,omitempty"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig holds settings for publishing invocation-completed events.
type EventsConfig struct {
	Enabled bool `toml:"enabled,omitempty"`

	// Brokers is a comma-separated list of Kafka broker addresses.
	Brokers string `toml:"brokers,omitempty"`

	Topic string `toml:"topic,omitempty"`
}

// MCPConfig addresses a managed MCP server for direct tool calls.
// The tool URL is {endpoint}/api/v2/databases/{database}/schemas/{schema}/mcp-servers/{server_name}.
type MCPConfig struct {
	Endpoint   string `toml:"endpoint,omitempty"`
	Database   string `toml:"database,omitempty"`
	Schema     string `toml:"schema,omitempty"`
	ServerName string `toml:"server_name,omitempty"`
	AuthToken  string `toml:"auth_token,omitempty"`
}

// ServeConfig holds settings for the local stub runtime server.
type ServeConfig struct {
	Listen string `toml:"listen,omitempty"`

	// Script is an optional path to a JSON event script the stub replays.
	Script string `toml:"script,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"runtime.endpoint": {
		get: func(c *Config) string { return c.Runtime.Endpoint },
		set: func(c *Config, v string) error { c.Runtime.Endpoint = v; return nil },
	},
	"runtime.arn": {
		get: func(c *Config) string { return c.Runtime.ARN },
		set: func(c *Config, v string) error { c.Runtime.ARN = v; return nil },
	},
	"runtime.bearer_token": {
		get: func(c *Config) string { return c.Runtime.BearerToken },
		set: func(c *Config, v string) error { c.Runtime.BearerToken = v; return nil },
	},
	"client.timeout_seconds": {
		get: func(c *Config) string { return strconv.FormatUint(uint64(c.Client.TimeoutSeconds), 10) },
		set: func(c *Config, v string) error {
			parsed, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("client.timeout_seconds must be a positive integer: %w", err)
			}
			c.Client.TimeoutSeconds = uint(parsed)
			return nil
		},
	},
	"history.backend": {
		get: func(c *Config) string { return c.History.Backend },
		set: func(c *Config, v string) error {
			switch v {
			case "sqlite", "postgres", "memory":
				c.History.Backend = v
				return nil
			default:
				return fmt.Errorf("unknown history backend %q (available: sqlite, postgres, memory)", v)
			}
		},
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
	"history.postgres_dsn": {
		get: func(c *Config) string { return c.History.PostgresDSN },
		set: func(c *Config, v string) error { c.History.PostgresDSN = v; return nil },
	},
	"events.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Events.Enabled) },
		set: func(c *Config, v string) error {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("events.enabled must be true or false: %w", err)
			}
			c.Events.Enabled = parsed
			return nil
		},
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"mcp.endpoint": {
		get: func(c *Config) string { return c.MCP.Endpoint },
		set: func(c *Config, v string) error { c.MCP.Endpoint = v; return nil },
	},
	"mcp.database": {
		get: func(c *Config) string { return c.MCP.Database },
		set: func(c *Config, v string) error { c.MCP.Database = v; return nil },
	},
	"mcp.schema": {
		get: func(c *Config) string { return c.MCP.Schema },
		set: func(c *Config, v string) error { c.MCP.Schema = v; return nil },
	},
	"mcp.server_name": {
		get: func(c *Config) string { return c.MCP.ServerName },
		set: func(c *Config, v string) error { c.MCP.ServerName = v; return nil },
	},
	"mcp.auth_token": {
		get: func(c *Config) string { return c.MCP.AuthToken },
		set: func(c *Config, v string) error { c.MCP.AuthToken = v; return nil },
	},
	"serve.listen": {
		get: func(c *Config) string { return c.Serve.Listen },
		set: func(c *Config, v string) error { c.Serve.Listen = v; return nil },
	},
	"serve.script": {
		get: func(c *Config) string { return c.Serve.Script },
		set: func(c *Config, v string) error { c.Serve.Script = v; return nil },
	},
}
