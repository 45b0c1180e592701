package config

const (
	// defaultRuntimeEndpoint points at the local stub runtime (spool serve)
	// so the CLI works out of the box without AWS credentials.
	defaultRuntimeEndpoint = "http://localhost:8085"

	defaultClientTimeoutSeconds = 300

	defaultHistoryBackend = "sqlite"

	defaultEventsBrokers = "localhost:9092"
	defaultEventsTopic   = "spool.invocations"

	defaultServeListen = ":8085"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Runtime: RuntimeConfig{
			Endpoint: defaultRuntimeEndpoint,
		},
		Client: ClientConfig{
			TimeoutSeconds: defaultClientTimeoutSeconds,
		},
		History: HistoryConfig{
			Backend: defaultHistoryBackend,
		},
		Events: EventsConfig{
			Enabled: false,
			Brokers: defaultEventsBrokers,
			Topic:   defaultEventsTopic,
		},
		Serve: ServeConfig{
			Listen: defaultServeListen,
		},
	}
}
