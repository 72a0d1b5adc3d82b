package engine

import "time"

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// DefaultTableName is the relation the dataset is registered as.
const DefaultTableName = "df"

// Option configures executor behavior via functional options pattern.
type Option func(*config)

type config struct {
	TableName string
	Timeout   time.Duration // 0 = only the caller's context applies
	Sandbox   bool          // lock the connection after registration
}

// WithTableName sets the relation name queries refer to.
func WithTableName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.TableName = name
		}
	}
}

// WithTimeout bounds each Execute call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.Timeout = d
	}
}

// WithSandbox toggles the post-registration lockdown (on by default).
// With it on, queries cannot read files, install extensions or change settings.
func WithSandbox(enabled bool) Option {
	return func(c *config) {
		c.Sandbox = enabled
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TableName: DefaultTableName,
		Sandbox:   true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
