package internal

import (
	"io"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	output io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where log lines are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}
