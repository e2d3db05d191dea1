package config

import "time"

const (
	// Outbound HTTP
	FetchTimeout = 30 * time.Second

	// LLM request timeout
	RequestTimeout = 90 * time.Second

	// HTTP server timeouts
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 2 * time.Minute
	IdleTimeout  = 60 * time.Second

	// Graceful shutdown drain window
	ShutdownTimeout = 10 * time.Second

	// Connection pool sizing
	PoolMaxConns = 20
	PoolMinConns = 5

	// Rate limiter window
	RateLimitWindow = time.Minute

	// Extracted content passed to the model is capped to keep prompts
	// inside the context window.
	MaxContentChars = 48000
)
