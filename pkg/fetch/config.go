package fetch

import (
	"fmt"
	"time"

	"github.com/ordkit/contentgrid/errors"
)

// Config contains configuration for the batch fetcher.
type Config struct {
	// BatchSize is the number of requests processed per sequential batch.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxConcurrency bounds in-flight requests within a batch.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`

	// RetryAttempts is the total number of attempts per request.
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts"`

	// RetryDelay is the base backoff; attempt n waits RetryDelay * n.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// Timeout is the per-attempt deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// InterBatchDelay is the pause between sequential batches. It throttles
	// rate-limited upstream content endpoints.
	InterBatchDelay time.Duration `json:"inter_batch_delay" yaml:"inter_batch_delay"`

	// PriorityQueue enables stable descending-priority ordering before
	// requests are split into batches.
	PriorityQueue bool `json:"priority_queue" yaml:"priority_queue"`
}

// DefaultConfig returns a default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:       5,
		MaxConcurrency:  1,
		RetryAttempts:   2,
		RetryDelay:      2 * time.Second,
		Timeout:         15 * time.Second,
		InterBatchDelay: 1 * time.Second,
		PriorityQueue:   false,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("batch_size must be positive, got %d", c.BatchSize))
	}
	if c.MaxConcurrency <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("max_concurrency must be positive, got %d", c.MaxConcurrency))
	}
	if c.RetryAttempts <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("retry_attempts must be positive, got %d", c.RetryAttempts))
	}
	if c.RetryDelay < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("retry_delay cannot be negative, got %v", c.RetryDelay))
	}
	if c.Timeout <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("timeout must be positive, got %v", c.Timeout))
	}
	if c.InterBatchDelay < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "fetch", "Validate",
			fmt.Sprintf("inter_batch_delay cannot be negative, got %v", c.InterBatchDelay))
	}
	return nil
}
