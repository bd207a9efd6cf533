package watcher

import (
	"time"

	"github.com/arloliu/datauri"
)

// Builder provides a fluent API for constructing a Watcher.
type Builder struct {
	enc    *datauri.Encoder
	config watcherConfig
}

// New creates a new watcher Builder around enc.
func New(enc *datauri.Encoder) *Builder {
	return &Builder{
		enc: enc,
		config: watcherConfig{
			pollInterval:     defaultPollInterval,
			debounceInterval: defaultDebounceInterval,
		},
	}
}

// WithPollInterval sets how often the path is re-encoded without a change event.
// Default is 30 seconds. Values <= 0 keep the default.
func (b *Builder) WithPollInterval(interval time.Duration) *Builder {
	if interval > 0 {
		b.config.pollInterval = interval
	}
	return b
}

// WithDebounce sets the quiet period after a change before re-encoding.
// Default is 100ms. Values <= 0 keep the default.
func (b *Builder) WithDebounce(interval time.Duration) *Builder {
	if interval > 0 {
		b.config.debounceInterval = interval
	}
	return b
}

// Build creates the Watcher.
func (b *Builder) Build() (*Watcher, error) {
	if b.enc == nil {
		return nil, &WatcherError{Message: "encoder is required"}
	}

	return &Watcher{
		enc:    b.enc,
		config: b.config,
	}, nil
}
