package translation

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const defaultOracleTimeout = 10 * time.Second

// Oracle wraps a Translator with the uniform best-effort policy: bounded
// timeout, swallow-and-log on failure, never called with blank text. It is
// advisory: a miss degrades localized completeness, never the write.
type Oracle struct {
	translator interfaces.Translator
	timeout    time.Duration
	logger     interfaces.Logger
}

// OracleOption configures the policy wrapper.
type OracleOption func(*Oracle)

// WithOracleTimeout overrides the per-call deadline.
func WithOracleTimeout(timeout time.Duration) OracleOption {
	return func(o *Oracle) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithOracleLogger injects the logger used for degraded-translation entries.
func WithOracleLogger(logger interfaces.Logger) OracleOption {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOracle wraps the supplied translator. A nil translator yields an oracle
// that always misses, which keeps auto-translate a silent no-op.
func NewOracle(translator interfaces.Translator, opts ...OracleOption) *Oracle {
	o := &Oracle{
		translator: translator,
		timeout:    defaultOracleTimeout,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type oracleResult struct {
	text string
	err  error
}

// Translate returns the translated text and true on success. Blank input,
// a missing translator, errors, timeouts, and blank output all report false.
// The call runs in its own goroutine so a hung client cannot stall the
// write past the deadline; an abandoned call is leaked deliberately rather
// than waited on.
func (o *Oracle) Translate(ctx context.Context, text, from, to string) (string, bool) {
	if o == nil || o.translator == nil {
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	results := make(chan oracleResult, 1)
	go func() {
		translated, err := o.translator.Translate(ctx, text, from, to)
		results <- oracleResult{text: translated, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			o.logger.Warn("translation degraded", "source_locale", from, "target_locale", to, "error", res.err)
			return "", false
		}
		if strings.TrimSpace(res.text) == "" {
			return "", false
		}
		return res.text, true
	case <-ctx.Done():
		o.logger.Warn("translation degraded", "source_locale", from, "target_locale", to, "error", ctx.Err())
		return "", false
	}
}
