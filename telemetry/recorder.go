package telemetry

import (
	"github.com/rs/zerolog"
)

// Recorder wraps an optional zerolog.Logger for streaming-buffer slide
// events and CLI diagnostics, in the style of gear6io-ranger's
// DiagnosticLogger (.With() context, structured Info/Debug events). A
// Recorder built around the zero-value zerolog.Logger (zerolog.Nop()) is a
// legal, cost-free no-op — matching lexkit's "nil/disabled telemetry must
// not allocate" rule.
type Recorder struct {
	logger zerolog.Logger
}

// NewRecorder wraps logger for lexkit diagnostics, tagging every event
// with component="lexkit".
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger.With().Str("component", "lexkit").Logger()}
}

// NoopRecorder returns a Recorder whose logger discards every event.
func NoopRecorder() *Recorder {
	return &Recorder{logger: zerolog.Nop()}
}

// SlideEvent logs one StreamingBuffer window slide: keep not-yet-consumed
// bytes carried to the front of the window, slide_amount bytes discarded
// from the front, and the new
// absolute window_start.
func (r *Recorder) SlideEvent(keep, slideAmount, windowStart int) {
	r.logger.Debug().
		Int("keep", keep).
		Int("slide_amount", slideAmount).
		Int("window_start", windowStart).
		Msg("streaming buffer window slide")
}

// DecodeError logs a codec decode failure with the byte offset it occurred
// at, for callers that want a breadcrumb trail without aborting the lex.
func (r *Recorder) DecodeError(offset int, err error) {
	r.logger.Warn().
		Int("offset", offset).
		Err(err).
		Msg("utf-8 decode error")
}

// TokenizeSummary logs end-of-run counters for a CLI or batch tokenization
// pass.
func (r *Recorder) TokenizeSummary(tokenCount int, bytesConsumed int) {
	r.logger.Info().
		Int("token_count", tokenCount).
		Int("bytes_consumed", bytesConsumed).
		Msg("tokenization complete")
}
