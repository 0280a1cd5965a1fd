package buffer

import (
	"errors"
	"fmt"
	"io"

	"github.com/aledsdavies/lexkit/charclass"
	"github.com/aledsdavies/lexkit/lexerr"
	"github.com/aledsdavies/lexkit/position"
	"github.com/aledsdavies/lexkit/telemetry"
)

const defaultWindowSize = 4096

// StreamingBuffer is a sliding-window cursor over a read-only byte stream of
// potentially unknown total length, per spec.md §4.4. Unlike Buffer it does
// not own the reader; the caller's reader must outlive the StreamingBuffer.
type StreamingBuffer struct {
	reader     io.Reader
	windowSize int

	window      []byte
	windowStart int
	posInWindow int
	validBytes  int
	eofReached  bool

	codec   charclass.Codec
	tracker *position.Tracker
	rec     *telemetry.Recorder

	mark *streamMark
}

type streamMark struct {
	absOffset int
	pos       position.Position
}

// StreamOption configures a StreamingBuffer at construction.
type StreamOption func(*StreamingBuffer)

// WithWindowSize overrides the default window size of 4096 bytes.
func WithWindowSize(n int) StreamOption {
	return func(s *StreamingBuffer) { s.windowSize = n }
}

// WithCodec overrides the default charclass.Codec.
func WithCodec(c charclass.Codec) StreamOption {
	return func(s *StreamingBuffer) { s.codec = c }
}

// WithRecorder attaches a telemetry.Recorder that logs each window slide.
func WithRecorder(r *telemetry.Recorder) StreamOption {
	return func(s *StreamingBuffer) { s.rec = r }
}

// NewStreaming constructs a StreamingBuffer over r and performs the initial
// window fill.
func NewStreaming(r io.Reader, opts ...StreamOption) (*StreamingBuffer, error) {
	s := &StreamingBuffer{reader: r, windowSize: defaultWindowSize, codec: charclass.Default}
	for _, opt := range opts {
		opt(s)
	}
	if s.windowSize <= 0 {
		return nil, fmt.Errorf("streaming_buffer: new: %w", lexerr.ErrBufferTooSmall)
	}
	s.window = make([]byte, s.windowSize)
	if err := s.fill(0); err != nil {
		return nil, fmt.Errorf("streaming_buffer: initial fill: %w", err)
	}
	return s, nil
}

// fill reads into window[from:] and updates validBytes/eofReached.
func (s *StreamingBuffer) fill(from int) error {
	n, err := io.ReadFull(s.reader, s.window[from:])
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		s.eofReached = true
		err = nil
	}
	s.validBytes = from + n
	if err != nil {
		return err
	}
	if n < len(s.window)-from {
		s.eofReached = true
	}
	return nil
}

// EnableTracking attaches a PositionTracker. If the line ending opts leave
// in place is LF (the default, or an explicit WithLineEnding(LF)), it is
// replaced by the mode detected from whatever prefix is already loaded
// into the window.
func (s *StreamingBuffer) EnableTracking(opts ...position.Option) {
	s.tracker = position.New(opts...)
	if s.tracker.LineEnding() == position.LF && s.validBytes > 0 {
		s.tracker.SetLineEnding(position.Detect(s.window[:s.validBytes]))
	}
}

// DisableTracking destroys the attached tracker, if any.
func (s *StreamingBuffer) DisableTracking() { s.tracker = nil }

// Tracker returns the attached tracker, or nil.
func (s *StreamingBuffer) Tracker() *position.Tracker { return s.tracker }

// AbsoluteOffset returns the current absolute file offset of the cursor.
func (s *StreamingBuffer) AbsoluteOffset() int { return s.windowStart + s.posInWindow }

// AtEOF reports whether the cursor has reached the end of the stream.
func (s *StreamingBuffer) AtEOF() bool {
	return s.eofReached && s.posInWindow >= s.validBytes
}

// ensureByte performs a slide if the cursor has exhausted the window but the
// stream isn't finished yet. Returns EndOfStream if truly exhausted.
//
// The window is pure byte storage; the tracker advances incrementally on
// every consumed byte (see Next/NextCodepoint below) and is never reset
// mid-stream, so it already reflects "the state after consuming
// window[0:pos_in_window]" at all times — spec.md §4.4 steps 1-2 describe
// this as an explicit replay-then-capture, but because this implementation
// never rewinds the tracker outside of RestoreMark, that state is already
// current and the slide only needs to move window bytes, not position state.
// The CRLF-pairing flag (Tracker.pendingCR) rides along automatically for
// the same reason, satisfying the "last byte was CR" carry the spec calls
// the hardest invariant in the subsystem.
func (s *StreamingBuffer) ensureByte() error {
	if s.posInWindow < s.validBytes {
		return nil
	}
	if s.eofReached {
		return lexerr.ErrEndOfStream
	}
	if err := s.slide(); err != nil {
		return err
	}
	if s.posInWindow >= s.validBytes {
		return lexerr.ErrEndOfStream
	}
	return nil
}

// slide discards the consumed prefix of the window and refills the rest
// from the reader. Bytes from posInWindow onward have not been consumed
// yet — a partial multi-byte codepoint straddling the window end is the
// common case — so every one of them (keep) must survive the slide; none
// of it is ever a safe amount to drop.
func (s *StreamingBuffer) slide() error {
	keep := s.validBytes - s.posInWindow
	if keep < 0 {
		keep = 0
	}
	slideAmount := s.posInWindow

	copy(s.window[0:keep], s.window[s.posInWindow:s.posInWindow+keep])
	if err := s.fill(keep); err != nil {
		return fmt.Errorf("streaming_buffer: slide: %w", err)
	}
	s.windowStart += slideAmount
	s.posInWindow = 0
	if s.rec != nil {
		s.rec.SlideEvent(keep, slideAmount, s.windowStart)
	}
	return nil
}

// PeekByte implements position.BytePeeker.
func (s *StreamingBuffer) PeekByte() (byte, bool) {
	if s.ensureByte() != nil {
		return 0, false
	}
	return s.window[s.posInWindow], true
}

// Peek returns the byte at the cursor without advancing.
func (s *StreamingBuffer) Peek() (byte, error) {
	if err := s.ensureByte(); err != nil {
		return 0, fmt.Errorf("streaming_buffer: peek: %w", err)
	}
	return s.window[s.posInWindow], nil
}

// PeekCodepoint decodes the UTF-8 codepoint at the cursor without advancing.
// Codepoints that straddle the current valid window but not EOF slide first.
func (s *StreamingBuffer) PeekCodepoint() (rune, int, error) {
	if err := s.ensureByte(); err != nil {
		return 0, 0, fmt.Errorf("streaming_buffer: peek_codepoint: %w", err)
	}
	for {
		res, err := s.codec.DecodeOne(s.window[s.posInWindow:s.validBytes])
		if err == nil {
			return res.Codepoint, res.BytesConsumed, nil
		}
		if !errors.Is(err, lexerr.ErrIncompleteUTF8) || s.eofReached {
			return 0, 0, fmt.Errorf("streaming_buffer: peek_codepoint: %w", err)
		}
		if err := s.slide(); err != nil {
			return 0, 0, fmt.Errorf("streaming_buffer: peek_codepoint: %w", err)
		}
	}
}

// Next consumes one byte, advancing the tracker if attached.
func (s *StreamingBuffer) Next() (byte, error) {
	if err := s.ensureByte(); err != nil {
		return 0, fmt.Errorf("streaming_buffer: next: %w", err)
	}
	b := s.window[s.posInWindow]
	s.posInWindow++
	if s.tracker != nil {
		s.tracker.Advance(b)
	}
	return b, nil
}

// NextCodepoint consumes one UTF-8 codepoint, advancing the tracker.
func (s *StreamingBuffer) NextCodepoint() (rune, error) {
	cp, size, err := s.PeekCodepoint()
	if err != nil {
		return 0, err
	}
	consumed := make([]byte, size)
	copy(consumed, s.window[s.posInWindow:s.posInWindow+size])
	s.posInWindow += size
	if s.tracker != nil {
		s.tracker.AdvanceUTF8Bytes(consumed)
	}
	return cp, nil
}

// Advance moves the cursor forward by up to n bytes, sliding as needed,
// stopping early (without error) at end of stream.
func (s *StreamingBuffer) Advance(n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.Next(); err != nil {
			if errors.Is(err, lexerr.ErrEndOfStream) {
				return nil
			}
			return err
		}
	}
	return nil
}

// MarkPosition captures the absolute stream offset and (if tracking) the
// current Position for a single later RestoreMark call.
func (s *StreamingBuffer) MarkPosition() {
	m := &streamMark{absOffset: s.AbsoluteOffset()}
	if s.tracker != nil {
		m.pos = s.tracker.Current()
	}
	s.mark = m
}

// RestoreMark restores the cursor (and tracker position) captured by the
// most recent MarkPosition. A restore to an offset before the current
// window start seeks the underlying reader and refills from there; a
// restore to an offset within the live window just resets pos_in_window.
// Restoring past EOF leaves the cursor at EOF.
func (s *StreamingBuffer) RestoreMark() error {
	if s.mark == nil {
		return lexerr.ErrNoMarkSet
	}
	m := s.mark
	s.mark = nil

	switch {
	case m.absOffset >= s.windowStart && m.absOffset <= s.windowStart+s.validBytes:
		s.posInWindow = m.absOffset - s.windowStart
	default:
		seeker, ok := s.reader.(io.Seeker)
		if !ok {
			return fmt.Errorf("streaming_buffer: restore_mark: cross-window restore requires io.Seeker: %w", lexerr.ErrOffsetOutOfBounds)
		}
		if _, err := seeker.Seek(int64(m.absOffset), io.SeekStart); err != nil {
			return fmt.Errorf("streaming_buffer: restore_mark: seek: %w", err)
		}
		s.windowStart = m.absOffset
		s.posInWindow = 0
		s.eofReached = false
		if err := s.fill(0); err != nil {
			return fmt.Errorf("streaming_buffer: restore_mark: refill: %w", err)
		}
	}
	if s.tracker != nil {
		s.tracker.RestoreSnapshot(m.pos)
	}
	return nil
}

// SkipWhile advances codepoint-by-codepoint while pred holds.
func (s *StreamingBuffer) SkipWhile(pred func(rune) bool) error {
	for {
		cp, _, err := s.PeekCodepoint()
		if err != nil {
			if errors.Is(err, lexerr.ErrEndOfStream) {
				return nil
			}
			return fmt.Errorf("streaming_buffer: skip_while: %w", err)
		}
		if !pred(cp) {
			return nil
		}
		if _, err := s.NextCodepoint(); err != nil {
			return fmt.Errorf("streaming_buffer: skip_while: %w", err)
		}
	}
}

// ConsumeWhitespace consumes a run of whitespace codepoints. Because the
// window slides as it consumes, the returned slice is a freshly allocated
// copy rather than a zero-copy borrow — unlike Buffer, StreamingBuffer
// cannot promise its window storage outlives a token (the window is
// reused), so callers needing zero-copy tokens should prefer Buffer.
func (s *StreamingBuffer) ConsumeWhitespace() ([]byte, error) {
	var out []byte
	for {
		cp, size, err := s.PeekCodepoint()
		if err != nil {
			if errors.Is(err, lexerr.ErrEndOfStream) {
				return out, nil
			}
			return out, fmt.Errorf("streaming_buffer: consume_whitespace: %w", err)
		}
		if !s.codec.IsWhitespace(cp) {
			return out, nil
		}
		out = append(out, s.window[s.posInWindow:s.posInWindow+size]...)
		if _, err := s.NextCodepoint(); err != nil {
			return out, fmt.Errorf("streaming_buffer: consume_whitespace: %w", err)
		}
	}
}
