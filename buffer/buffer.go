// Package buffer provides the two cursor implementations every hand-written
// lexer is built on: Buffer, a cursor over a borrowed in-memory byte slice,
// and StreamingBuffer (streaming.go), a sliding window over an io.Reader.
// Both optionally host a *position.Tracker so callers get line/column
// bookkeeping for free.
package buffer

import (
	"fmt"

	"github.com/aledsdavies/lexkit/charclass"
	"github.com/aledsdavies/lexkit/lexerr"
	"github.com/aledsdavies/lexkit/position"
)

// Buffer is a byte cursor over a slice the caller owns; Buffer never copies
// it. Tokens produced by a lexer built on Buffer may borrow directly from
// that slice, per spec.md §3's zero-copy Token contract — so the slice must
// outlive every token sliced from it.
type Buffer struct {
	data  []byte
	pos   int
	codec charclass.Codec

	byteMark   int  // -1 means "no mark set"
	sourceMark position.Position

	tracker *position.Tracker
}

// New creates a Buffer over data using the default charclass.Codec.
func New(data []byte) *Buffer {
	return NewWithCodec(data, charclass.Default)
}

// NewWithCodec creates a Buffer over data using an explicit Codec.
func NewWithCodec(data []byte, codec charclass.Codec) *Buffer {
	b := &Buffer{codec: codec, byteMark: -1}
	b.SetContent(data)
	return b
}

// SetContent rebinds the buffer to a new slice, resetting the cursor, marks,
// and (if enabled) the tracker, then re-detecting the line ending.
func (b *Buffer) SetContent(data []byte) {
	b.data = data
	b.pos = 0
	b.byteMark = -1
	if b.tracker != nil {
		tabWidth := b.tracker.TabWidth()
		b.tracker = position.New(position.WithTabWidth(tabWidth), position.WithLineEnding(position.Detect(data)))
	}
}

// EnableTracking attaches a PositionTracker to the buffer (owned by it). If
// the line ending opts leave in place is LF (the default, or an explicit
// WithLineEnding(LF)), it is replaced by the mode detected from data.
func (b *Buffer) EnableTracking(opts ...position.Option) {
	b.tracker = position.New(opts...)
	if b.data != nil && b.tracker.LineEnding() == position.LF {
		b.tracker.SetLineEnding(position.Detect(b.data))
	}
}

// DisableTracking destroys the attached tracker, if any.
func (b *Buffer) DisableTracking() { b.tracker = nil }

// Tracker returns the attached tracker, or nil if tracking is disabled.
func (b *Buffer) Tracker() *position.Tracker { return b.tracker }

// Len returns the number of bytes in the buffer's source.
func (b *Buffer) Len() int { return len(b.data) }

// BytePos returns the current byte cursor position.
func (b *Buffer) BytePos() int { return b.pos }

// Source returns the full borrowed slice the buffer was constructed with.
func (b *Buffer) Source() []byte { return b.data }

// PeekByte implements position.BytePeeker.
func (b *Buffer) PeekByte() (byte, bool) {
	if b.pos >= len(b.data) {
		return 0, false
	}
	return b.data[b.pos], true
}

// Peek returns the byte at the cursor without advancing.
func (b *Buffer) Peek() (byte, error) {
	v, ok := b.PeekByte()
	if !ok {
		return 0, fmt.Errorf("buffer: peek at %d: %w", b.pos, lexerr.ErrEndOfBuffer)
	}
	return v, nil
}

// PeekN returns the byte at pos+k without advancing.
func (b *Buffer) PeekN(k int) (byte, error) {
	idx := b.pos + k
	if idx < 0 || idx >= len(b.data) {
		return 0, fmt.Errorf("buffer: peek_n at %d: %w", idx, lexerr.ErrEndOfBuffer)
	}
	return b.data[idx], nil
}

// PeekCodepoint decodes the UTF-8 codepoint at the cursor without advancing.
func (b *Buffer) PeekCodepoint() (rune, int, error) {
	if b.pos >= len(b.data) {
		return 0, 0, fmt.Errorf("buffer: peek_codepoint at %d: %w", b.pos, lexerr.ErrEndOfBuffer)
	}
	res, err := b.codec.DecodeOne(b.data[b.pos:])
	if err != nil {
		return 0, 0, fmt.Errorf("buffer: peek_codepoint at %d: %w", b.pos, err)
	}
	return res.Codepoint, res.BytesConsumed, nil
}

// Next consumes one byte, advancing the tracker if attached.
func (b *Buffer) Next() (byte, error) {
	v, err := b.Peek()
	if err != nil {
		return 0, err
	}
	b.pos++
	if b.tracker != nil {
		b.tracker.Advance(v)
	}
	return v, nil
}

// NextCodepoint consumes one UTF-8 codepoint, advancing the tracker (via
// AdvanceUTF8Bytes) if attached.
func (b *Buffer) NextCodepoint() (rune, error) {
	cp, size, err := b.PeekCodepoint()
	if err != nil {
		return 0, err
	}
	consumed := b.data[b.pos : b.pos+size]
	b.pos += size
	if b.tracker != nil {
		b.tracker.AdvanceUTF8Bytes(consumed)
	}
	return cp, nil
}

// Advance moves the cursor forward by up to n bytes, saturating at the end
// of the buffer. The tracker, if attached, replays every consumed byte.
func (b *Buffer) Advance(n int) {
	end := b.pos + n
	if end > len(b.data) {
		end = len(b.data)
	}
	if b.tracker != nil {
		for i := b.pos; i < end; i++ {
			b.tracker.Advance(b.data[i])
		}
	}
	b.pos = end
}

// AdvanceCodepoints moves the cursor forward by n codepoints.
func (b *Buffer) AdvanceCodepoints(n int) error {
	for i := 0; i < n; i++ {
		if _, err := b.NextCodepoint(); err != nil {
			return fmt.Errorf("buffer: advance_codepoints: %w", err)
		}
	}
	return nil
}

// Retreat moves the cursor back by n bytes, clamped to 0. Because tabs and
// newlines make byte_offset -> (line, column) non-invertible, a tracked
// buffer rewinds by resetting the tracker and replaying bytes [0, newPos) —
// documented as O(n) in spec.md §4.3; prefer Mark/RestoreMark on hot paths.
func (b *Buffer) Retreat(n int) {
	newPos := b.pos - n
	if newPos < 0 {
		newPos = 0
	}
	b.pos = newPos
	if b.tracker != nil {
		tabWidth := b.tracker.TabWidth()
		le := b.tracker.LineEnding()
		b.tracker = position.New(position.WithTabWidth(tabWidth), position.WithLineEnding(le))
		for i := 0; i < newPos; i++ {
			b.tracker.Advance(b.data[i])
		}
	}
}

// MarkPosition captures the byte cursor (and, if tracking, the current
// Position) for a single later RestoreMark call.
func (b *Buffer) MarkPosition() {
	b.byteMark = b.pos
	if b.tracker != nil {
		b.sourceMark = b.tracker.Current()
	}
}

// RestoreMark restores the byte cursor (and tracker position) captured by
// the most recent MarkPosition, then clears the mark.
func (b *Buffer) RestoreMark() error {
	if b.byteMark < 0 {
		return lexerr.ErrNoMarkSet
	}
	b.pos = b.byteMark
	b.byteMark = -1
	if b.tracker != nil {
		b.tracker.RestoreSnapshot(b.sourceMark)
	}
	return nil
}

// SkipWhile advances codepoint-by-codepoint while pred holds on the decoded
// codepoint.
func (b *Buffer) SkipWhile(pred func(rune) bool) error {
	for b.pos < len(b.data) {
		cp, size, err := b.PeekCodepoint()
		if err != nil {
			return fmt.Errorf("buffer: skip_while: %w", err)
		}
		if !pred(cp) {
			break
		}
		b.pos += size
		if b.tracker != nil {
			b.tracker.AdvanceUTF8Bytes(b.data[b.pos-size : b.pos])
		}
	}
	return nil
}

// ConsumeWhile advances while pred holds and returns the consumed slice.
func (b *Buffer) ConsumeWhile(pred func(rune) bool) ([]byte, error) {
	start := b.pos
	if err := b.SkipWhile(pred); err != nil {
		return nil, err
	}
	return b.data[start:b.pos], nil
}

// ConsumeWhitespace consumes a run of whitespace codepoints per the
// attached Codec's IsWhitespace predicate.
func (b *Buffer) ConsumeWhitespace() ([]byte, error) {
	return b.ConsumeWhile(b.codec.IsWhitespace)
}

// ConsumeIdentifier consumes an identifier: one codepoint satisfying
// IsIdentifierStart followed by a run satisfying IsIdentifierContinue.
func (b *Buffer) ConsumeIdentifier() ([]byte, error) {
	start := b.pos
	cp, size, err := b.PeekCodepoint()
	if err != nil {
		return nil, fmt.Errorf("buffer: consume_identifier: %w", err)
	}
	if !b.codec.IsIdentifierStart(cp) {
		return nil, fmt.Errorf("buffer: consume_identifier at %d: %w", b.pos, lexerr.ErrInvalidIdentifierStart)
	}
	b.pos += size
	if b.tracker != nil {
		b.tracker.AdvanceUTF8Bytes(b.data[start:b.pos])
	}
	if err := b.SkipWhile(b.codec.IsIdentifierContinue); err != nil {
		return nil, fmt.Errorf("buffer: consume_identifier: %w", err)
	}
	return b.data[start:b.pos], nil
}

// SkipToLineEnd advances bytes until a '\r', '\n', or end of buffer, without
// consuming the terminator itself.
func (b *Buffer) SkipToLineEnd() {
	for b.pos < len(b.data) && b.data[b.pos] != '\n' && b.data[b.pos] != '\r' {
		adv := b.data[b.pos]
		b.pos++
		if b.tracker != nil {
			b.tracker.Advance(adv)
		}
	}
}

// SkipToNextLine advances past the current line's terminator, consuming a
// trailing CR+LF as a single unit when the tracker is in CRLF mode.
func (b *Buffer) SkipToNextLine() {
	b.SkipToLineEnd()
	if b.pos >= len(b.data) {
		return
	}
	// consume the '\n' (or the lone '\r'/"\r\n" pair under CR/CRLF modes)
	if b.data[b.pos] == '\n' {
		b.consumeOne()
		return
	}
	if b.data[b.pos] == '\r' {
		b.consumeOne()
		if b.pos < len(b.data) && b.data[b.pos] == '\n' &&
			(b.tracker == nil || b.tracker.LineEnding() == position.CRLF) {
			b.consumeOne()
		}
	}
}

func (b *Buffer) consumeOne() {
	adv := b.data[b.pos]
	b.pos++
	if b.tracker != nil {
		b.tracker.Advance(adv)
	}
}

// ValidateUTF8 reports whether the entire source is valid UTF-8.
func (b *Buffer) ValidateUTF8() bool {
	rest := b.data
	for len(rest) > 0 {
		res, err := b.codec.DecodeOne(rest)
		if err != nil {
			return false
		}
		rest = rest[res.BytesConsumed:]
	}
	return true
}

// CodepointIndexToByteOffset scans from the start of the source and returns
// the byte offset of the k-th codepoint (0-based).
func (b *Buffer) CodepointIndexToByteOffset(k int) (int, error) {
	rest := b.data
	offset := 0
	for i := 0; i < k; i++ {
		if len(rest) == 0 {
			return 0, fmt.Errorf("buffer: codepoint_index_to_byte_offset %d: %w", k, lexerr.ErrIndexOutOfBounds)
		}
		res, err := b.codec.DecodeOne(rest)
		if err != nil {
			return 0, fmt.Errorf("buffer: codepoint_index_to_byte_offset %d: %w", k, err)
		}
		rest = rest[res.BytesConsumed:]
		offset += res.BytesConsumed
	}
	return offset, nil
}

// Reset returns the cursor to 0, clears marks, and resets the tracker.
func (b *Buffer) Reset() {
	b.pos = 0
	b.byteMark = -1
	if b.tracker != nil {
		b.tracker.Reset()
	}
}
