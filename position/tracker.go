package position

import (
	"fmt"

	"github.com/aledsdavies/lexkit/lexerr"
)

// LineEnding selects how the tracker folds CR/LF bytes into line breaks.
type LineEnding int

const (
	LF LineEnding = iota
	CR
	CRLF
)

func (e LineEnding) String() string {
	switch e {
	case LF:
		return "LF"
	case CR:
		return "CR"
	case CRLF:
		return "CRLF"
	default:
		return "LineEnding(?)"
	}
}

// BytePeeker is the minimal read-only view a Tracker query needs into
// whatever buffer owns it (Buffer and StreamingBuffer both satisfy this).
type BytePeeker interface {
	PeekByte() (b byte, ok bool)
}

// Tracker is the mutable (line, column, byte_offset) cursor described in
// spec.md §4.2. It is owned by exactly one buffer at a time; nothing in
// this package synchronizes concurrent access.
type Tracker struct {
	current    Position
	marks      []markEntry
	tabWidth   uint32
	lineEnding LineEnding
	pendingCR  bool // a '\r' was consumed whose line/column effect isn't committed yet
}

type markEntry struct {
	pos       Position
	pendingCR bool
}

// Option configures a Tracker at construction.
type Option func(*Tracker)

// WithTabWidth overrides the default tab width of 4.
func WithTabWidth(width uint32) Option {
	return func(t *Tracker) { t.tabWidth = width }
}

// WithLineEnding overrides the default LF line-ending mode.
func WithLineEnding(le LineEnding) Option {
	return func(t *Tracker) { t.lineEnding = le }
}

// New creates a Tracker at the initial position.
func New(opts ...Option) *Tracker {
	t := &Tracker{current: Initial, tabWidth: 4, lineEnding: LF}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset returns the tracker to its initial state, clearing marks.
func (t *Tracker) Reset() {
	t.current = Initial
	t.marks = t.marks[:0]
	t.pendingCR = false
}

// Current returns the tracker's current position.
func (t *Tracker) Current() Position { return t.current }

// TabWidth returns the configured tab width.
func (t *Tracker) TabWidth() uint32 { return t.tabWidth }

// LineEnding returns the configured line-ending mode.
func (t *Tracker) LineEnding() LineEnding { return t.lineEnding }

// SetLineEnding changes the line-ending mode used by subsequent Advance calls.
func (t *Tracker) SetLineEnding(le LineEnding) { t.lineEnding = le }

// Detect scans data for the first line-ending sequence and returns the mode
// implied by it: "\r\n" first wins CRLF, a lone "\r" wins CR, a lone "\n"
// wins LF; no line ending at all defaults to LF. Does not mutate t.
func Detect(data []byte) LineEnding {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				return CRLF
			}
			return CR
		case '\n':
			return LF
		}
	}
	return LF
}

// Advance folds one consumed byte into the tracker's position, applying the
// CRLF-pairing rule described in spec.md §4.2: a '\r' only advances the byte
// offset immediately; its line/column effect is committed either by a
// following '\n' (under CRLF mode, as a single line break) or by whatever
// byte follows it (under CR mode, which commits the break on its own) or
// never (under LF mode, where a stray '\r' has no line-break effect).
func (t *Tracker) Advance(b byte) {
	if t.pendingCR {
		t.pendingCR = false
		if b == '\n' && t.lineEnding == CRLF {
			t.current.Line++
			t.current.Column = 1
			t.current.Offset++
			return
		}
		if t.lineEnding == CR {
			t.current.Line++
			t.current.Column = 1
			if b == '\n' {
				// Under CR mode '\n' carries no line-break meaning of its
				// own; the break was already committed above for the '\r'.
				// Consume it as an ordinary byte on the new line instead of
				// falling into AdvanceByte's unconditional '\n' case below,
				// which would count the break a second time.
				t.current.Column++
				t.current.Offset++
				return
			}
		}
	}

	if b == '\r' {
		t.current.Offset++
		t.pendingCR = true
		return
	}

	t.current = t.current.AdvanceByte(b, t.tabWidth)
}

// AdvanceCodepoint folds one decoded codepoint into the tracker's position.
// Multi-byte codepoints never participate in CRLF pairing (only the ASCII
// '\r'/'\n' bytes do); after a pending '\r' they only commit the CR-mode
// line break, the same way Advance does for any other following byte.
func (t *Tracker) AdvanceCodepoint(cp rune) {
	if cp > 0x7F {
		if t.pendingCR && t.lineEnding == CR {
			t.current.Line++
			t.current.Column = 1
		}
		t.pendingCR = false
		t.current = t.current.AdvanceCodepoint(cp, UTF8Len(cp), t.tabWidth)
		return
	}
	t.Advance(byte(cp))
}

// AdvanceUTF8Bytes folds every codepoint decoded from bytes into the
// tracker's position, in source order.
func (t *Tracker) AdvanceUTF8Bytes(bytes []byte) {
	for _, r := range string(bytes) {
		t.AdvanceCodepoint(r)
	}
}

// Mark pushes the current position (and pending-CR state) onto the mark
// stack.
func (t *Tracker) Mark() {
	t.marks = append(t.marks, markEntry{pos: t.current, pendingCR: t.pendingCR})
}

// Restore pops the top mark and overwrites the current position with it.
func (t *Tracker) Restore() error {
	if len(t.marks) == 0 {
		return lexerr.ErrNoMarkToRestore
	}
	top := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	t.current = top.pos
	t.pendingCR = top.pendingCR
	return nil
}

// GetRangeFromMark peeks the top mark and returns Range(mark, current)
// without popping it.
func (t *Tracker) GetRangeFromMark() (Range, error) {
	if len(t.marks) == 0 {
		return Range{}, lexerr.ErrNoMarkToRestore
	}
	top := t.marks[len(t.marks)-1]
	return Range{Start: top.pos, End: t.current}, nil
}

// PopMarkToRange pops the top mark and returns Range(mark, current).
func (t *Tracker) PopMarkToRange() (Range, error) {
	if len(t.marks) == 0 {
		return Range{}, lexerr.ErrNoMarkToRestore
	}
	top := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	return Range{Start: top.pos, End: t.current}, nil
}

// MarkDepth returns the number of marks currently on the stack.
func (t *Tracker) MarkDepth() int { return len(t.marks) }

// Snapshot returns the current position for later restoration via
// RestoreSnapshot. Unlike Mark/Restore this is not stack-discplined and
// does not preserve the pending-CR flag — callers on a CR/CRLF-heavy hot
// path should prefer Mark/Restore.
func (t *Tracker) Snapshot() Position { return t.current }

// RestoreSnapshot overwrites the current position with pos, clearing any
// pending-CR state.
func (t *Tracker) RestoreSnapshot(pos Position) {
	t.current = pos
	t.pendingCR = false
}

// OffsetToPosition replays data from byte 0 under this tracker's tab width
// and line-ending rules, returning the Position at target. O(target) —
// spec.md §4.2 accepts this cost explicitly.
func (t *Tracker) OffsetToPosition(data []byte, target uint64) (Position, error) {
	if target > uint64(len(data)) {
		return Position{}, fmt.Errorf("offset_to_position %d: %w", target, lexerr.ErrOffsetOutOfBounds)
	}
	scan := New(WithTabWidth(t.tabWidth), WithLineEnding(t.lineEnding))
	for i := uint64(0); i < target; i++ {
		scan.Advance(data[i])
	}
	return scan.current, nil
}

// IsAtLineStart reports whether the current column is 1.
func (t *Tracker) IsAtLineStart() bool { return t.current.Column == 1 }

// IsAtLineEnd reports whether the next byte (if any) is a newline, or there
// is no next byte at all.
func (t *Tracker) IsAtLineEnd(buf BytePeeker) bool {
	b, ok := buf.PeekByte()
	return !ok || b == '\n'
}

// IsAtStart reports whether no bytes have been consumed.
func (t *Tracker) IsAtStart() bool { return t.current.Offset == 0 }

// IsAtEnd reports whether the underlying buffer has no more bytes.
func (t *Tracker) IsAtEnd(buf BytePeeker) bool {
	_, ok := buf.PeekByte()
	return !ok
}

// VisualColumn returns the current 1-based visual column.
func (t *Tracker) VisualColumn() uint32 { return t.current.Column }

// Difference reports the (lines, columns, bytes) delta between a and b
// (b - a). Columns is only meaningful when a and b share a line.
type Difference struct {
	Lines   int64
	Columns int64
	Bytes   int64
}

// PositionDifference computes the delta from a to b.
func PositionDifference(a, b Position) Difference {
	return Difference{
		Lines:   int64(b.Line) - int64(a.Line),
		Columns: int64(b.Column) - int64(a.Column),
		Bytes:   int64(b.Offset) - int64(a.Offset),
	}
}
