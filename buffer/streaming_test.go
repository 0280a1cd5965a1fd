package buffer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aledsdavies/lexkit/lexerr"
	"github.com/aledsdavies/lexkit/position"
)

// TestStreamingWindowSlide is spec.md §8 scenario 5: reading byte-by-byte
// through five lines with an 8-byte window must cross at least one slide.
func TestStreamingWindowSlide(t *testing.T) {
	src := "Line1\nLine2\nLine3\nLine4\nLine5"
	s, err := NewStreaming(bytes.NewReader([]byte(src)), WithWindowSize(8))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	s.EnableTracking()

	var got []byte
	slides := 0
	lastStart := s.windowStart
	for {
		b, err := s.Next()
		if err != nil {
			if errors.Is(err, lexerr.ErrEndOfStream) {
				break
			}
			t.Fatalf("next: %v", err)
		}
		if s.windowStart != lastStart {
			slides++
			lastStart = s.windowStart
		}
		got = append(got, b)
	}
	if string(got) != src {
		t.Fatalf("byte stream mismatch:\ngot:  %q\nwant: %q", got, src)
	}
	if slides == 0 {
		t.Fatalf("expected at least one window slide over a %d-byte source with an 8-byte window", len(src))
	}
	want := position.Position{Line: 5, Column: 6, Offset: uint64(len(src))}
	if got := s.Tracker().Current(); got != want {
		t.Fatalf("final position: got %+v, want %+v", got, want)
	}
}

// TestStreamingCRLFSplitAtWindowBoundary is spec.md §8 scenario 6.
func TestStreamingCRLFSplitAtWindowBoundary(t *testing.T) {
	src := "Hello12\r\nWorld"
	s, err := NewStreaming(bytes.NewReader([]byte(src)), WithWindowSize(8))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	s.EnableTracking(position.WithLineEnding(position.CRLF))

	for i := 0; i < 8; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	// Eighth byte consumed was '\r'; pos_in_window now equals valid_bytes
	// (8) for an 8-byte window, so the next Next() slides the window.
	if _, err := s.Next(); err != nil {
		t.Fatalf("next (the '\\n'): %v", err)
	}
	want := position.Position{Line: 2, Column: 1, Offset: 9}
	if got := s.Tracker().Current(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStreamingEndOfStream(t *testing.T) {
	s, err := NewStreaming(bytes.NewReader([]byte("ab")), WithWindowSize(8))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, lexerr.ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
}

func TestStreamingMarkRestoreWithinWindow(t *testing.T) {
	s, err := NewStreaming(bytes.NewReader([]byte("abcdef")), WithWindowSize(16))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	s.EnableTracking()
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	s.MarkPosition()
	if _, err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := s.RestoreMark(); err != nil {
		t.Fatalf("restore_mark: %v", err)
	}
	if s.AbsoluteOffset() != 2 {
		t.Fatalf("absolute_offset = %d, want 2", s.AbsoluteOffset())
	}
}

// TestStreamingMultiByteCodepointAcrossSlideBoundary is spec.md §8's
// mandatory boundary case: a multi-byte codepoint landing right at the
// edge of the window must decode correctly whether or not consuming it
// forces a slide mid-sequence. Regression test for a slide() bug where
// the preserved prefix was capped below the size of the still-buffered
// partial codepoint, silently dropping its trailing bytes.
func TestStreamingMultiByteCodepointAcrossSlideBoundary(t *testing.T) {
	cases := []struct {
		name       string
		src        string
		windowSize int
	}{
		{"2-byte codepoint", "AB" + "é" + "CD", 4},   // "é" = C3 A9
		{"3-byte codepoint", "AB" + "€" + "CD", 5},   // "€" = E2 82 AC
		{"4-byte codepoint, reviewer repro", "ABCDE" + "\U0001F60A" + "Z", 8}, // 😊 = F0 9F 98 8A
		{"4-byte codepoint, tight window", "A" + "\U0001F60A" + "B", 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mem := New([]byte(tc.src))
			stream, err := NewStreaming(bytes.NewReader([]byte(tc.src)), WithWindowSize(tc.windowSize))
			if err != nil {
				t.Fatalf("new_streaming: %v", err)
			}

			var gotMem, gotStream []rune
			for {
				mcp, merr := mem.NextCodepoint()
				if merr != nil {
					break
				}
				gotMem = append(gotMem, mcp)
			}
			for {
				scp, serr := stream.NextCodepoint()
				if serr != nil {
					if errors.Is(serr, lexerr.ErrEndOfStream) {
						break
					}
					t.Fatalf("stream next_codepoint: %v", serr)
				}
				gotStream = append(gotStream, scp)
			}

			if string(gotStream) != string(gotMem) {
				t.Fatalf("codepoint mismatch:\nmem:    %q\nstream: %q", string(gotMem), string(gotStream))
			}
			if string(gotStream) != tc.src {
				t.Fatalf("decoded stream %q does not round-trip source %q", string(gotStream), tc.src)
			}
		})
	}
}

func TestStreamingRestoreWithoutMarkFails(t *testing.T) {
	s, err := NewStreaming(bytes.NewReader([]byte("abc")), WithWindowSize(8))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	if err := s.RestoreMark(); !errors.Is(err, lexerr.ErrNoMarkSet) {
		t.Fatalf("got %v, want ErrNoMarkSet", err)
	}
}

// TestStreamingMatchesInMemory verifies spec.md §8's cross-implementation
// property: in-memory and streaming buffers over identical content yield
// byte-identical streams and Position-identical trajectories.
func TestStreamingMatchesInMemory(t *testing.T) {
	src := "Hello\nWorld\tTabbed\r\nCRLF line"

	mem := New([]byte(src))
	mem.EnableTracking(position.WithLineEnding(position.CRLF))

	stream, err := NewStreaming(bytes.NewReader([]byte(src)), WithWindowSize(6))
	if err != nil {
		t.Fatalf("new_streaming: %v", err)
	}
	stream.EnableTracking(position.WithLineEnding(position.CRLF))

	for i := 0; i < len(src); i++ {
		mb, merr := mem.Next()
		sb, serr := stream.Next()
		if merr != nil || serr != nil {
			t.Fatalf("byte %d: mem err=%v stream err=%v", i, merr, serr)
		}
		if mb != sb {
			t.Fatalf("byte %d mismatch: mem=%q stream=%q", i, mb, sb)
		}
		if mem.Tracker().Current() != stream.Tracker().Current() {
			t.Fatalf("position mismatch at byte %d: mem=%+v stream=%+v", i, mem.Tracker().Current(), stream.Tracker().Current())
		}
	}
}
