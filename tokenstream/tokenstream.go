// Package tokenstream serializes a batch of tokens to a compact binary wire
// format: a fixed preamble (magic + version + body length) followed by a
// CBOR-encoded body, mirroring core/planfmt's MAGIC|VERSION|LEN|BODY framing
// but using CBOR instead of a hand-rolled binary encoding for the body.
package tokenstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/lexkit/position"
)

// Magic is the 4-byte file magic, "LXTK".
const Magic = "LXTK"

// Version is the wire format version.
const Version uint16 = 1

const preambleLen = 4 + 2 + 8 // magic + version + body length

// Record is the wire representation of one token: Kind is serialized as
// whatever the caller's Kind type marshals to via CBOR (an int-backed enum
// marshals as an integer, a string-backed one as text).
type Record[Kind any] struct {
	Kind     Kind              `cbor:"kind"`
	Lexeme   []byte            `cbor:"lexeme"`
	Position position.Position `cbor:"position"`
	Meta     *RecordMeta       `cbor:"meta,omitempty"`
}

// RecordMeta mirrors token.Metadata in a CBOR-friendly shape (a tagged
// union would round-trip awkwardly through cbor's generic map encoding, so
// this flattens it to one field per variant, all but one left zero). The
// Custom variant has no field here and is not carried over the wire.
type RecordMeta struct {
	Kind      int     `cbor:"kind"`
	Integer   int64   `cbor:"integer,omitempty"`
	Float     float64 `cbor:"float,omitempty"`
	String    string  `cbor:"string,omitempty"`
	Boolean   bool    `cbor:"boolean,omitempty"`
	Character int32   `cbor:"character,omitempty"`
}

// Write encodes records as CBOR and frames them with the magic/version/
// length preamble, writing the result to w.
func Write[Kind any](w io.Writer, records []Record[Kind]) error {
	body, err := cbor.Marshal(records)
	if err != nil {
		return fmt.Errorf("tokenstream: marshal body: %w", err)
	}

	var preamble bytes.Buffer
	preamble.WriteString(Magic)
	if err := binary.Write(&preamble, binary.LittleEndian, Version); err != nil {
		return fmt.Errorf("tokenstream: write version: %w", err)
	}
	if err := binary.Write(&preamble, binary.LittleEndian, uint64(len(body))); err != nil {
		return fmt.Errorf("tokenstream: write body length: %w", err)
	}

	if _, err := w.Write(preamble.Bytes()); err != nil {
		return fmt.Errorf("tokenstream: write preamble: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("tokenstream: write body: %w", err)
	}
	return nil
}

// Read decodes a record batch previously written by Write.
func Read[Kind any](r io.Reader) ([]Record[Kind], error) {
	var preamble [preambleLen]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return nil, fmt.Errorf("tokenstream: read preamble: %w", err)
	}

	magic := string(preamble[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("tokenstream: invalid magic: got %q, want %q", magic, Magic)
	}
	version := binary.LittleEndian.Uint16(preamble[4:6])
	if version != Version {
		return nil, fmt.Errorf("tokenstream: unsupported version: got %d, want %d", version, Version)
	}
	bodyLen := binary.LittleEndian.Uint64(preamble[6:14])

	const maxBodyLen = 256 * 1024 * 1024
	if bodyLen > maxBodyLen {
		return nil, fmt.Errorf("tokenstream: body length %d exceeds maximum %d", bodyLen, maxBodyLen)
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("tokenstream: read body: %w", err)
	}

	var records []Record[Kind]
	if err := cbor.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("tokenstream: unmarshal body: %w", err)
	}
	return records, nil
}
