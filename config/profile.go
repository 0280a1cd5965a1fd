// Package config loads a lexer profile — tab width, line-ending mode,
// streaming window size, and debug mode — from YAML, then validates the
// decoded document against a JSON Schema before handing it back. The
// "decode then schema-validate" sequence and its error wording follow
// core/types/validation.go's Validator.ValidateParams.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/lexkit/position"
)

// strictUnmarshal decodes data into v, rejecting unknown fields rather
// than silently ignoring them.
func strictUnmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// Mode selects whether the lexer profile targets an in-memory Buffer or a
// StreamingBuffer.
type Mode string

const (
	ModeBuffer    Mode = "buffer"
	ModeStreaming Mode = "streaming"
)

// Profile is the decoded shape of a lexer profile YAML document.
type Profile struct {
	TabWidth   uint32 `yaml:"tab_width" json:"tab_width"`
	LineEnding string `yaml:"line_ending" json:"line_ending"`
	WindowSize int    `yaml:"window_size" json:"window_size"`
	Mode       Mode   `yaml:"mode" json:"mode"`
	Debug      bool   `yaml:"debug" json:"debug"`
}

// defaultProfile mirrors Tracker's own defaults (tab_width 4, LF) plus a
// 4096-byte window and buffer mode, so a profile file only needs to name
// what it overrides.
func defaultProfile() Profile {
	return Profile{TabWidth: 4, LineEnding: "LF", WindowSize: 4096, Mode: ModeBuffer}
}

// Load decodes a YAML lexer profile from data and validates it against the
// built-in JSON Schema (Schema()).
func Load(data []byte) (Profile, error) {
	p := defaultProfile()
	if err := strictUnmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config: decode profile: %w", err)
	}

	if err := Validate(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate runs p through the JSON Schema defined in schema.go, following
// core/types/validation.go's "marshal to JSON, compile schema, validate"
// sequence.
func Validate(p Profile) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	asJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal profile: %w", err)
	}

	var asAny any
	if err := json.Unmarshal(asJSON, &asAny); err != nil {
		return fmt.Errorf("config: decode profile for validation: %w", err)
	}

	if err := schema.Validate(asAny); err != nil {
		return fmt.Errorf("config: profile failed schema validation: %w", err)
	}
	return nil
}

// LineEndingValue translates the profile's string line-ending name into a
// position.LineEnding, defaulting to LF for an empty or unrecognized value
// (Validate should already have rejected anything else).
func (p Profile) LineEndingValue() position.LineEnding {
	switch p.LineEnding {
	case "CR":
		return position.CR
	case "CRLF":
		return position.CRLF
	default:
		return position.LF
	}
}

// Bytes round-trips a Profile back to YAML.
func (p Profile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("config: encode profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode profile: %w", err)
	}
	return buf.Bytes(), nil
}
