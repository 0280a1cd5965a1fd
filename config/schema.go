package config

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// profileSchemaJSON is the built-in JSON Schema for a lexer Profile. It is
// small and fixed, so unlike core/types/validation.go's per-decorator
// schema cache there is only ever one schema to compile; compiledSchema
// compiles it once and reuses the result.
const profileSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "tab_width": {"type": "integer", "minimum": 1, "maximum": 64},
    "line_ending": {"type": "string", "enum": ["LF", "CR", "CRLF"]},
    "window_size": {"type": "integer", "minimum": 64},
    "mode": {"type": "string", "enum": ["buffer", "streaming"]},
    "debug": {"type": "boolean"}
  },
  "required": ["tab_width", "line_ending", "window_size", "mode"],
  "additionalProperties": false
}`

var (
	schemaOnce    sync.Once
	schemaCompile *jsonschema.Schema
	schemaErr     error
)

// compiledSchema compiles profileSchemaJSON once, following
// core/types/validation.go's compileSchema: a Draft2020 compiler with
// format assertions enabled and no remote $ref resolution.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		compiler.LoadURL = secureLoader

		const url = "schema://profile.json"
		if err := compiler.AddResource(url, strings.NewReader(profileSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("config: add schema resource: %w", err)
			return
		}
		schemaCompile, schemaErr = compiler.Compile(url)
	})
	return schemaCompile, schemaErr
}

// secureLoader refuses remote $ref resolution entirely; the built-in
// schema is self-contained and should never need to fetch anything,
// mirroring the deny-by-default branch of
// core/types/validation.go's createSecureLoader.
func secureLoader(url string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("config: remote $ref not allowed: %s", url)
}
