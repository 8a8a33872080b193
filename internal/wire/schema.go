package wire

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string", "minLength": 1},
    "id": {"type": "string"},
    "correlation_id": {"type": "string"},
    "timestamp_ns": {"type": "integer", "minimum": 0},
    "payload": {"type": ["object", "null"]}
  }
}`

func compileEnvelopeSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("envelope.json", strings.NewReader(envelopeSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("envelope.json")
}
