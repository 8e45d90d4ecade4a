package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const envelopeSchemaURL = "schema://forgeplan/step-envelope.json"

// envelopeSchema describes the {step, data} body accepted by the
// validate and save endpoints. Form clients send step as a string.
const envelopeSchema = `{
  "type": "object",
  "required": ["step", "data"],
  "properties": {
    "step": {
      "type": ["integer", "string"],
      "pattern": "^[0-9]+$"
    },
    "data": {"type": "object"}
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func envelope() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(envelopeSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse envelope schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(envelopeSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add envelope schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(envelopeSchemaURL)
	})
	return compiled, compileErr
}

// Envelope is a decoded step request body.
type Envelope struct {
	Step int
	Data map[string]any
}

// CheckEnvelope parses body and checks it against the step envelope schema.
// Any returned error means the request is malformed, not that the step
// data failed validation.
func CheckEnvelope(body []byte) (Envelope, error) {
	schema, err := envelope()
	if err != nil {
		return Envelope{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Envelope{}, fmt.Errorf("invalid request: %w", err)
	}

	var raw struct {
		Step json.RawMessage `json:"step"`
		Data map[string]any  `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, fmt.Errorf("invalid JSON: %w", err)
	}
	step, err := strconv.Atoi(strings.Trim(string(raw.Step), `"`))
	if err != nil {
		return Envelope{}, fmt.Errorf("invalid step: %w", err)
	}
	return Envelope{Step: step, Data: raw.Data}, nil
}
