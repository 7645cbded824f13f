package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const configSchema = `{
  "type": "object",
  "properties": {
    "version":   {"type": "string"},
    "log_level": {"enum": ["debug", "info", "warn", "error", "dpanic", "panic", "fatal"]},
    "log_json":  {"type": ["boolean", "string"]},
    "log_color": {"type": ["boolean", "string"]},
    "debug":     {"type": ["boolean", "string"]},
    "tags":      {"type": ["array", "string"]},
    "tree": {
      "type": "object",
      "properties": {
        "key_type":         {"enum": ["int", "float", "string"]},
        "preload":          {"type": ["array", "string"]},
        "check_invariants": {"type": ["boolean", "string"]},
        "capacity":         {"type": ["integer", "string"]}
      }
    },
    "render": {
      "type": "object",
      "properties": {
        "style": {"enum": ["matrix", "sideways"]}
      }
    },
    "metrics": {
      "type": "object",
      "properties": {
        "host":       {"type": "string"},
        "port":       {"type": ["integer", "string"], "minimum": 0, "maximum": 65535},
        "enable_h2c": {"type": ["boolean", "string"]}
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("config.avl.json", configSchema)

// validateSchema checks the raw config tree before it is decoded.
// Values are round-tripped through JSON so that parser specific
// types (toml dates, yaml ints) reach the validator as plain JSON.
func validateSchema(raw map[string]any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err = dec.Decode(&doc); err != nil {
		return err
	}
	if err = schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		var causes []string
		for _, ve := range verr.BasicOutput().Errors {
			if ve.Error == "" || ve.KeywordLocation == "" {
				continue
			}
			causes = append(causes, fmt.Sprintf("%s: %s", ve.InstanceLocation, ve.Error))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(causes, "; "))
	}
	return nil
}
