package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "nesconf://settings.schema.json"

// Schema is the JSON Schema every configuration document must satisfy.
// Unknown keys are allowed so that files written by newer versions load.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "nesconf settings",
  "type": "object",
  "$defs": {
    "percent": {"type": "integer", "minimum": 0, "maximum": 100},
    "port": {"type": "integer", "minimum": 1, "maximum": 65535},
    "uint32": {"type": "integer", "minimum": 0, "maximum": 4294967295},
    "byte": {"type": "integer", "minimum": 0, "maximum": 255}
  },
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "disable_all_cheats": {"type": "boolean"},
    "region": {"enum": ["auto", "ntsc", "pal", "dendy"]},
    "preferences": {
      "type": "object",
      "properties": {
        "auto_save_delay_minutes": {"$ref": "#/$defs/uint32"},
        "display_language": {"type": "string"},
        "shortcut_keys": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["action"],
            "properties": {
              "action": {"type": "string", "minLength": 1},
              "keys": {"type": "string"}
            }
          }
        }
      }
    },
    "audio": {
      "type": "object",
      "properties": {
        "audio_device": {"type": "string"},
        "audio_latency": {"type": "integer", "minimum": 15, "maximum": 300},
        "sample_rate": {"type": "integer", "minimum": 8000, "maximum": 192000},
        "master_volume": {"$ref": "#/$defs/percent"},
        "square1_volume": {"$ref": "#/$defs/percent"},
        "square2_volume": {"$ref": "#/$defs/percent"},
        "triangle_volume": {"$ref": "#/$defs/percent"},
        "noise_volume": {"$ref": "#/$defs/percent"},
        "dmc_volume": {"$ref": "#/$defs/percent"}
      }
    },
    "video": {
      "type": "object",
      "properties": {
        "video_scale": {"type": "integer", "minimum": 1, "maximum": 6},
        "video_filter": {"enum": ["none", "ntsc", "xbrz", "hq2x", "scale2x"]},
        "aspect_ratio": {"type": "number", "minimum": 0},
        "overscan_left": {"$ref": "#/$defs/uint32"},
        "overscan_right": {"$ref": "#/$defs/uint32"},
        "overscan_top": {"$ref": "#/$defs/uint32"},
        "overscan_bottom": {"$ref": "#/$defs/uint32"}
      }
    },
    "input": {
      "type": "object",
      "properties": {
        "controllers": {
          "type": "array",
          "maxItems": 4,
          "items": {
            "type": "object",
            "properties": {
              "type": {"enum": ["none", "standard", "zapper", "arkanoid"]},
              "turbo_speed": {"type": "integer", "minimum": 0, "maximum": 3},
              "keys": {"type": "object", "additionalProperties": {"type": "string"}}
            }
          }
        }
      }
    },
    "emulation": {
      "type": "object",
      "properties": {
        "emulation_speed": {"type": "integer", "minimum": 0, "maximum": 5000},
        "overclock_rate": {"type": "integer", "minimum": 1, "maximum": 1000},
        "ppu_extra_scanlines_before_nmi": {"type": "integer", "minimum": 0, "maximum": 1000},
        "ppu_extra_scanlines_after_nmi": {"type": "integer", "minimum": 0, "maximum": 1000}
      }
    },
    "client_connection": {
      "type": "object",
      "properties": {
        "host": {"type": "string"},
        "port": {"$ref": "#/$defs/port"}
      }
    },
    "server": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "port": {"$ref": "#/$defs/port"},
        "password": {"type": "string"},
        "max_players": {"type": "integer", "minimum": 1, "maximum": 4}
      }
    },
    "profile": {
      "type": "object",
      "properties": {
        "player_name": {"type": "string", "maxLength": 64},
        "avatar_path": {"type": "string"}
      }
    },
    "debug": {
      "type": "object",
      "properties": {
        "ram_column_count": {"type": "integer", "minimum": 1, "maximum": 64},
        "watch_values": {"type": "array", "items": {"type": "string"}}
      }
    },
    "recent_files": {
      "type": "array",
      "maxItems": 10,
      "items": {
        "type": "object",
        "required": ["path"],
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "rom_name": {"type": "string"},
          "archive_index": {"type": "integer", "minimum": -1}
        }
      }
    },
    "vs_config": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "game_id": {"type": "string"},
          "game_crc": {"type": "string"},
          "dip_switches": {"$ref": "#/$defs/byte"}
        }
      }
    },
    "cheats": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "cheat_type": {"enum": ["game_genie", "pro_action_rocky", "custom"]},
          "pro_action_rocky_code": {"$ref": "#/$defs/uint32"},
          "address": {"type": "integer", "minimum": 0, "maximum": 65535},
          "value": {"$ref": "#/$defs/byte"},
          "compare_value": {"$ref": "#/$defs/byte"}
        }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
		return nil, fmt.Errorf("add settings schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ValidateTOML checks a raw TOML document against Schema. A syntax error is
// returned as a *LoadError of kind LoadParse, violations as a *LoadError of
// kind LoadSchema wrapping a *SchemaError.
func ValidateTOML(data []byte) error {
	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return &LoadError{Kind: LoadParse, Err: err}
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return &LoadError{Kind: LoadParse, Err: fmt.Errorf("convert document for validation: %w", err)}
	}
	if err := validateJSON(jsonData); err != nil {
		return &LoadError{Kind: LoadSchema, Err: err}
	}
	return nil
}

// validateJSON checks a JSON projection of a settings document.
func validateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode document for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		schemaErr := &SchemaError{}
		collectSchemaErrors(schemaErr, ve)
		return schemaErr
	}
	return nil
}

func collectSchemaErrors(result *SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Violations = append(result.Violations, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/recent_files/2/path" into "recent_files[2].path".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
