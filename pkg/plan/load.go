package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is the plan file looked up in the working directory when none is given.
const FileName = "hostprep.yaml"

// BuiltinSource is reported as the source of the default plan.
const BuiltinSource = "builtin"

// Load reads a plan file (YAML or JSON) and overlays it on Default.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	p := Default()
	if err := decode(raw, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// Resolve picks the plan for a working directory.
// An explicit path wins; otherwise dir/hostprep.yaml is used if present, else Default.
// It also returns where the plan came from.
func Resolve(dir, explicit string) (*Plan, string, error) {
	if explicit != "" {
		p, err := Load(explicit)
		return p, explicit, err
	}

	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		p, err := Load(candidate)
		return p, candidate, err
	}

	return Default(), BuiltinSource, nil
}

// Override applies "dotted.key=value" assignments to p.
// Values are weakly typed: "false" sets a bool and "a,b" sets a list.
func Override(p *Plan, sets []string) error {
	if len(sets) == 0 {
		return nil
	}

	raw := map[string]any{}
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid override %q: expected key=value", set)
		}
		insert(raw, strings.Split(key, "."), value)
	}

	if err := decode(raw, p); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	return nil
}

// Marshal renders the plan as YAML.
func Marshal(p *Plan) ([]byte, error) {
	return yaml.Marshal(p)
}

func insert(m map[string]any, path []string, value string) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[path[0]] = child
	}
	insert(child, path[1:], value)
}

// decode overlays raw on p. Lists given in raw replace the defaults instead of merging index by index.
func decode(raw map[string]any, p *Plan) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		ZeroFields:       true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
