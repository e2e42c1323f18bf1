package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hydroguard/hydroguard/internal/errors"
)

type valueKind int

const (
	kindBool valueKind = iota
	kindInt
	kindString
	kindDuration
)

// settableKeys lists the dotted keys accepted by SetValue.
var settableKeys = map[string]valueKind{
	"sensor.enabled":          kindBool,
	"sensor.endpoint":         kindString,
	"sensor.timeout":          kindDuration,
	"monitor.interval":        kindDuration,
	"monitor.threshold":       kindInt,
	"monitor.history_size":    kindInt,
	"discovery.scan_delay":    kindDuration,
	"discovery.connect_delay": kindDuration,
	"log.file":                kindString,
}

// SettableKeys returns the keys SetValue accepts, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal renders cfg as YAML with two-space indentation.
// Durations are written in their string form (3s, 1m30s).
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save validates cfg and writes it to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	return writeFile(path, data)
}

// SetValue updates a single dotted key (e.g. monitor.threshold) in the config
// file at path. It preserves the existing YAML structure and comments. When
// the file does not exist it is created from defaults first. The result must
// pass Validate or nothing is written.
func SetValue(path, key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Valid keys: "+strings.Join(SettableKeys(), ", "))
	}

	scalar, err := scalarNode(kind, value)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid value for %s: %q", key, value),
			hintFor(kind))
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = Marshal(DefaultConfig())
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse as yaml.Node to preserve structure
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	parent := docNode
	for _, section := range parts[:len(parts)-1] {
		child := findMapValue(parent, section)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			parent.Content = append(parent.Content, strNode(section), child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a mapping in config", section)
		}
		parent = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(parent, leaf); existing != nil {
		existing.Kind = scalar.Kind
		existing.Tag = scalar.Tag
		existing.Value = scalar.Value
		existing.Style = 0
	} else {
		parent.Content = append(parent.Content, strNode(leaf), scalar)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(buf.Bytes(), cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Config would not parse after the update",
			"Fix the file by hand, then try again")
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	return writeFile(path, buf.Bytes())
}

func scalarNode(kind valueKind, value string) (*yaml.Node, error) {
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		return strNode(d.String()), nil
	default:
		return strNode(value), nil
	}
}

func hintFor(kind valueKind) string {
	switch kind {
	case kindBool:
		return "Use true or false"
	case kindInt:
		return "Use a whole number"
	case kindDuration:
		return "Use a duration like 3s or 500ms"
	default:
		return "Quote the value if it contains spaces"
	}
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create config directory "+dir,
				"Check directory permissions")
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file "+path,
			"Check file permissions")
	}
	return nil
}
