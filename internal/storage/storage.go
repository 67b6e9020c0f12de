// Package storage reads and writes diagram files. Two on-disk formats are
// supported, JSON and YAML, selected by file extension. The payload is the
// diagram snapshot: classes in insertion order plus the relationship list.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapuml/internal/model"
)

// Format identifies an on-disk diagram encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat maps a file path to its encoding. Unknown extensions default
// to JSON, the original and most common diagram format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Save writes the snapshot to path, creating parent directories as needed.
// The format follows the file extension.
func Save(path string, snap model.Snapshot) error {
	data, err := Marshal(snap, DetectFormat(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating diagram directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing diagram file: %w", err)
	}
	return nil
}

// Load reads a diagram file and validates its contents by replaying it onto
// a fresh diagram. The returned snapshot is safe to feed to Replay.
func Load(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading diagram file: %w", err)
	}
	snap, err := Unmarshal(data, DetectFormat(path))
	if err != nil {
		return model.Snapshot{}, err
	}
	// Replaying onto a scratch diagram catches duplicate names, invalid
	// identifiers, and dangling relationship endpoints before the caller
	// touches a live session.
	if err := Replay(model.New(nil), snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("invalid diagram file %s: %w", path, err)
	}
	return snap, nil
}

// Marshal encodes a snapshot in the given format.
func Marshal(snap model.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("encoding diagram as yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding diagram as json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Unmarshal decodes a snapshot from the given format.
func Unmarshal(data []byte, format Format) (model.Snapshot, error) {
	var snap model.Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return model.Snapshot{}, fmt.Errorf("decoding diagram yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &snap); err != nil {
			return model.Snapshot{}, fmt.Errorf("decoding diagram json: %w", err)
		}
	}
	return snap, nil
}

// Replay clears the diagram and rebuilds it from the snapshot, classes first
// so relationship endpoints resolve. Attached observers see the rebuild as a
// stream of ordinary change notifications.
func Replay(d *model.Diagram, snap model.Snapshot) error {
	d.Clear()
	for _, cls := range snap.Classes {
		if err := d.InsertClass(cls, -1); err != nil {
			return err
		}
	}
	for _, r := range snap.Relationships {
		if err := d.AddRelationship(r.Source, r.Destination, r.Kind); err != nil {
			return err
		}
	}
	return nil
}

// LoadInto loads path and replays it onto d. The snapshot is validated on a
// scratch diagram first, so a bad file never leaves d half-loaded.
func LoadInto(d *model.Diagram, path string) error {
	snap, err := Load(path)
	if err != nil {
		return err
	}
	return Replay(d, snap)
}
