package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrPresetNotFound is returned when a named battery preset does not exist.
var ErrPresetNotFound = errors.New("battery preset not found")

// Preset is a battery file found in a preset directory.
type Preset struct {
	// ID is the file name without extension, e.g. "2_home_10kwh".
	ID      string
	Path    string
	Battery BatteryConfig
}

// ListPresets loads every *.yaml file in dir, sorted by ID. Files that fail
// to parse are returned in skipped rather than failing the listing.
func ListPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	skipped = map[string]error{}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		b, err := LoadBatteryFile(path)
		if err != nil {
			skipped[entry.Name()] = err
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if b.Name == "" {
			b.Name = id
		}
		presets = append(presets, Preset{ID: id, Path: path, Battery: b})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// LoadPreset loads preset id from dir. The id may carry its .yaml extension
// but must not contain a path separator.
func LoadPreset(dir, id string) (BatteryConfig, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return BatteryConfig{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	name := id
	if !isYAML(name) {
		name += ".yaml"
	}
	b, err := LoadBatteryFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return BatteryConfig{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	return b, err
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
