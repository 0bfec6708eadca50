package version

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed specs/*.yaml
var specFS embed.FS

// Manifest describes what a Dash protocol version serves.
type Manifest struct {
	Version     string        `yaml:"version"`
	Description string        `yaml:"description"`
	DataTypes   []EntryDef    `yaml:"data_types"`
	Features    []FeatureDef  `yaml:"features"`
	ErrorCodes  []EntryDef    `yaml:"error_codes"`
}

// EntryDef is a named wire constant.
type EntryDef struct {
	ID   uint32 `yaml:"id"`
	Name string `yaml:"name"`
}

// FeatureDef is a feature with the states it accepts.
type FeatureDef struct {
	ID       uint32   `yaml:"id"`
	Name     string   `yaml:"name"`
	States   []string `yaml:"states"`
	Writable bool     `yaml:"writable"`
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// LoadSpec loads a protocol manifest by version string (e.g. "1.7").
func LoadSpec(ver string) (*Manifest, error) {
	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := specFS.ReadFile("specs/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("protocol version %q not found: %w", ver, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", ver, err)
	}

	cacheMu.Lock()
	cache[ver] = &m
	cacheMu.Unlock()

	return &m, nil
}

// LoadCurrentSpec loads the manifest for the current protocol version.
func LoadCurrentSpec() (*Manifest, error) {
	return LoadSpec(Current)
}

// AvailableSpecs returns the version strings of all embedded manifests.
func AvailableSpecs() ([]string, error) {
	entries, err := specFS.ReadDir("specs")
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// HasDataType reports whether the manifest serves the given data type.
func (m *Manifest) HasDataType(id uint32) bool {
	for _, d := range m.DataTypes {
		if d.ID == id {
			return true
		}
	}
	return false
}

// HasFeature reports whether the manifest serves the given feature type.
func (m *Manifest) HasFeature(id uint32) bool {
	for _, f := range m.Features {
		if f.ID == id {
			return true
		}
	}
	return false
}

// FeatureByID looks up a feature definition by its wire constant.
func (m *Manifest) FeatureByID(id uint32) (*FeatureDef, bool) {
	for i := range m.Features {
		if m.Features[i].ID == id {
			return &m.Features[i], true
		}
	}
	return nil, false
}
