// Package manifest saves and restores file selections as YAML so a
// partial download can be repeated later or shared.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/hf-downloader/internal/model"
)

// Version is the manifest format version written by Save
const Version = 1

// ErrRepoMismatch is returned when a manifest is applied to another repository's listing
var ErrRepoMismatch = errors.New("manifest belongs to a different repository")

// Manifest is the on-disk form of a selection
type Manifest struct {
	Version  int          `yaml:"version"`
	Repo     model.RepoID `yaml:"repo"`
	Revision string       `yaml:"revision,omitempty"`
	Dataset  bool         `yaml:"dataset,omitempty"`
	SavedAt  time.Time    `yaml:"saved_at"`
	Files    []File       `yaml:"files"`
}

// File is one selected entry
type File struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size,omitempty"`
}

// FromSelection captures the selected entries of sel
func FromSelection(repo model.RepoID, revision string, dataset bool, sel *model.Selection) Manifest {
	m := Manifest{
		Version:  Version,
		Repo:     repo,
		Revision: revision,
		Dataset:  dataset,
		SavedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, e := range sel.Entries() {
		if e.Selected {
			m.Files = append(m.Files, File{Path: e.Path, Size: e.Size})
		}
	}
	return m
}

// Paths returns the selected paths in manifest order
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Apply selects exactly the manifest's files in sel and returns those missing from the listing
func (m Manifest) Apply(repo model.RepoID, sel *model.Selection) ([]string, error) {
	if m.Repo != "" && repo != "" && m.Repo != repo {
		return nil, fmt.Errorf("%w: %s, listing is %s", ErrRepoMismatch, m.Repo, repo)
	}
	return sel.Apply(m.Paths())
}

// Encode renders m as YAML, stamping the current version when unset
func Encode(m Manifest) ([]byte, error) {
	if m.Version == 0 {
		m.Version = Version
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// Save writes m to path as YAML, creating parent directories
func Save(path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads a manifest written by Save
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest YAML
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version > Version {
		return Manifest{}, fmt.Errorf("manifest version %d is newer than supported version %d", m.Version, Version)
	}
	if m.Repo != "" {
		repo, err := model.ParseRepoID(string(m.Repo))
		if err != nil {
			return Manifest{}, fmt.Errorf("manifest repo: %w", err)
		}
		m.Repo = repo
	}
	return m, nil
}
