// Package store persists checklist documents on disk. A checklist file
// is the single source of truth for a run: every completed step writes
// the whole document back, so a reader at any moment sees a consistent
// snapshot. JSON and YAML are both supported, selected by file
// extension.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chainrun/chainrun/internal/model"
)

// Load reads and decodes the checklist at path. The codec is chosen by
// extension: .json, .yaml, or .yml.
func Load(path string) (*model.Checklist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist: %w", err)
	}

	var list model.Checklist
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode checklist %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode checklist %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("checklist %s: unsupported extension %q", path, ext)
	}
	return &list, nil
}

// Save encodes the checklist and writes it to path atomically: the
// document lands in a temporary file in the same directory and is
// renamed over the target, so a crash mid-write never truncates the
// checklist.
func Save(path string, list *model.Checklist) error {
	var (
		raw []byte
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		raw, err = json.MarshalIndent(list, "", "  ")
		if err == nil {
			raw = append(raw, '\n')
		}
	case ".yaml", ".yml":
		raw, err = yaml.Marshal(list)
	default:
		return fmt.Errorf("checklist %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("encode checklist: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write checklist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	return nil
}

// Discover recursively lists every checklist document under root,
// matching on the supported extensions.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover checklists: %w", err)
	}
	return paths, nil
}
