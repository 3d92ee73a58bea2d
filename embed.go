package coursehub

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

// SeedData contains the datasets the stores start from:
// articles.json, pages.json, settings.json
//
//go:embed seed/*.json
var SeedData embed.FS

// Seed is the initial content of the three stores.
type Seed struct {
	Articles []Article
	Pages    []Page
	Settings Settings
}

// LoadSeed decodes the seed datasets from fsys, which must hold the
// seed/ directory layout of SeedData.
func LoadSeed(fsys fs.FS) (Seed, error) {
	var s Seed
	if err := readJSON(fsys, "seed/articles.json", &s.Articles); err != nil {
		return Seed{}, err
	}
	if err := readJSON(fsys, "seed/pages.json", &s.Pages); err != nil {
		return Seed{}, err
	}
	if err := readJSON(fsys, "seed/settings.json", &s.Settings); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("coursehub: read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("coursehub: decode %s: %w", name, err)
	}
	return nil
}
