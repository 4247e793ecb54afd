// Package markers inventories NFT marker asset files. The engine never
// parses tracking data; it only needs to know which marker IDs have a
// complete .iset/.fset/.fset3 triplet on disk for the tracker to consume.
package markers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MarkerSet is the trio of tracking-feature files generated for one
// marker image.
type MarkerSet struct {
	ID    string `json:"id"`
	Iset  string `json:"iset,omitempty"`
	Fset  string `json:"fset,omitempty"`
	Fset3 string `json:"fset3,omitempty"`
}

// Complete reports whether all three tracking files are present.
func (m MarkerSet) Complete() bool {
	return m.Iset != "" && m.Fset != "" && m.Fset3 != ""
}

// Missing lists the extensions that are absent from the set.
func (m MarkerSet) Missing() []string {
	var missing []string
	if m.Iset == "" {
		missing = append(missing, ".iset")
	}
	if m.Fset == "" {
		missing = append(missing, ".fset")
	}
	if m.Fset3 == "" {
		missing = append(missing, ".fset3")
	}
	return missing
}

// Scan walks a markers directory and groups tracking files into sets by
// base name. An empty or missing directory yields an empty slice.
func Scan(dir string) ([]MarkerSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []MarkerSet{}, nil
		}
		return nil, fmt.Errorf("failed to read markers directory: %w", err)
	}

	sets := make(map[string]*MarkerSet)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		id := strings.TrimSuffix(name, ext)

		switch ext {
		case ".iset", ".fset", ".fset3":
		default:
			continue
		}

		set, ok := sets[id]
		if !ok {
			set = &MarkerSet{ID: id}
			sets[id] = set
		}
		path := filepath.Join(dir, name)
		switch ext {
		case ".iset":
			set.Iset = path
		case ".fset":
			set.Fset = path
		case ".fset3":
			set.Fset3 = path
		}
	}

	ids := make([]string, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]MarkerSet, 0, len(sets))
	for _, id := range ids {
		result = append(result, *sets[id])
	}
	return result, nil
}

// Find returns the marker set with the given ID from a scan result.
func Find(sets []MarkerSet, id string) (MarkerSet, bool) {
	for _, s := range sets {
		if s.ID == id {
			return s, true
		}
	}
	return MarkerSet{}, false
}
