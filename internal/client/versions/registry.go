// Package versions groups a flat list of file records into per-filename
// version histories, newest first. A Registry is a read-only projection
// rebuilt from every listing; it never mutates the records it receives.
package versions

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
)

// Registry maps filename to its versions, sorted by version descending.
type Registry struct {
	groups map[string][]models.FileRecord
}

// Group builds a Registry from records of a single owner.
func Group(records []models.FileRecord) *Registry {
	groups := make(map[string][]models.FileRecord)
	for _, r := range records {
		groups[r.Filename] = append(groups[r.Filename], r)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Version > g[j].Version })
	}
	return &Registry{groups: groups}
}

// Filenames returns the grouped filenames in lexical order.
func (r *Registry) Filenames() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns all versions of filename, newest first, or nil.
func (r *Registry) Versions(filename string) []models.FileRecord {
	g := r.groups[filename]
	if g == nil {
		return nil
	}
	out := make([]models.FileRecord, len(g))
	copy(out, g)
	return out
}

// Current returns the highest version of filename.
func (r *Registry) Current(filename string) (models.FileRecord, bool) {
	g := r.groups[filename]
	if len(g) == 0 {
		return models.FileRecord{}, false
	}
	return g[0], true
}

// History returns every version of filename except the current one.
func (r *Registry) History(filename string) []models.FileRecord {
	g := r.groups[filename]
	if len(g) < 2 {
		return nil
	}
	out := make([]models.FileRecord, len(g)-1)
	copy(out, g[1:])
	return out
}

// Version looks up one specific version of filename.
func (r *Registry) Version(filename string, version int) (models.FileRecord, bool) {
	for _, rec := range r.groups[filename] {
		if rec.Version == version {
			return rec, true
		}
	}
	return models.FileRecord{}, false
}

// Remove drops every version of filename and reports whether it existed.
func (r *Registry) Remove(filename string) bool {
	if _, ok := r.groups[filename]; !ok {
		return false
	}
	delete(r.groups, filename)
	return true
}

// Len is the number of distinct filenames.
func (r *Registry) Len() int {
	return len(r.groups)
}

// Conflicts returns an error wrapping common.ErrVersionConflict when some
// filename carries the same version twice, or nil.
func (r *Registry) Conflicts() error {
	var dup []string
	for _, name := range r.Filenames() {
		g := r.groups[name]
		for i := 1; i < len(g); i++ {
			if g[i].Version == g[i-1].Version {
				dup = append(dup, name)
				break
			}
		}
	}
	if len(dup) == 0 {
		return nil
	}
	return fmt.Errorf("%w: duplicate versions for %v", common.ErrVersionConflict, dup)
}
