package migrate

import (
	"fmt"
	"io/fs"
	"sort"
)

// Source is an ordered set of migrations loaded from a filesystem. The
// embedded browseterm schema and scaffolded on-disk directories both load
// through here.
type Source struct {
	migrations []Migration
}

// LoadSource reads every migration pair under dir in fsys. Pass "." for the
// filesystem root. A duplicate version, an up script without a down script,
// or vice versa, is an error: half a pair means somebody forgot to write
// the reverse.
func LoadSource(fsys fs.FS, dir string) (*Source, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	type pair struct {
		name string
		up   string
		down string
	}
	pairs := make(map[int64]*pair)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, direction, ok := parseFilename(e.Name())
		if !ok {
			continue
		}
		p, exists := pairs[version]
		if !exists {
			p = &pair{name: name}
			pairs[version] = p
		} else if p.name != name {
			return nil, fmt.Errorf("version %d has conflicting names %q and %q", version, p.name, name)
		}

		path := e.Name()
		if dir != "." {
			path = dir + "/" + path
		}
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		switch direction {
		case "up":
			if p.up != "" {
				return nil, fmt.Errorf("duplicate up script for version %d", version)
			}
			p.up = string(b)
		case "down":
			if p.down != "" {
				return nil, fmt.Errorf("duplicate down script for version %d", version)
			}
			p.down = string(b)
		}
	}

	migrations := make([]Migration, 0, len(pairs))
	for version, p := range pairs {
		if p.up == "" {
			return nil, fmt.Errorf("version %d (%s) has no up script", version, p.name)
		}
		if p.down == "" {
			return nil, fmt.Errorf("version %d (%s) has no down script", version, p.name)
		}
		migrations = append(migrations, Migration{
			Version: version,
			Name:    p.name,
			UpSQL:   p.up,
			DownSQL: p.down,
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return &Source{migrations: migrations}, nil
}

// Migrations returns the migrations in ascending version order.
func (s *Source) Migrations() []Migration {
	return s.migrations
}

// Get returns the migration with the given version.
func (s *Source) Get(version int64) (Migration, bool) {
	for _, m := range s.migrations {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}

// MaxVersion returns the highest declared version, or 0 for an empty set.
func (s *Source) MaxVersion() int64 {
	if len(s.migrations) == 0 {
		return 0
	}
	return s.migrations[len(s.migrations)-1].Version
}
