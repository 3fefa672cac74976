package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var nonWordRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a human message into a filename-safe snake_case name.
func slugify(message string) string {
	s := strings.ToLower(strings.TrimSpace(message))
	s = nonWordRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "migration"
	}
	return s
}

// Scaffold writes an empty up/down pair into dir, numbered one past the
// highest version already present, and returns both paths. floor raises
// the numbering above versions that live elsewhere, such as an embedded
// set already applied to the database. The files are meant to be edited by
// hand before the next upgrade run.
func Scaffold(dir, message string, floor int64) (upPath, downPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create migrations dir: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("read migrations dir: %w", err)
	}
	next := floor + 1
	if next < 1 {
		next = 1
	}
	for _, e := range entries {
		if version, _, _, ok := parseFilename(e.Name()); ok && version >= next {
			next = version + 1
		}
	}

	m := Migration{Version: next, Name: slugify(message)}
	upPath = filepath.Join(dir, m.UpFilename())
	downPath = filepath.Join(dir, m.DownFilename())

	header := fmt.Sprintf("-- %s\n\n", message)
	if err := os.WriteFile(upPath, []byte(header), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", upPath, err)
	}
	if err := os.WriteFile(downPath, []byte(header), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", downPath, err)
	}
	return upPath, downPath, nil
}
