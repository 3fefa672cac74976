// Package migrate applies ordered, reversible SQL migrations against a
// relational database, tracking applied versions in a schema table.
package migrate

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Migration is one versioned schema change: an up script and its reverse.
type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Checksum returns the hex MD5 of the up script. It is stored alongside the
// version so that editing an already-applied migration is detected.
func (m Migration) Checksum() string {
	sum := md5.Sum([]byte(m.UpSQL))
	return hex.EncodeToString(sum[:])
}

// UpFilename returns the canonical filename of the up script.
func (m Migration) UpFilename() string {
	return fmt.Sprintf("%04d_%s.up.sql", m.Version, m.Name)
}

// DownFilename returns the canonical filename of the down script.
func (m Migration) DownFilename() string {
	return fmt.Sprintf("%04d_%s.down.sql", m.Version, m.Name)
}

// Record is a row of the version table.
type Record struct {
	Version   int64     `db:"version"`
	Name      string    `db:"name"`
	Checksum  string    `db:"checksum"`
	AppliedAt time.Time `db:"applied_at"`
}

// filenameRe matches NNNN_name.up.sql / NNNN_name.down.sql.
var filenameRe = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// parseFilename splits a migration filename into version, name and
// direction. ok is false for files that are not migration scripts.
func parseFilename(filename string) (version int64, name, direction string, ok bool) {
	m := filenameRe.FindStringSubmatch(filename)
	if m == nil {
		return 0, "", "", false
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || v <= 0 {
		return 0, "", "", false
	}
	return v, m[2], m[3], true
}
