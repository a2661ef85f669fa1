package netnode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Path locates a content-addressed blob file in the database.
type Path struct {
	Db    *Db
	Raw   string
	Abs   string // absolute
	Rel   string // relative
	Canon string // canonical
	Class string
	Algo  string
	Hash  string
	Addr  string
}

func (path Path) New(db *Db, raw string) (res *Path, err error) {
	path.Db = db
	path.Raw = raw

	clean := filepath.Clean(raw)

	// remove db.Dir
	index := strings.Index(clean, db.Dir)
	if index == 0 {
		clean = strings.Replace(clean, db.Dir+"/", "", 1)
	}

	// split into parts
	parts := strings.Split(clean, "/")
	if len(parts) < 3 {
		return nil, fmt.Errorf("malformed path: %s", raw)
	}
	path.Class = parts[0]
	path.Algo = parts[1]
	// the last part of the path is always the full hash, regardless
	// of whether we were given the full or canonical path
	path.Hash = parts[len(parts)-1]
	if len(path.Hash) < 3*db.Depth {
		return nil, fmt.Errorf("malformed path: %s", raw)
	}

	// Rel is the relative path including the nesting subdirs
	// described in the Db comments.  The last component is the full
	// hash rather than a truncated remainder, to make troubleshooting
	// with UNIX tools slightly easier.
	var subpath string
	for i := 0; i < db.Depth; i++ {
		subdir := path.Hash[(3 * i):((3 * i) + 3)]
		subpath = filepath.Join(subpath, subdir)
	}
	path.Rel = filepath.Join(path.Class, path.Algo, subpath, path.Hash)
	path.Abs = filepath.Join(db.Dir, path.Rel)
	path.Canon = filepath.Join(path.Class, path.Algo, path.Hash)
	// Addr is a universally-unique address for the data stored at path.
	path.Addr = filepath.Join(path.Algo, path.Hash)

	return &path, nil
}

func (path *Path) header() string {
	return path.Class + "\n"
}
