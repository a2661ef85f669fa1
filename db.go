package netnode

import (
	"encoding/json"
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	resticRabin "github.com/restic/chunker"
	. "github.com/stevegt/goadapt"
)

// BlobSize is the default inline-value threshold: a value whose
// compressed form is larger than this many bytes is split into
// chunk blobs instead of being stored inline in its slot record.
const BlobSize = 1024

// Db is a netnode database.  Dir is the base directory.  Depth is
// the number of subdirectory levels in the blob dir.  We use
// three-character hexadecimal names for the subdirectories, giving
// us a maximum of 4096 subdirs in a parent dir -- that's a sweet
// spot.  Two-character names (such as what git uses under
// .git/objects) only allow for 256 subdirs, which is unnecessarily
// small.  Four-character names would give us 65,536 subdirs, which
// would cause performance issues on e.g. ext4.
type Db struct {
	Dir      string          // base of tree
	Depth    int             // number of subdir levels in the blob dir
	Algo     string          // hash algorithm for blob addresses
	BlobSize int             // inline-value threshold
	Poly     resticRabin.Pol // rabin polynomial for chunking
	MinSize  uint            // minimum chunk size
	MaxSize  uint            // maximum chunk size
}

// Open loads an existing db object from dir.
func Open(dir string) (db *Db, err error) {
	dir = filepath.Clean(dir)

	if !canstat(dir) {
		return nil, &NotDbError{Dir: dir}
	}

	// load config
	buf, err := ioutil.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, &NotDbError{Dir: dir}
	}
	db = &Db{}
	err = json.Unmarshal(buf, db)
	if err != nil {
		return
	}

	return
}

// Create initializes a db directory and its contents.
func (db Db) Create() (out *Db, err error) {
	defer Return(&err)

	dir := db.Dir

	// if directory exists, make sure it's empty
	if canstat(dir) {
		var files []os.FileInfo
		files, err = ioutil.ReadDir(dir)
		if len(files) > 0 {
			return nil, &ExistsError{Dir: dir}
		}
		Ck(err)
	}

	if db.Depth < 1 {
		db.Depth = 2
	}
	if db.Algo == "" {
		db.Algo = "sha256"
	}
	if db.BlobSize < 1 {
		db.BlobSize = BlobSize
	}

	err = mkdir(dir)
	Ck(err)

	// the blob dir is where we store hashed value chunks
	err = mkdir(filepath.Join(dir, "blob"))
	Ck(err)

	// the node dir holds one subdir per namespace
	err = mkdir(filepath.Join(dir, "node"))
	Ck(err)

	if db.Poly == 0 {
		db.Poly, err = resticRabin.RandomPolynomial()
		Ck(err)
	}

	buf, err := json.Marshal(db)
	Ck(err)
	err = ioutil.WriteFile(filepath.Join(dir, "config.json"), buf, 0644)
	Ck(err)

	return &db, nil
}

func (db *Db) tmpFile() (fh *os.File, err error) {
	return ioutil.TempFile(db.Dir, "*")
}

// Namespaces lists the names of all nodes that exist in the db.
func (db *Db) Namespaces() (names []string, err error) {
	defer Return(&err)
	files, err := ioutil.ReadDir(filepath.Join(db.Dir, "node"))
	Ck(err)
	for _, fi := range files {
		name, err := url.PathUnescape(fi.Name())
		Ck(err)
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// putBlob hashes buf, stores it in a blob file named after the
// hash, and returns the blob path.
func (db *Db) putBlob(buf []byte) (path *Path, err error) {
	defer Return(&err)

	Assert(db != nil, "db is nil")

	file, err := CreateWORM(db, "blob", db.Algo)
	Ck(err)

	n, err := file.Write(buf)
	Ck(err)
	Assert(n == len(buf), "short write")
	err = file.Close()
	Ck(err)

	return file.Path, nil
}

// getBlob retrieves an entire blob into buf by reading its file
// contents.
func (db *Db) getBlob(path *Path) (buf []byte, err error) {
	file, err := OpenWORM(db, path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return file.ReadAll()
}
