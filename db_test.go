package netnode

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpen(t *testing.T) {
	dir, err := ioutil.TempDir("", "netnode")
	tassert(t, err == nil, "TempDir err %v", err)
	defer os.RemoveAll(dir)

	db, err := Db{Dir: dir}.Create()
	tassert(t, err == nil, "Create err %v", err)
	tassert(t, db.Depth == 2, "expected default depth 2, got %d", db.Depth)
	tassert(t, db.Algo == "sha256", "expected default algo sha256, got %s", db.Algo)
	tassert(t, db.BlobSize == BlobSize, "expected default blobsize %d, got %d", BlobSize, db.BlobSize)
	tassert(t, db.Poly != 0, "expected a polynomial")

	// config round-trips through config.json
	got, err := Open(dir)
	tassert(t, err == nil, "Open err %v", err)
	tassert(t, got.Depth == db.Depth, "depth mismatch")
	tassert(t, got.Algo == db.Algo, "algo mismatch")
	tassert(t, got.BlobSize == db.BlobSize, "blobsize mismatch")
	tassert(t, got.Poly == db.Poly, "poly mismatch")
}

func TestCreateNonEmpty(t *testing.T) {
	dir, err := ioutil.TempDir("", "netnode")
	tassert(t, err == nil, "TempDir err %v", err)
	defer os.RemoveAll(dir)
	err = ioutil.WriteFile(filepath.Join(dir, "junk"), mkbuf("x"), 0644)
	tassert(t, err == nil, "WriteFile err %v", err)

	_, err = Db{Dir: dir}.Create()
	_, ok := err.(*ExistsError)
	tassert(t, ok, "expected ExistsError, got %v", err)
}

func TestOpenNotDb(t *testing.T) {
	dir, err := ioutil.TempDir("", "netnode")
	tassert(t, err == nil, "TempDir err %v", err)
	defer os.RemoveAll(dir)

	// no config.json here
	_, err = Open(dir)
	_, ok := err.(*NotDbError)
	tassert(t, ok, "expected NotDbError, got %v", err)

	// nor a directory at all
	_, err = Open(filepath.Join(dir, "missing"))
	_, ok = err.(*NotDbError)
	tassert(t, ok, "expected NotDbError, got %v", err)
}

func TestNamespaces(t *testing.T) {
	db := setup(t)
	_, err := db.Node("$ test ns one")
	tassert(t, err == nil, "Node err %v", err)
	_, err = db.Node("$ test ns two")
	tassert(t, err == nil, "Node err %v", err)

	names, err := db.Namespaces()
	tassert(t, err == nil, "Namespaces err %v", err)
	var one, two bool
	for _, name := range names {
		if name == "$ test ns one" {
			one = true
		}
		if name == "$ test ns two" {
			two = true
		}
	}
	tassert(t, one && two, "expected both namespaces in %v", names)
}

func TestBlobRoundTrip(t *testing.T) {
	db := setup(t)
	val := mkbuf("somevalue")
	path, err := db.putBlob(val)
	tassert(t, err == nil, "putBlob err %v", err)
	tassert(t, path.Class == "blob", "class %q", path.Class)
	tassert(t, path.Algo == "sha256", "algo %q", path.Algo)

	got, err := db.getBlob(path)
	tassert(t, err == nil, "getBlob err %v", err)
	tassert(t, string(got) == "somevalue", "expected %q, got %q", val, got)

	// same content gets the same address
	path2, err := db.putBlob(val)
	tassert(t, err == nil, "putBlob err %v", err)
	tassert(t, path.Canon == path2.Canon, "expected %s, got %s", path.Canon, path2.Canon)
}
