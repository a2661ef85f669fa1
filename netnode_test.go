package netnode

import (
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"testing"

	. "github.com/stevegt/goadapt"
)

// test boolean condition
func tassert(t *testing.T, cond bool, txt string, args ...interface{}) {
	t.Helper() // cause file:line info to show caller
	if !cond {
		t.Fatalf(txt, args...)
	}
}

var testDbDir string

func newdb(db *Db) *Db {

	if db == nil {
		db = &Db{}
	}

	// create Dir if needed
	// (if db.Dir is already set, then assume the caller has done mkdir)
	var err error
	if db.Dir == "" {
		db.Dir, err = ioutil.TempDir("", "netnode")
		Ck(err)
	}
	db, err = db.Create()
	Ck(err)

	testDbDir = db.Dir
	return db
}

func setup(t *testing.T) (db *Db) {
	db, err := Open(testDbDir)
	if err != nil {
		log.Printf("db err: %v", err)
		t.Fatal(err)
	}
	tassert(t, db != nil, "db is nil")
	return
}

// setupnode returns a handle on a throwaway namespace in the shared
// test db.
func setupnode(t *testing.T, ns string) (node *Node) {
	db := setup(t)
	node, err := db.Node(ns)
	if err != nil {
		t.Fatal(err)
	}
	err = node.Kill()
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestMain(m *testing.M) {
	newdb(nil)
	rc := m.Run()
	if rc == 0 {
		os.RemoveAll(testDbDir)
	}
	os.Exit(rc)
}

func mkbuf(s string) []byte {
	tmp := []byte(s)
	return tmp
}

// randbuf returns n bytes of deterministic pseudorandom (and so
// incompressible) data.
func randbuf(seed int64, n int) []byte {
	rnd := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	_, err := rnd.Read(buf)
	Ck(err)
	return buf
}

func TestHash(t *testing.T) {
	val := mkbuf("somevalue")
	binhash, err := Hash("sha256", val)
	if err != nil {
		t.Fatal(err)
	}
	hexhash := bin2hex(binhash)
	expect := "70a524688ced8e45d26776fd4dc56410725b566cd840c044546ab30c4b499342"
	tassert(t, expect == hexhash, "expected %q got %q", expect, hexhash)

	_, err = Hash("foobar", val)
	if err == nil {
		t.Fatal("expected error, received none")
	}
}

func TestGetGID(t *testing.T) {
	n := GetGID()
	if n == 0 {
		t.Fatalf("oh no n is 0")
	}
}
