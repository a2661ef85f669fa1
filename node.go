package netnode

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// Node is a handle on one namespace in a db.  Conceptually a node
// is a key/value store uniquely identified by its name; by
// convention the names of shared/global nodes start with "$".
//
// Keys are integers or strings.  Values are byte payloads of any
// length; they are zlib-compressed before storage, stored inline in
// the key's slot record when small, and split into content-addressed
// chunk blobs when large.  Readers reassemble chunked values
// transparently.
type Node struct {
	Db   *Db
	Name string
	dir  string
}

// Node returns a handle on the named namespace, creating its
// directories if needed.
func (db *Db) Node(name string) (node *Node, err error) {
	defer Return(&err)
	node = &Node{Db: db, Name: name}
	node.dir = filepath.Join(db.Dir, "node", url.PathEscape(name))
	err = node.mktables()
	Ck(err)
	return
}

func (node *Node) mktables() (err error) {
	defer Return(&err)
	// one dir per lookup table: sup for integer keys, hash for
	// string keys
	err = mkdir(filepath.Join(node.dir, "sup"))
	Ck(err)
	err = mkdir(filepath.Join(node.dir, "hash"))
	Ck(err)
	return
}

func (node *Node) slotPath(key Key) (fn string, err error) {
	defer Return(&err)
	name, err := key.slotName()
	Ck(err)
	return filepath.Join(node.dir, key.table(), name), nil
}

// Set stores val under key, replacing any previous value.  The slot
// record is written atomically, so readers in other processes see
// either the old value or the new one, never a mix.
func (node *Node) Set(key Key, val []byte) (err error) {
	defer Return(&err)

	z, err := compress(val)
	Ck(err)

	rec := &record{Size: int64(len(val)), CSize: int64(len(z))}
	if len(z) <= node.Db.BlobSize {
		rec.Inline = z
	} else {
		rec.Chunks, err = node.putChunks(z)
		Ck(err)
	}

	buf, err := rec.encode()
	Ck(err)
	fn, err := node.slotPath(key)
	Ck(err)
	err = renameio.WriteFile(fn, buf, 0644)
	Ck(err)
	log.Debugf("set %s %s size %d csize %d chunks %d",
		node.Name, key, rec.Size, rec.CSize, len(rec.Chunks))
	return
}

// putChunks splits z with the rabin chunker and stores each chunk as
// a blob, returning the ordered manifest of chunk canpaths.
func (node *Node) putChunks(z []byte) (canpaths []string, err error) {
	defer Return(&err)

	rab, err := Rabin{Poly: node.Db.Poly, MinSize: node.Db.MinSize, MaxSize: node.Db.MaxSize}.Init()
	Ck(err)
	rab.Start(bytes.NewReader(z))

	buf := make([]byte, rab.MaxSize+1)
	for {
		chunk, err := rab.Next(buf)
		if errors.Cause(err) == io.EOF {
			break
		}
		Ck(err)
		path, err := node.Db.putBlob(chunk.Data)
		Ck(err)
		log.Debugf("chunk %s len %d", path.Canon, chunk.Length)
		canpaths = append(canpaths, path.Canon)
	}
	return
}

func (node *Node) getRecord(key Key) (rec *record, err error) {
	fn, err := node.slotPath(key)
	if err != nil {
		return
	}
	buf, err := ioutil.ReadFile(fn)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Key: key}
	}
	if err != nil {
		return
	}
	return decodeRecord(buf)
}

// Get returns the value stored under key.  A missing key returns
// NotFoundError; a slot whose chunks can't be reassembled returns
// CorruptError.
func (node *Node) Get(key Key) (val []byte, err error) {
	defer Return(&err)

	rec, err := node.getRecord(key)
	if err != nil {
		// pass NotFoundError through unwrapped
		return nil, err
	}

	var z []byte
	if len(rec.Chunks) > 0 {
		for _, canon := range rec.Chunks {
			path, err := Path{}.New(node.Db, canon)
			Ck(err)
			buf, err := node.Db.getBlob(path)
			if err != nil {
				return nil, &CorruptError{Key: key, Addr: canon}
			}
			z = append(z, buf...)
		}
	} else {
		z = rec.Inline
	}
	if int64(len(z)) != rec.CSize {
		return nil, &CorruptError{Key: key}
	}

	val, err = decompress(z)
	if err != nil {
		return nil, &CorruptError{Key: key}
	}
	if int64(len(val)) != rec.Size {
		return nil, &CorruptError{Key: key}
	}
	return
}

// GetDefault returns the value stored under key, or def when the key
// is missing or its value can't be read.
func (node *Node) GetDefault(key Key, def []byte) []byte {
	val, err := node.Get(key)
	if err != nil {
		return def
	}
	return val
}

// Has reports whether key has a readable value in the node.
func (node *Node) Has(key Key) bool {
	_, err := node.Get(key)
	return err == nil
}

// Del removes key from the node.  Chunk blobs are content-addressed
// and may be shared, so they are left in place.
func (node *Node) Del(key Key) (err error) {
	fn, err := node.slotPath(key)
	if err != nil {
		return
	}
	err = os.Remove(fn)
	if os.IsNotExist(err) {
		return &NotFoundError{Key: key}
	}
	return
}

// Keys lists all keys in the node: integer keys in ascending order
// first, then string keys in lexicographic order.
func (node *Node) Keys() (keys []Key, err error) {
	defer Return(&err)

	files, err := ioutil.ReadDir(filepath.Join(node.dir, "sup"))
	Ck(err)
	var intkeys []Key
	for _, fi := range files {
		key, err := intKeyFromSlot(fi.Name())
		Ck(err)
		intkeys = append(intkeys, key)
	}
	sort.Slice(intkeys, func(i, j int) bool {
		return intkeys[i].Num < intkeys[j].Num
	})

	files, err = ioutil.ReadDir(filepath.Join(node.dir, "hash"))
	Ck(err)
	var strkeys []Key
	for _, fi := range files {
		key, err := strKeyFromSlot(fi.Name())
		Ck(err)
		strkeys = append(strkeys, key)
	}
	sort.Slice(strkeys, func(i, j int) bool {
		return strkeys[i].Str < strkeys[j].Str
	})

	keys = append(intkeys, strkeys...)
	return
}

// Values lists all values in the node, in the same order as Keys().
func (node *Node) Values() (vals [][]byte, err error) {
	defer Return(&err)
	keys, err := node.Keys()
	Ck(err)
	for _, key := range keys {
		val, err := node.Get(key)
		Ck(err)
		vals = append(vals, val)
	}
	return
}

// Item is one key/value pair.
type Item struct {
	Key Key
	Val []byte
}

// Items lists all key/value pairs in the node, in the same order as
// Keys().
func (node *Node) Items() (items []Item, err error) {
	defer Return(&err)
	keys, err := node.Keys()
	Ck(err)
	for _, key := range keys {
		val, err := node.Get(key)
		Ck(err)
		items = append(items, Item{Key: key, Val: val})
	}
	return
}

// Len returns the number of keys in the node.
func (node *Node) Len() (n int, err error) {
	keys, err := node.Keys()
	if err != nil {
		return
	}
	return len(keys), nil
}

// Kill destroys the namespace contents and recreates it empty.
func (node *Node) Kill() (err error) {
	defer Return(&err)
	err = os.RemoveAll(node.dir)
	Ck(err)
	err = node.mktables()
	Ck(err)
	return
}

// SetJSON stores the JSON encoding of v under key.
func (node *Node) SetJSON(key Key, v interface{}) (err error) {
	defer Return(&err)
	buf, err := json.Marshal(v)
	Ck(err)
	return node.Set(key, buf)
}

// GetJSON decodes the value stored under key into v.
func (node *Node) GetJSON(key Key, v interface{}) (err error) {
	defer Return(&err)
	buf, err := node.Get(key)
	Ck(err)
	return json.Unmarshal(buf, v)
}
