package netnode

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// WORM is a write-once read-many blob file.  Writes go to a
// temporary file while feeding a hash digest; Close() renames the
// temporary file into its content address and makes it read-only.
type WORM struct {
	Db *Db
	*Path
	fh       *os.File
	hash     hash.Hash
	writable bool
}

func CreateWORM(db *Db, class string, algo string) (file *WORM, err error) {
	defer Return(&err)
	file = &WORM{Db: db, writable: true}
	// we don't call Path.New() here 'cause we don't know the hash yet
	file.Path = &Path{Class: class, Algo: algo}
	switch algo {
	case "sha256":
		file.hash = sha256.New()
	case "sha512":
		file.hash = sha512.New()
	default:
		return nil, fmt.Errorf("%w: %s", syscall.ENOSYS, algo)
	}
	file.fh, err = db.tmpFile()
	Ck(err)
	// write file header
	header := []byte(file.header())
	n, err := file.fh.Write(header)
	Ck(err)
	Assert(n == len(header))
	// add header to hash data to help keep us from accidentally
	// writing a cryptographic hash reverser
	n, err = file.hash.Write(header)
	Ck(err)
	Assert(n == len(header))
	return
}

func OpenWORM(db *Db, path *Path) (file *WORM, err error) {
	defer Return(&err)
	file = &WORM{Db: db, Path: path}
	ErrnoIf(len(path.Abs) == 0, syscall.EINVAL, "empty path")
	ErrnoIf(!exists(path.Abs), syscall.ENOENT, "not found: %s", path.Abs)
	file.fh, err = os.Open(path.Abs)
	Ck(err)
	// strip file header
	header := file.header()
	buf := make([]byte, len(header))
	n, err := file.fh.Read(buf)
	Ck(err)
	if n != len(header) || string(buf) != header {
		return nil, fmt.Errorf("malformed header: %q file: %s", string(buf), path.Abs)
	}
	return
}

func (file *WORM) Close() (err error) {
	defer Return(&err)
	if !file.writable {
		if file.fh == nil {
			return
		}
		// no err check needed because readonly
		file.fh.Close()
		file.fh = nil
		return
	}
	Assert(file.fh != nil, "writable file handle is nil: %#v", file.Path)

	// this one was writable, so check err
	err = file.fh.Close()
	Ck(err)

	// finish computing hash
	hexhash := bin2hex(file.hash.Sum(nil))

	// now that we know what the data's hash is, we can replace the
	// temporary Path with the permanent one
	Assert(file.Path.Class != "")
	Assert(file.Path.Algo != "")
	canpath := fmt.Sprintf("%s/%s/%s", file.Path.Class, file.Path.Algo, hexhash)
	path, err := Path{}.New(file.Db, canpath)
	Ck(err)

	// make sure subdirs exist
	dir, _ := filepath.Split(path.Abs)
	err = os.MkdirAll(dir, 0755)
	Ck(err)

	// rename temp file to permanent blob file
	err = os.Rename(file.fh.Name(), path.Abs)
	Ck(err)
	err = os.Chmod(path.Abs, 0444)
	Ck(err)

	log.Debugf("worm close %s", path.Canon)
	file.Path = path
	file.fh = nil
	file.writable = false
	return
}

// Read reads from the file body and puts the data into `buf`,
// returning n as the number of bytes read.  Supports the io.Reader
// interface.  The file header is not part of the body.
func (file *WORM) Read(buf []byte) (n int, err error) {
	return file.fh.Read(buf)
}

func (file *WORM) ReadAll() (buf []byte, err error) {
	for {
		b := make([]byte, 4096)
		n, err := file.fh.Read(b)
		if errors.Cause(err) == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		buf = append(buf, b[:n]...)
	}
	return
}

// Size returns the length of the file body, not counting the header.
func (file *WORM) Size() (n int64, err error) {
	info, err := os.Stat(file.Path.Abs)
	if err != nil {
		return
	}
	n = info.Size() - int64(len(file.header()))
	return
}

// Write takes data from `data` and puts it into the temporary file,
// feeding the hash digest along the way.  Large blobs can be written
// using multiple Write() calls.  Supports the io.Writer interface.
func (file *WORM) Write(data []byte) (n int, err error) {
	if !file.writable {
		err = fmt.Errorf("cannot write to existing object: %s", file.Path.Abs)
		return
	}

	// add data to hash digest
	n, err = file.hash.Write(data)
	if err != nil {
		return
	}

	// write data to disk file
	n, err = file.fh.Write(data)
	if err != nil {
		return
	}

	return
}
