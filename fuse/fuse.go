// Package fuse exposes a netnode db as a read-only filesystem:
// namespaces are directories, each holding its two lookup tables,
// and keys are files whose content is the stored value.
package fuse

import (
	"context"
	"net/url"
	"strconv"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
	nn "github.com/t7a/netnode"
)

// root

type fsRoot struct {
	fs.Inode
	db *nn.Db
}

var _ = (fs.NodeReaddirer)((*fsRoot)(nil))
var _ = (fs.NodeLookuper)((*fsRoot)(nil))

func (root *fsRoot) Readdir(ctx context.Context) (stream fs.DirStream, errno syscall.Errno) {
	defer Unpanic(&errno, msglog)
	names, err := root.db.Namespaces()
	Ck(err)
	var entries []fuse.DirEntry
	for _, name := range names {
		entries = append(entries, fuse.DirEntry{
			Mode: syscall.S_IFDIR,
			Name: url.PathEscape(name),
		})
	}
	return fs.NewListDirStream(entries), 0
}

func (root *fsRoot) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (child *fs.Inode, errno syscall.Errno) {
	defer Unpanic(&errno, msglog)
	ns, err := url.PathUnescape(name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	// db.Node() creates missing namespaces; don't do that through a
	// read-only view
	names, err := root.db.Namespaces()
	Ck(err)
	found := false
	for _, n := range names {
		if n == ns {
			found = true
			break
		}
	}
	if !found {
		return nil, syscall.ENOENT
	}
	node, err := root.db.Node(ns)
	Ck(err)
	child = root.NewInode(
		ctx,
		&nsNode{node: node},
		fs.StableAttr{Mode: syscall.S_IFDIR},
	)
	return child, 0
}

// namespace

type nsNode struct {
	fs.Inode
	node *nn.Node
}

var _ = (fs.NodeReaddirer)((*nsNode)(nil))
var _ = (fs.NodeLookuper)((*nsNode)(nil))

func (n *nsNode) Readdir(ctx context.Context) (stream fs.DirStream, errno syscall.Errno) {
	entries := []fuse.DirEntry{
		{Mode: syscall.S_IFDIR, Name: "sup"},
		{Mode: syscall.S_IFDIR, Name: "hash"},
	}
	return fs.NewListDirStream(entries), 0
}

func (n *nsNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (child *fs.Inode, errno syscall.Errno) {
	if name != "sup" && name != "hash" {
		return nil, syscall.ENOENT
	}
	child = n.NewInode(
		ctx,
		&tableNode{node: n.node, ints: name == "sup"},
		fs.StableAttr{Mode: syscall.S_IFDIR},
	)
	return child, 0
}

// lookup table: sup holds integer keys, hash holds string keys

type tableNode struct {
	fs.Inode
	node *nn.Node
	ints bool
}

var _ = (fs.NodeReaddirer)((*tableNode)(nil))
var _ = (fs.NodeLookuper)((*tableNode)(nil))

// fileName maps a key to its directory entry name.  Integer keys
// show as decimal; string keys are escaped so any key is a safe
// file name.
func fileName(key nn.Key) string {
	if key.IsNum {
		return strconv.FormatInt(key.Num, 10)
	}
	return url.PathEscape(key.Str)
}

func (n *tableNode) key(name string) (key nn.Key, err error) {
	if n.ints {
		num, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return key, err
		}
		return nn.IntKey(num), nil
	}
	s, err := url.PathUnescape(name)
	if err != nil {
		return
	}
	return nn.StrKey(s), nil
}

func (n *tableNode) Readdir(ctx context.Context) (stream fs.DirStream, errno syscall.Errno) {
	defer Unpanic(&errno, msglog)
	keys, err := n.node.Keys()
	Ck(err)
	var entries []fuse.DirEntry
	for _, key := range keys {
		if key.IsNum != n.ints {
			continue
		}
		entries = append(entries, fuse.DirEntry{
			Mode: syscall.S_IFREG,
			Name: fileName(key),
		})
	}
	return fs.NewListDirStream(entries), 0
}

func (n *tableNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (child *fs.Inode, errno syscall.Errno) {
	key, err := n.key(name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	if !n.node.Has(key) {
		return nil, syscall.ENOENT
	}
	child = n.NewInode(
		ctx,
		&valueNode{node: n.node, k: key},
		fs.StableAttr{Mode: fuse.S_IFREG},
	)
	return child, 0
}

// value

type valueNode struct {
	fs.Inode
	node *nn.Node
	k    nn.Key
	buf  []byte
}

var _ = (fs.NodeGetattrer)((*valueNode)(nil))

func (n *valueNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) (errno syscall.Errno) {
	val, err := n.node.Get(n.k)
	if err != nil {
		log.Errorf("getattr error: %v", err)
		return syscall.EIO
	}
	out.Mode = 0444
	out.Size = uint64(len(val))
	return 0
}

var _ = (fs.NodeOpener)((*valueNode)(nil))

func (n *valueNode) Open(ctx context.Context, flags uint32) (fh fs.FileHandle, outflags uint32, errno syscall.Errno) {
	// disallow writes
	if flags&(syscall.O_RDWR|syscall.O_WRONLY) != 0 {
		return nil, 0, syscall.EROFS
	}

	val, err := n.node.Get(n.k)
	if err != nil {
		log.Errorf("open error: %v", err)
		return nil, 0, syscall.EIO
	}

	// the loaded value is a snapshot, so ask the kernel to cache it
	fh = &valueNode{node: n.node, k: n.k, buf: val}
	return fh, fuse.FOPEN_KEEP_CACHE, fs.OK
}

var _ = (fs.FileReader)((*valueNode)(nil))

func (fh *valueNode) Read(ctx context.Context, buf []byte, offset int64) (res fuse.ReadResult, errno syscall.Errno) {
	if offset >= int64(len(fh.buf)) {
		return fuse.ReadResultData(nil), 0
	}
	end := offset + int64(len(buf))
	if end > int64(len(fh.buf)) {
		end = int64(len(fh.buf))
	}
	return fuse.ReadResultData(fh.buf[offset:end]), 0
}

// server

func Serve(db *nn.Db, mnt string) (server *fuse.Server, err error) {
	defer Return(&err)
	opts := &fs.Options{}
	// start inode numbers at 2^16
	opts.FirstAutomaticIno = 1 << 16
	server, err = fs.Mount(mnt, &fsRoot{db: db}, opts)
	Ck(err)
	server.WaitMount()
	return
}

func msglog(msg string) {
	log.Errorf("unpanic: %v", msg)
}
