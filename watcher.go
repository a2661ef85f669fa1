package netnode

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	. "github.com/stevegt/goadapt"
)

// Watcher reports changes to a node's slot files, so processes
// sharing a db can react when another process writes a key.
type Watcher struct {
	Node    *Node
	watcher *fsnotify.Watcher
	Events  chan fsnotify.Event
	Errors  chan error
}

// Watch starts watching the node's lookup-table dirs.
func (node *Node) Watch() (w *Watcher, err error) {
	defer Return(&err)

	w = &Watcher{Node: node}

	// create a watcher
	w.watcher, err = fsnotify.NewWatcher()
	Ck(err)

	w.Events = w.watcher.Events
	w.Errors = w.watcher.Errors

	err = w.watcher.Add(filepath.Join(node.dir, "sup"))
	Ck(err)
	err = w.watcher.Add(filepath.Join(node.dir, "hash"))
	Ck(err)

	return w, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
