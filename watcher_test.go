package netnode

import (
	"testing"
	"time"
)

func TestWatch(t *testing.T) {
	node := setupnode(t, "$ test watch")

	w, err := node.Watch()
	tassert(t, err == nil, "Watch err %v", err)
	defer w.Close()

	go func() {
		// give the watcher a moment to settle
		time.Sleep(100 * time.Millisecond)
		err := node.Set(StrKey("ping"), mkbuf("pong"))
		if err != nil {
			t.Errorf("Set err %v", err)
		}
	}()

	select {
	case event := <-w.Events:
		tassert(t, event.Name != "", "empty event name")
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
