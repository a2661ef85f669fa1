package netnode

import (
	"bytes"
	"io"
	"testing"

	"github.com/hlubek/readercomp"
	"github.com/pkg/errors"
)

func TestChunker(t *testing.T) {
	db := setup(t)
	src := randbuf(1, 1<<20)

	rab, err := Rabin{Poly: db.Poly, MinSize: db.MinSize, MaxSize: db.MaxSize}.Init()
	tassert(t, err == nil, "Init err %v", err)
	tassert(t, rab.MinSize == defMinSize, "expected min %d, got %d", defMinSize, rab.MinSize)
	tassert(t, rab.MaxSize == defMaxSize, "expected max %d, got %d", defMaxSize, rab.MaxSize)
	rab.Start(bytes.NewReader(src))

	// chunks concatenate back to the source
	var cat []byte
	var n int
	buf := make([]byte, rab.MaxSize+1)
	for {
		chunk, err := rab.Next(buf)
		if errors.Cause(err) == io.EOF {
			break
		}
		tassert(t, err == nil, "Next err %v", err)
		tassert(t, chunk.Length <= rab.MaxSize, "chunk too big: %d", chunk.Length)
		cat = append(cat, chunk.Data...)
		n++
	}
	tassert(t, n > 1, "expected multiple chunks, got %d", n)

	ok, err := readercomp.Equal(bytes.NewReader(src), bytes.NewReader(cat), 4096)
	tassert(t, err == nil, "readercomp.Equal: %v", err)
	tassert(t, ok, "chunks do not concatenate back to source")
}

// same polynomial, same data, same boundaries
func TestChunkerStable(t *testing.T) {
	db := setup(t)
	src := randbuf(2, 1<<19)

	lengths := func() (out []uint) {
		rab, err := Rabin{Poly: db.Poly, MinSize: db.MinSize, MaxSize: db.MaxSize}.Init()
		tassert(t, err == nil, "Init err %v", err)
		rab.Start(bytes.NewReader(src))
		buf := make([]byte, rab.MaxSize+1)
		for {
			chunk, err := rab.Next(buf)
			if errors.Cause(err) == io.EOF {
				break
			}
			tassert(t, err == nil, "Next err %v", err)
			out = append(out, chunk.Length)
		}
		return
	}

	a := lengths()
	b := lengths()
	tassert(t, len(a) == len(b), "chunk counts differ: %d %d", len(a), len(b))
	for i := range a {
		tassert(t, a[i] == b[i], "chunk %d length differs: %d %d", i, a[i], b[i])
	}
}
