package netnode

import (
	"io"

	resticRabin "github.com/restic/chunker"
)

const (
	kiB = 1024

	// defMinSize is the default minimal size of a chunk.
	defMinSize = 2 * kiB
	// defMaxSize is the default maximal size of a chunk.
	defMaxSize = 64 * kiB
)

// Rabin lightly wraps restic's chunker on the slight chance that we
// might need to replace it someday.  Chunk boundaries are
// content-defined, so rewriting a large value reuses most of its
// blobs.
type Rabin struct {
	Poly    resticRabin.Pol
	C       *resticRabin.Chunker
	MinSize uint
	MaxSize uint
}

type Chunk resticRabin.Chunk

func (c Rabin) Init() (res *Rabin, err error) {
	if c.MinSize == 0 {
		c.MinSize = defMinSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = defMaxSize
	}
	if c.Poly == 0 {
		c.Poly, err = resticRabin.RandomPolynomial()
	}
	return &c, err
}

func (c *Rabin) Start(rd io.Reader) {
	c.C = resticRabin.NewWithBoundaries(rd, c.Poly, c.MinSize, c.MaxSize)
}

// Next fills buf with the next chunk from the reader given to
// Start(), returning the chunk data via Chunk.Data.  When the last
// chunk has been returned, all subsequent calls yield an io.EOF
// error.
func (c *Rabin) Next(buf []byte) (chunk resticRabin.Chunk, err error) {
	chunk, err = c.C.Next(buf)
	return
}
