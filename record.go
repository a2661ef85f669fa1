package netnode

import (
	"bytes"
	"compress/zlib"
	"io/ioutil"

	"github.com/vmihailenco/msgpack"
)

// record is the slot file contents for one key.  Small values are
// carried inline; values whose compressed form is larger than
// Db.BlobSize are stored as chunk blobs, and Chunks holds the
// ordered manifest of their canpaths.  Exactly one of Inline and
// Chunks is set -- a compressed payload is never zero-length, so
// len(Chunks) > 0 is the discriminator.
type record struct {
	Inline []byte   `msgpack:"inline"`
	Chunks []string `msgpack:"chunks"`
	Size   int64    `msgpack:"size"`  // uncompressed value length
	CSize  int64    `msgpack:"csize"` // compressed value length
}

func (rec *record) encode() (buf []byte, err error) {
	return msgpack.Marshal(rec)
}

func decodeRecord(buf []byte) (rec *record, err error) {
	rec = &record{}
	err = msgpack.Unmarshal(buf, rec)
	if err != nil {
		return nil, err
	}
	return
}

// compress zlib-encodes data.  All values are compressed before
// storage, following the original netnode wire format.
func compress(data []byte) (z []byte, err error) {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	_, err = w.Write(data)
	if err != nil {
		return
	}
	err = w.Close()
	if err != nil {
		return
	}
	return b.Bytes(), nil
}

func decompress(z []byte) (data []byte, err error) {
	r, err := zlib.NewReader(bytes.NewReader(z))
	if err != nil {
		return
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}
