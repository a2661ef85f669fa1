package netnode

import "fmt"

type NotDbError struct {
	Dir string
}

func (e *NotDbError) Error() string {
	return fmt.Sprintf("not a database: %s", e.Dir)
}

type ExistsError struct {
	Dir string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("directory not empty: %s", e.Dir)
}

// NotFoundError reports a key that has no value in the node.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' not found", e.Key)
}

// CorruptError reports a slot record whose stored value can't be
// reassembled -- a manifest pointing at a missing chunk, a length
// mismatch, or an undecodable payload.
type CorruptError struct {
	Key  Key
	Addr string
}

func (e *CorruptError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("'%s' corrupt: missing chunk %s", e.Key, e.Addr)
	}
	return fmt.Sprintf("'%s' corrupt", e.Key)
}
