package netnode

import (
	"fmt"
	"net/url"
	"strconv"
)

// Key indexes one value within a node.  A key is either an integer
// or a string; the two kinds live in separate lookup tables, so
// IntKey(2) and StrKey("2") are distinct keys.
type Key struct {
	Num   int64
	Str   string
	IsNum bool
}

func IntKey(n int64) Key {
	return Key{Num: n, IsNum: true}
}

func StrKey(s string) Key {
	return Key{Str: s}
}

func (key Key) String() string {
	if key.IsNum {
		return strconv.FormatInt(key.Num, 10)
	}
	return key.Str
}

// slotName returns the file name of the key's slot record.  Integer
// keys use the two's-complement bit pattern in fixed-width hex;
// string keys are escaped so any string is a safe file name.
func (key Key) slotName() (fn string, err error) {
	if key.IsNum {
		return fmt.Sprintf("%016x", uint64(key.Num)), nil
	}
	if key.Str == "" {
		return "", fmt.Errorf("empty string key")
	}
	return url.PathEscape(key.Str), nil
}

// table returns the name of the lookup table the key lives in --
// "sup" for integer keys, "hash" for string keys, after the two
// table kinds in the original netnode API.
func (key Key) table() string {
	if key.IsNum {
		return "sup"
	}
	return "hash"
}

func intKeyFromSlot(fn string) (key Key, err error) {
	u, err := strconv.ParseUint(fn, 16, 64)
	if err != nil {
		return
	}
	return IntKey(int64(u)), nil
}

func strKeyFromSlot(fn string) (key Key, err error) {
	s, err := url.PathUnescape(fn)
	if err != nil {
		return
	}
	return StrKey(s), nil
}
