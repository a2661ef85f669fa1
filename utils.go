package netnode

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"syscall"
)

func canstat(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mkdir(dir string) (err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return
		}
	}
	return nil
}

func bin2hex(bin []byte) string {
	return hex.EncodeToString(bin)
}

// Hash returns the binary digest of buf under the named algorithm.
func Hash(algo string, buf []byte) (binhash []byte, err error) {
	switch algo {
	case "sha256":
		sum := sha256.Sum256(buf)
		binhash = sum[:]
	case "sha512":
		sum := sha512.Sum512(buf)
		binhash = sum[:]
	default:
		err = fmt.Errorf("%w: %s", syscall.ENOSYS, algo)
	}
	return
}

// GetGID returns the goroutine ID of its calling function, for
// logging purposes.
func GetGID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
