// Package core holds small, dependency-facing helpers shared by the
// engine and its persistence sidecar: content hashing and blob
// compression. It has no knowledge of game rules.
package core

import (
	"bytes"
	"encoding/hex"
	"sync"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

var bufferPool = sync.Pool{New: func() interface{} { return new(bytes.Buffer) }}

// Hash returns the hex-encoded BLAKE3-256 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChainHash folds prevHash and payload into the next link of a hash
// chain. It is used to make committed ticks tamper-evident: replaying
// the same action stream against the same starting state must produce
// the same chain.
func ChainHash(prevHash string, payload []byte) string {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)
	buf.WriteString(prevHash)
	buf.WriteByte(':')
	buf.Write(payload)
	return Hash(buf.Bytes())
}

// Compress LZ4-compresses src using a pooled buffer.
func Compress(src []byte) []byte {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	w := lz4.NewWriter(buf)
	if _, err := w.Write(src); err != nil {
		return nil
	}
	if err := w.Close(); err != nil {
		return nil
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// Decompress reverses Compress.
func Decompress(src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
