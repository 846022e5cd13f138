package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministic(t *testing.T) {
	a := Hash([]byte("tick-42"))
	b := Hash([]byte("tick-42"))
	assert.Equal(t, a, b)
}

func TestHashDiffersOnInput(t *testing.T) {
	a := Hash([]byte("tick-42"))
	b := Hash([]byte("tick-43"))
	assert.NotEqual(t, a, b)
}

func TestChainHashExtendsPreviousLink(t *testing.T) {
	genesis := ChainHash("", []byte("payload-0"))
	next := ChainHash(genesis, []byte("payload-1"))
	assert.NotEqual(t, genesis, next, "ChainHash should advance the chain")

	again := ChainHash(genesis, []byte("payload-1"))
	assert.Equal(t, next, again, "ChainHash must be deterministic given the same prevHash and payload")
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility, repeated for compressibility")
	compressed := Compress(src)
	require.NotEmpty(t, compressed)

	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}
