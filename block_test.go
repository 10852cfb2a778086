package lz4x

import (
	"testing"

	reflz4 "github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBlockRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("aaaaaaaa"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("mississippi river mississippi delta mississippi basin"),
	}

	for _, data := range inputs {
		dst := make([]byte, 0, len(data)*2)
		out, _ := EncodeBlock(dst, data, 0)
		require.NotNil(t, out)

		decoded := make([]byte, len(data))
		n, err := DecodeBlock(decoded, 0, out)
		require.NoError(t, err)
		require.Equal(t, data, decoded[:n])
	}
}

func TestEncodeBlockDecodesWithReferenceDecoder(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog. the quick brown fox jumps again.")

	out, _ := EncodeBlock(nil, data, 0)
	require.NotNil(t, out)

	decoded := make([]byte, len(data)*2)
	n, err := reflz4.UncompressBlock(out, decoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded[:n])
}

func TestEncodeBlockShortRepeatedRun(t *testing.T) {
	// Eight identical bytes: shorter than LastMatchOffset (12), so no
	// match may start anywhere in the block and it is encoded as one
	// literal run.
	data := []byte("aaaaaaaa")
	out, _ := EncodeBlock(nil, data, 0)
	require.NotEmpty(t, out)

	decoded := make([]byte, len(data))
	n, err := DecodeBlock(decoded, 0, out)
	require.NoError(t, err)
	require.Equal(t, data, decoded[:n])
}

func TestEncodeBlockEmptyInput(t *testing.T) {
	out, cmds := EncodeBlock(nil, []byte{}, 0)
	require.Empty(t, out)
	require.Equal(t, 0, cmds)
}

func TestEncodeBlockWithPrefixWindow(t *testing.T) {
	prefix := []byte("hello world, ")
	data := []byte("hello world, again")
	window := append(append([]byte{}, prefix...), data...)

	out, _ := EncodeBlock(nil, window, len(prefix))
	require.NotNil(t, out)

	decoded := make([]byte, len(prefix)+len(data))
	copy(decoded, prefix)
	n, err := DecodeBlock(decoded, len(prefix), out)
	require.NoError(t, err)
	require.Equal(t, data, decoded[len(prefix):len(prefix)+n])
}
