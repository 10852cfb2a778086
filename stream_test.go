package lz4x

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressStreamRoundTrip(t *testing.T) {
	input := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 5000)

	var compressed bytes.Buffer
	stats, err := CompressStream(&compressed, strings.NewReader(input), CompressOptions{BlockMaxCode: BlockMax64KB})
	require.NoError(t, err)
	require.Equal(t, int64(len(input)), stats.OriginalSize)
	require.Less(t, stats.CompressedSize, stats.OriginalSize)

	var decompressed bytes.Buffer
	_, err = DecompressStream(&decompressed, &compressed, DecompressOptions{})
	require.NoError(t, err)
	require.Equal(t, input, decompressed.String())
}

func TestCompressDecompressEmptyStream(t *testing.T) {
	var compressed bytes.Buffer
	_, err := CompressStream(&compressed, strings.NewReader(""), CompressOptions{})
	require.NoError(t, err)

	var decompressed bytes.Buffer
	_, err = DecompressStream(&decompressed, &compressed, DecompressOptions{})
	require.NoError(t, err)
	require.Empty(t, decompressed.Bytes())
}

func TestCompressDecompressIndependentBlocks(t *testing.T) {
	input := strings.Repeat("abcdefghijklmnopqrstuvwxyz", 10000)

	var compressed bytes.Buffer
	opts := CompressOptions{BlockMaxCode: BlockMax64KB, IndependentBlocks: true}
	_, err := CompressStream(&compressed, strings.NewReader(input), opts)
	require.NoError(t, err)

	var decompressed bytes.Buffer
	_, err = DecompressStream(&decompressed, &compressed, DecompressOptions{})
	require.NoError(t, err)
	require.Equal(t, input, decompressed.String())
}

func TestCompressDecompressWithDictionary(t *testing.T) {
	dict := []byte(strings.Repeat("shared prefix material ", 100))
	input := []byte("shared prefix material appears again right here")

	var compressed bytes.Buffer
	_, err := CompressStream(&compressed, bytes.NewReader(input), CompressOptions{Dictionary: dict})
	require.NoError(t, err)

	var decompressed bytes.Buffer
	_, err = DecompressStream(&decompressed, &compressed, DecompressOptions{Dictionary: dict})
	require.NoError(t, err)
	require.Equal(t, input, decompressed.Bytes())
}

func TestCompressDecompressRawBlock(t *testing.T) {
	input := []byte(strings.Repeat("raw block payload, no frame around it. ", 200))

	var compressed bytes.Buffer
	_, err := CompressStream(&compressed, bytes.NewReader(input), CompressOptions{RawBlock: true})
	require.NoError(t, err)

	// Raw streams are just the block payload plus a 2-byte EOD marker,
	// no 7-byte frame header and no 4-byte block-size field.
	require.Equal(t, byte(0), compressed.Bytes()[compressed.Len()-2])
	require.Equal(t, byte(0), compressed.Bytes()[compressed.Len()-1])

	var decompressed bytes.Buffer
	_, err = DecompressStream(&decompressed, bytes.NewReader(compressed.Bytes()), DecompressOptions{RawBlock: true})
	require.NoError(t, err)
	require.Equal(t, input, decompressed.Bytes())
}

func TestCompressRawBlockRejectsOversizedInput(t *testing.T) {
	input := make([]byte, BlockMax64KB.Size())
	_, err := CompressStream(&bytes.Buffer{}, bytes.NewReader(input), CompressOptions{RawBlock: true})
	require.ErrorIs(t, err, ErrRawTooLarge)
}

func TestComparingSinkDetectsMismatch(t *testing.T) {
	sink := NewComparingSink(bytes.NewReader([]byte("hello world")))
	_, err := sink.Write([]byte("hello worlx"))
	require.ErrorIs(t, err, ErrVerifyMismatch)
}

func TestComparingSinkAcceptsMatchingStream(t *testing.T) {
	sink := NewComparingSink(bytes.NewReader([]byte("hello world")))
	_, err := sink.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, sink.Finish())
}

func TestVerifiedRoundTripWithComparingSink(t *testing.T) {
	input := []byte(strings.Repeat("round trip verification payload ", 200))

	var compressed bytes.Buffer
	_, err := CompressStream(&compressed, bytes.NewReader(input), CompressOptions{})
	require.NoError(t, err)

	sink := NewComparingSink(bytes.NewReader(input))
	_, err = DecompressStream(sink, &compressed, DecompressOptions{})
	require.NoError(t, err)
	require.NoError(t, sink.Finish())
}
