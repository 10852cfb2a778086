package lz4x

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameHeaderRoundTrip(t *testing.T) {
	for _, code := range []BlockMaxCode{BlockMax64KB, BlockMax256KB, BlockMax1MB, BlockMax4MB} {
		for _, indep := range []bool{true, false} {
			hdr := encodeFrameHeader(code, indep)
			require.Len(t, hdr, 7)

			gotCode, gotIndep, err := decodeFrameHeader(hdr)
			require.NoError(t, err)
			require.Equal(t, code, gotCode)
			require.Equal(t, indep, gotIndep)
		}
	}
}

func TestFrameHeaderRejectsBadMagic(t *testing.T) {
	hdr := encodeFrameHeader(BlockMax4MB, false)
	hdr[0] = 0xff
	_, _, err := decodeFrameHeader(hdr)
	require.ErrorIs(t, err, ErrFormat)
}

func TestFrameHeaderRejectsBadChecksum(t *testing.T) {
	hdr := encodeFrameHeader(BlockMax4MB, false)
	hdr[6] ^= 0xff
	_, _, err := decodeFrameHeader(hdr)
	require.ErrorIs(t, err, ErrChecksum)
}

func TestEmptyStreamFrameBytes(t *testing.T) {
	// An empty frame is exactly the 7-byte header plus the 4-byte
	// terminal block frame, with no block in between.
	hdr := encodeFrameHeader(BlockMax4MB, true)
	footer := footerFrame[:]

	require.Equal(t, []byte{0x04, 0x22, 0x4D, 0x18}, hdr[:4])
	require.Equal(t, []byte{0, 0, 0, 0}, footer)
}

func TestMaxDecompressedSizeBoundsActualOutput(t *testing.T) {
	input := strings.Repeat("bound check payload, nothing fancy. ", 3000)

	var compressed bytes.Buffer
	stats, err := CompressStream(&compressed, strings.NewReader(input), CompressOptions{BlockMaxCode: BlockMax64KB})
	require.NoError(t, err)

	bound, err := MaxDecompressedSize(compressed.Bytes())
	require.NoError(t, err)
	require.GreaterOrEqual(t, bound, stats.OriginalSize)
}

func TestMaxDecompressedSizeRejectsBadHeader(t *testing.T) {
	_, err := MaxDecompressedSize([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrFormat)
}

func TestBlockFrameRoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 65535, 1 << 20} {
		for _, uncompressed := range []bool{true, false} {
			buf := encodeBlockFrame(size, uncompressed)
			require.Len(t, buf, 4)

			gotSize, gotUncompressed, err := decodeBlockFrame(buf)
			require.NoError(t, err)
			require.Equal(t, size, gotSize)
			require.Equal(t, uncompressed, gotUncompressed)
		}
	}
}
