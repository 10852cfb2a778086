package lz4x

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	compPath := filepath.Join(dir, "out.lz4x")
	outPath := filepath.Join(dir, "roundtrip.txt")

	input := strings.Repeat("file based round trip exercise. ", 500)
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o644))

	_, err := CompressFile(inPath, compPath, "", CompressOptions{BlockMaxCode: BlockMax64KB})
	require.NoError(t, err)

	_, err = DecompressFile(compPath, outPath, "", DecompressOptions{})
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, input, string(got))
}

func TestCompressFileWithDictionaryFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	dictPath := filepath.Join(dir, "dict.bin")
	compPath := filepath.Join(dir, "out.lz4x")
	outPath := filepath.Join(dir, "roundtrip.txt")

	dictContent := strings.Repeat("shared context material ", 200)
	input := "shared context material shows up again here"

	require.NoError(t, os.WriteFile(dictPath, []byte(dictContent), 0o644))
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o644))

	_, err := CompressFile(inPath, compPath, dictPath, CompressOptions{})
	require.NoError(t, err)

	_, err = DecompressFile(compPath, outPath, dictPath, DecompressOptions{})
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, input, string(got))
}
