package lz4x

import (
	"os"

	"github.com/cockroachdb/errors"
)

// CompressFile opens inPath and outPath, loads dictionaryPath if non-empty,
// and runs CompressStream between them. It mirrors lib.c's
// lz4ultra_compress_file, which exists so callers (and this package's own
// CLI) don't have to repeat the open/dictionary-load/close dance around
// every streaming call.
func CompressFile(inPath, outPath, dictionaryPath string, opts CompressOptions) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, errors.Wrap(ErrSourceIO, err.Error())
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, errors.Wrap(ErrDestIO, err.Error())
	}
	defer out.Close()

	if dictionaryPath != "" {
		dict, err := loadDictionaryFile(dictionaryPath)
		if err != nil {
			return Stats{}, err
		}
		opts.Dictionary = dict
	}

	return CompressStream(out, in, opts)
}

// DecompressFile is CompressFile's decompression counterpart, mirroring
// lz4ultra_decompress_file.
func DecompressFile(inPath, outPath, dictionaryPath string, opts DecompressOptions) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, errors.Wrap(ErrSourceIO, err.Error())
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, errors.Wrap(ErrDestIO, err.Error())
	}
	defer out.Close()

	if dictionaryPath != "" {
		dict, err := loadDictionaryFile(dictionaryPath)
		if err != nil {
			return Stats{}, err
		}
		opts.Dictionary = dict
	}

	return DecompressStream(out, in, opts)
}

func loadDictionaryFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrDictionary, err.Error())
	}
	defer f.Close()
	return LoadDictionary(f)
}
