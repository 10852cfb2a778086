package lz4x

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/nwidger/lz4x/internal/matchopt"
)

// LoadDictionary reads a dictionary file's contents, keeping only the last
// 64 KiB (historySize bytes) the way lz4ultra_dictionary_load does by seeking from
// the end: only that much of a dictionary can ever be referenced by a
// match offset anyway, so anything before it is never useful.
func LoadDictionary(r io.ReadSeeker) ([]byte, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(ErrDictionary, err.Error())
	}

	const historySize = matchopt.MaxOffset + 1

	start := int64(0)
	if size > historySize {
		start = size - historySize
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrDictionary, err.Error())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(ErrDictionary, err.Error())
	}
	return data, nil
}
