package lz4x

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

// ErrVerifyMismatch is returned by ComparingSink when decompressed output
// diverges from the original data it is being checked against.
var ErrVerifyMismatch = errors.New("lz4x: decompressed output does not match original data")

// ComparingSink is an io.Writer that verifies decompressed output against
// the original input as it streams by, the same role lz4ultra.c's "-c"
// (compare) mode plays: decompress, then diff against the source, instead
// of trusting the round trip blindly. Feed it to DecompressStream's w
// argument to verify compression as part of the same pass that performs
// it.
type ComparingSink struct {
	original io.Reader
	buf      []byte
	n        int64
}

// NewComparingSink returns a ComparingSink that checks written bytes
// against successive reads from original.
func NewComparingSink(original io.Reader) *ComparingSink {
	return &ComparingSink{original: original, buf: make([]byte, 64*1024)}
}

// N reports the number of bytes verified so far.
func (s *ComparingSink) N() int64 { return s.n }

func (s *ComparingSink) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		chunk := p
		if len(chunk) > len(s.buf) {
			chunk = p[:len(s.buf)]
		}

		if _, err := io.ReadFull(s.original, s.buf[:len(chunk)]); err != nil {
			return 0, errors.Wrap(ErrVerifyMismatch, "original data shorter than decompressed output")
		}
		if !bytes.Equal(s.buf[:len(chunk)], chunk) {
			return 0, ErrVerifyMismatch
		}

		s.n += int64(len(chunk))
		p = p[len(chunk):]
	}
	return total, nil
}

// Finish confirms the original reader has no bytes left unverified, i.e.
// that it was not longer than the decompressed output.
func (s *ComparingSink) Finish() error {
	n, err := s.original.Read(s.buf[:1])
	if n > 0 {
		return errors.Wrap(ErrVerifyMismatch, "original data longer than decompressed output")
	}
	if err != nil && err != io.EOF {
		return errors.Wrap(ErrVerifyMismatch, err.Error())
	}
	return nil
}
