package lz4x

import "github.com/cockroachdb/errors"

// Sentinel errors returned by this package. Wrapped errors remain
// comparable with errors.Is, matching lz4ultra_status_t's error
// categories one-for-one.
var (
	ErrSourceIO   = errors.New("lz4x: error reading source")
	ErrDestIO     = errors.New("lz4x: error writing destination")
	ErrDictionary = errors.New("lz4x: error reading dictionary")
	ErrMemory     = errors.New("lz4x: out of memory")

	ErrCompressionInternal = errors.New("lz4x: internal compression error")
	ErrRawTooLarge         = errors.New("lz4x: input is too large for a raw block")
	ErrRawUncompressed     = errors.New("lz4x: input is incompressible and raw blocks cannot hold literal fallback data")

	ErrFormat                = errors.New("lz4x: invalid frame format or magic number")
	ErrChecksum              = errors.New("lz4x: checksum mismatch")
	ErrDecompressionInternal = errors.New("lz4x: internal decompression error")
)
