package lz4x

import "go.uber.org/zap"

// BlockMaxCode selects the maximum size of a compressed block, following
// the LZ4 frame descriptor's block-size-code field: code 4 is 64 KiB, and
// each step up quadruples it, through code 7 at 4 MiB.
type BlockMaxCode int

const (
	BlockMax64KB  BlockMaxCode = 4
	BlockMax256KB BlockMaxCode = 5
	BlockMax1MB   BlockMaxCode = 6
	BlockMax4MB   BlockMaxCode = 7
)

// Size returns the maximum number of bytes a block encoded under this code
// may hold.
func (c BlockMaxCode) Size() int {
	return 1 << (8 + (int(c) << 1))
}

// Valid reports whether c is one of the four block-size codes the frame
// format defines.
func (c BlockMaxCode) Valid() bool {
	return c >= BlockMax64KB && c <= BlockMax4MB
}

// CompressOptions configures a compression run. The zero value compresses
// with 4 MiB dependent blocks and no dictionary.
type CompressOptions struct {
	// BlockMaxCode bounds how large an individual block may grow. Zero
	// selects BlockMax4MB. Ignored when RawBlock is set, which always
	// uses BlockMax64KB.
	BlockMaxCode BlockMaxCode

	// IndependentBlocks, when true, resets the match window at every
	// block boundary instead of letting each block reference the bytes
	// compressed just before it. Independent blocks compress slightly
	// worse but let a decoder skip straight to any block.
	IndependentBlocks bool

	// RawBlock emits a single raw LZ4 block with no frame header or
	// footer, for embedding compressed data inside another container.
	// The input must fit within one block and must not be incompressible,
	// since a raw block has no fallback encoding for literal data.
	RawBlock bool

	// Dictionary, if non-empty, seeds the match window so the first
	// block may reference it as if it had been compressed immediately
	// before the real input. Only the last 64 KiB are used.
	Dictionary []byte

	// Progress, if set, is called after each block is written with the
	// running totals of uncompressed and compressed bytes.
	Progress func(originalSize, compressedSize int64)

	// Logger receives structured per-block diagnostics. A nil Logger
	// disables logging, same as zap.NewNop().
	Logger *zap.Logger
}

// DecompressOptions configures a decompression run.
type DecompressOptions struct {
	// RawBlock, when true, treats the input as a single raw block with
	// no frame header or footer: just the compressed payload followed by
	// a 2-byte EOD marker, always bounded by BlockMax64KB the way the
	// CLI's own raw mode is.
	RawBlock bool

	// Dictionary, if non-empty, seeds the match window the same way it
	// was seeded during compression. Only the last 64 KiB are used.
	Dictionary []byte

	// Logger receives structured per-block diagnostics. A nil Logger
	// disables logging, same as zap.NewNop().
	Logger *zap.Logger
}

// Stats summarizes the result of a compression run.
type Stats struct {
	OriginalSize   int64
	CompressedSize int64
	CommandCount   int
}
