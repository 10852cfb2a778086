package lz4x

import (
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/nwidger/lz4x/internal/matchopt"
)

const historySize = matchopt.MaxOffset + 1

// CompressStream reads all of r, compresses it block by block per opts,
// and writes a framed (or, with opts.RawBlock, unframed) LZ4 stream to w.
// It follows lz4ultra_compress_stream's shape: a sliding nBlockMax+history
// buffer holds the window, each block is compressed against it, and
// dependent-block mode copies the previous block's tail into the window
// before reading the next one.
func CompressStream(w io.Writer, r io.Reader, opts CompressOptions) (Stats, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	blockMaxCode := opts.BlockMaxCode
	switch {
	case opts.RawBlock:
		// Raw block mode mirrors the CLI's own fixed 64 KiB I/O buffer:
		// it is always a single block of at most 65535 bytes, so the
		// configured block-max code (if any) is ignored.
		blockMaxCode = BlockMax64KB
	case blockMaxCode == 0:
		blockMaxCode = BlockMax4MB
	}
	if !blockMaxCode.Valid() {
		return Stats{}, errors.Wrap(ErrCompressionInternal, "invalid block max code")
	}
	blockMaxSize := blockMaxCode.Size()

	window := make([]byte, blockMaxSize+historySize)
	scratch := make([]byte, blockMaxSize)

	preloaded, err := io.ReadFull(r, window[historySize:])
	switch {
	case err == io.ErrUnexpectedEOF || err == io.EOF:
		// shorter than one block; fall through with what we got
	case err != nil:
		return Stats{}, errors.Wrap(ErrSourceIO, err.Error())
	}

	if preloaded < blockMaxSize && !opts.RawBlock {
		for blockMaxCode > BlockMax64KB {
			prevSize := BlockMaxCode(blockMaxCode - 1).Size()
			if prevSize > preloaded {
				blockMaxCode--
			} else {
				break
			}
		}
		blockMaxSize = blockMaxCode.Size()
	}

	var stats Stats

	if !opts.RawBlock {
		hdr := encodeFrameHeader(blockMaxCode, opts.IndependentBlocks)
		if _, err := w.Write(hdr); err != nil {
			return stats, errors.Wrap(ErrDestIO, err.Error())
		}
		stats.CompressedSize += int64(len(hdr))
	}

	log.Debug("compress stream start",
		zap.Int("blockMaxSize", blockMaxSize),
		zap.Bool("independentBlocks", opts.IndependentBlocks),
		zap.Bool("rawBlock", opts.RawBlock),
	)

	dict := opts.Dictionary
	if len(dict) > historySize {
		dict = dict[len(dict)-historySize:]
	}

	prevBlockSize := 0
	numBlocks := 0

	for {
		var inSize int
		if prevBlockSize > 0 {
			copy(window[historySize-prevBlockSize:historySize], window[historySize+blockMaxSize-prevBlockSize:historySize+blockMaxSize])
		} else if len(dict) > 0 {
			copy(window[historySize-len(dict):historySize], dict)
			prevBlockSize = len(dict)
		}

		if preloaded > 0 {
			inSize = preloaded
			preloaded = 0
		} else {
			n, err := io.ReadFull(r, window[historySize:historySize+blockMaxSize])
			inSize = n
			if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return stats, errors.Wrap(ErrSourceIO, err.Error())
			}
		}

		if inSize == 0 {
			break
		}

		if opts.RawBlock && (numBlocks > 0 || inSize > matchopt.MaxOffset) {
			return stats, ErrRawTooLarge
		}
		if !opts.IndependentBlocks {
			dict = nil
		}

		prefixStart := historySize - prevBlockSize
		src := window[prefixStart : historySize+inSize]
		out, cmds := EncodeBlock(scratch, src, prevBlockSize)

		if out != nil && len(out) < inSize {
			if !opts.RawBlock {
				fh := encodeBlockFrame(len(out), false)
				if _, err := w.Write(fh); err != nil {
					return stats, errors.Wrap(ErrDestIO, err.Error())
				}
				stats.CompressedSize += int64(len(fh))
			}
			if _, err := w.Write(out); err != nil {
				return stats, errors.Wrap(ErrDestIO, err.Error())
			}
			stats.OriginalSize += int64(inSize)
			stats.CompressedSize += int64(len(out))
			stats.CommandCount += cmds
		} else {
			if opts.RawBlock {
				return stats, ErrRawUncompressed
			}
			fh := encodeBlockFrame(inSize, true)
			if _, err := w.Write(fh); err != nil {
				return stats, errors.Wrap(ErrDestIO, err.Error())
			}
			if _, err := w.Write(window[historySize : historySize+inSize]); err != nil {
				return stats, errors.Wrap(ErrDestIO, err.Error())
			}
			stats.OriginalSize += int64(inSize)
			stats.CompressedSize += int64(len(fh) + inSize)
			stats.CommandCount++
		}

		if !opts.IndependentBlocks {
			prevBlockSize = inSize
			if prevBlockSize > historySize {
				prevBlockSize = historySize
			}
		} else {
			prevBlockSize = 0
		}

		numBlocks++
		if opts.Progress != nil {
			opts.Progress(stats.OriginalSize, stats.CompressedSize)
		}
		log.Debug("block compressed", zap.Int("block", numBlocks), zap.Int("inSize", inSize))
	}

	if opts.RawBlock {
		if _, err := w.Write(rawFooterFrame[:]); err != nil {
			return stats, errors.Wrap(ErrDestIO, err.Error())
		}
		stats.CompressedSize += int64(len(rawFooterFrame))
	} else {
		if _, err := w.Write(footerFrame[:]); err != nil {
			return stats, errors.Wrap(ErrDestIO, err.Error())
		}
		stats.CompressedSize += int64(len(footerFrame))
	}

	log.Info("compress stream done",
		zap.Int64("originalSize", stats.OriginalSize),
		zap.Int64("compressedSize", stats.CompressedSize),
		zap.Int("commandCount", stats.CommandCount),
	)

	return stats, nil
}

// DecompressStream reads a framed (or, with opts.RawBlock, unframed) LZ4
// stream from r and writes the decompressed bytes to w, following
// lz4ultra_decompress_stream: each block's prefix window is the previous
// block's tail when the stream declared dependent blocks, and otherwise
// opts.Dictionary (or zero bytes when there is none).
func DecompressStream(w io.Writer, r io.Reader, opts DecompressOptions) (Stats, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var blockMaxSize int
	independentBlocks := true
	var rawPayload []byte

	if opts.RawBlock {
		// Raw streams carry no header at all: the single block's size
		// is the whole stream's length minus the 2-byte EOD marker
		// lz4ultra_compress writes in place of a terminal block frame.
		blockMaxSize = BlockMax64KB.Size()
		data, err := io.ReadAll(r)
		if err != nil {
			return Stats{}, errors.Wrap(ErrSourceIO, err.Error())
		}
		if len(data) < 2 {
			return Stats{}, errors.Wrap(ErrFormat, "raw block stream shorter than EOD marker")
		}
		rawPayload = data[:len(data)-2]
	} else {
		hdr := make([]byte, 7)
		if _, err := io.ReadFull(r, hdr); err != nil {
			return Stats{}, errors.Wrap(ErrFormat, err.Error())
		}
		blockMaxCode, indep, err := decodeFrameHeader(hdr)
		if err != nil {
			return Stats{}, err
		}
		blockMaxSize = blockMaxCode.Size()
		independentBlocks = indep
	}

	dict := opts.Dictionary
	if len(dict) > historySize {
		dict = dict[len(dict)-historySize:]
	}

	window := make([]byte, historySize+blockMaxSize)
	inBuf := make([]byte, blockMaxSize)

	var stats Stats
	prevDecodedSize := 0
	numBlocks := 0

	for {
		var blockSize int
		var uncompressed bool

		if opts.RawBlock {
			if len(rawPayload) == 0 {
				break
			}
			if len(rawPayload) > blockMaxSize {
				return stats, errors.Wrap(ErrDecompressionInternal, "raw block exceeds max size")
			}
			blockSize = len(rawPayload)
			copy(inBuf[:blockSize], rawPayload)
			uncompressed = false
		} else {
			fh := make([]byte, 4)
			if _, err := io.ReadFull(r, fh); err != nil {
				return stats, errors.Wrap(ErrFormat, err.Error())
			}
			size, unc, err := decodeBlockFrame(fh)
			if err != nil {
				return stats, err
			}
			if size == 0 && !unc {
				break
			}
			blockSize, uncompressed = size, unc
			if blockSize > blockMaxSize {
				return stats, errors.Wrap(ErrDecompressionInternal, "block exceeds max size")
			}
			if _, err := io.ReadFull(r, inBuf[:blockSize]); err != nil {
				return stats, errors.Wrap(ErrSourceIO, err.Error())
			}
		}
		stats.CompressedSize += int64(blockSize)

		if prevDecodedSize > 0 {
			copy(window[historySize-prevDecodedSize:historySize], window[historySize+blockMaxSize-prevDecodedSize:historySize+blockMaxSize])
		} else if len(dict) > 0 {
			copy(window[historySize-len(dict):historySize], dict)
			prevDecodedSize = len(dict)
		}

		var decodedSize int
		if uncompressed {
			copy(window[historySize:historySize+blockSize], inBuf[:blockSize])
			decodedSize = blockSize
		} else {
			n, err := DecodeBlock(window[:historySize+blockMaxSize], historySize, inBuf[:blockSize])
			if err != nil {
				return stats, err
			}
			decodedSize = n
		}

		if decodedSize > 0 {
			if _, err := w.Write(window[historySize : historySize+decodedSize]); err != nil {
				return stats, errors.Wrap(ErrDestIO, err.Error())
			}
			stats.OriginalSize += int64(decodedSize)
		}

		if independentBlocks {
			prevDecodedSize = 0
		} else {
			prevDecodedSize = decodedSize
			if prevDecodedSize > historySize {
				prevDecodedSize = historySize
			}
		}

		numBlocks++
		log.Debug("block decompressed", zap.Int("block", numBlocks), zap.Int("decodedSize", decodedSize))

		if opts.RawBlock {
			break
		}
	}

	log.Info("decompress stream done",
		zap.Int64("originalSize", stats.OriginalSize),
		zap.Int64("compressedSize", stats.CompressedSize),
	)

	return stats, nil
}
