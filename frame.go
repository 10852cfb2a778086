package lz4x

import (
	"github.com/cockroachdb/errors"
	"github.com/pierrec/xxHash/xxHash32"
)

var frameMagic = [4]byte{0x04, 0x22, 0x4D, 0x18}

// headerChecksum hashes the two descriptor bytes with xxHash32 seed 0, the
// same hash the teacher's FrameEncoder uses for its (standard LZ4) frame
// header checksum.
func headerChecksum(descriptor []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(descriptor)
	return h.Sum32()
}

// encodeFrameHeader writes the 7-byte stream header: magic, a flags byte
// (version bits fixed at 01, bit 5 set when blocks are independent), the
// block-max-size code in the high nibble of the descriptor byte, and a
// header checksum over those two descriptor bytes. This is
// lz4ultra_encode_header ported directly; unlike the full LZ4 frame
// format it never sets the content-checksum or content-size flags, since
// this codec never emits either.
func encodeFrameHeader(blockMaxCode BlockMaxCode, independentBlocks bool) []byte {
	buf := make([]byte, 7)
	copy(buf[0:4], frameMagic[:])

	buf[4] = 0b01000000
	if independentBlocks {
		buf[4] |= 0b00100000
	}
	buf[5] = byte(blockMaxCode) << 4

	sum := headerChecksum(buf[4:6])
	buf[6] = byte(sum >> 8)

	return buf
}

// decodeFrameHeader parses and validates the 7-byte stream header written
// by encodeFrameHeader, following lz4ultra_decode_header's checks. Per the
// decompressor accepting every block-size code in 4..7 (the encoder side
// of lz4ultra only ever emits what its CLI was told to use, but the
// format itself, and this package's decoder, places no such restriction
// on what it will read): any of the four codes in the descriptor's high
// nibble is accepted, with the checksum verified the same way regardless.
func decodeFrameHeader(buf []byte) (blockMaxCode BlockMaxCode, independentBlocks bool, err error) {
	if len(buf) != 7 {
		return 0, false, errors.Wrap(ErrFormat, "short frame header")
	}
	if buf[0] != frameMagic[0] || buf[1] != frameMagic[1] || buf[2] != frameMagic[2] || buf[3] != frameMagic[3] {
		return 0, false, errors.Wrap(ErrFormat, "bad magic number")
	}
	if buf[4]&0xc0 != 0b01000000 {
		return 0, false, errors.Wrap(ErrFormat, "unsupported version/flags byte")
	}
	if buf[5]&0x0f != 0 {
		return 0, false, errors.Wrap(ErrFormat, "reserved descriptor bits set")
	}

	sum := headerChecksum(buf[4:6])
	if byte(sum>>8) != buf[6] {
		return 0, false, ErrChecksum
	}

	independentBlocks = buf[4]&0x20 != 0
	blockMaxCode = BlockMaxCode(buf[5] >> 4)
	if !blockMaxCode.Valid() {
		return 0, false, errors.Wrap(ErrFormat, "unsupported block size code")
	}
	return blockMaxCode, independentBlocks, nil
}

// encodeBlockFrame writes the 4-byte little-endian block-size header that
// precedes every compressed or uncompressed block: the high bit of the
// last byte flags an uncompressed (literal-fallback) block.
func encodeBlockFrame(size int, uncompressed bool) []byte {
	buf := make([]byte, 4)
	buf[0] = byte(size)
	buf[1] = byte(size >> 8)
	buf[2] = byte(size >> 16)
	buf[3] = byte(size>>24) & 0x7f
	if uncompressed {
		buf[3] |= 0x80
	}
	return buf
}

// decodeBlockFrame parses a 4-byte block-size header; a zero size with the
// uncompressed bit clear signals the terminal (end-of-stream) frame.
func decodeBlockFrame(buf []byte) (size int, uncompressed bool, err error) {
	if len(buf) != 4 {
		return 0, false, errors.Wrap(ErrFormat, "short block frame header")
	}
	raw := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	uncompressed = raw&0x80000000 != 0
	size = int(raw &^ 0x80000000)
	return size, uncompressed, nil
}

var footerFrame = [4]byte{0, 0, 0, 0}

// rawFooterFrame is the 2-byte EOD marker lz4ultra writes in raw block
// mode in place of the 4-byte terminal block frame used by framed
// streams.
var rawFooterFrame = [2]byte{0, 0}

// MaxDecompressedSize walks a framed compressed stream's header and block
// frames, without decoding any block payload, and returns an upper bound
// on the decompressed size: one blockMaxSize for every block the stream
// declares. Grounded on lz4ultra_inmem_get_max_decompressed_size, which
// exists to let a caller size a single output buffer before decompressing
// into memory rather than discovering partway through that it guessed
// too small.
func MaxDecompressedSize(data []byte) (int64, error) {
	if len(data) < 7 {
		return 0, errors.Wrap(ErrFormat, "short frame header")
	}
	blockMaxCode, _, err := decodeFrameHeader(data[:7])
	if err != nil {
		return 0, err
	}
	blockMaxSize := int64(blockMaxCode.Size())
	data = data[7:]

	var total int64
	for len(data) > 0 {
		if len(data) < 4 {
			return 0, errors.Wrap(ErrFormat, "truncated block frame")
		}
		size, uncompressed, err := decodeBlockFrame(data[:4])
		if err != nil {
			return 0, err
		}
		data = data[4:]
		if size == 0 && !uncompressed {
			return total, nil
		}
		if len(data) < size {
			return 0, errors.Wrap(ErrFormat, "truncated block payload")
		}
		total += blockMaxSize
		data = data[size:]
	}
	return 0, errors.Wrap(ErrFormat, "missing terminal block frame")
}
