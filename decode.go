package lz4x

import "github.com/nwidger/lz4x/internal/matchopt"

// DecodeBlock decompresses one LZ4 block from src into dst[dstOffset:],
// which must already hold dstOffset bytes of window data (the previous
// block's tail or a dictionary) that matches in this block may reference.
// It returns the number of bytes written after dstOffset.
//
// This mirrors lz4ultra_decompressor_expand_block_lz4's token walk:
// decode a literal run, copy it, then decode a match length and offset
// and copy from the already-written output. The original's build carries
// a 16/18-byte-overcopy fast path meant for a C compiler's memcpy; this
// port keeps the same token-reading order and bounds checks but relies on
// the builtin copy, which the Go runtime already vectorizes, so there is
// nothing gained by hand-splitting the fast and slow paths here.
func DecodeBlock(dst []byte, dstOffset int, src []byte) (int, error) {
	out := dstOffset
	i := 0

	for i < len(src) {
		token := src[i]
		i++

		literalsLen := int(token >> 4)
		if literalsLen == matchopt.LiteralsRunLen {
			n, err := readVarlen(src, &i)
			if err != nil {
				return 0, err
			}
			literalsLen += n
		}

		if i+literalsLen > len(src) || out+literalsLen > len(dst) {
			return 0, ErrDecompressionInternal
		}
		copy(dst[out:out+literalsLen], src[i:i+literalsLen])
		i += literalsLen
		out += literalsLen

		if i >= len(src) {
			break
		}
		if i+2 > len(src) {
			return 0, ErrDecompressionInternal
		}
		matchOffset := int(src[i]) | int(src[i+1])<<8
		i += 2

		matchLen := int(token&0x0f) + matchopt.MinMatchSize
		if token&0x0f == matchopt.MatchRunLen {
			n, err := readVarlen(src, &i)
			if err != nil {
				return 0, err
			}
			matchLen += n
		}

		if matchOffset < matchopt.MinOffset || out-matchOffset < 0 {
			return 0, ErrDecompressionInternal
		}
		if out+matchLen > len(dst) {
			return 0, ErrDecompressionInternal
		}

		srcPos := out - matchOffset
		if matchOffset >= matchLen {
			copy(dst[out:out+matchLen], dst[srcPos:srcPos+matchLen])
		} else {
			// Overlapping back-reference (run-length style repeat):
			// copy byte by byte since copy() would read stale source
			// bytes past the point already overwritten this call.
			for k := 0; k < matchLen; k++ {
				dst[out+k] = dst[srcPos+k]
			}
		}
		out += matchLen
	}

	return out - dstOffset, nil
}

// readVarlen reads the 0xFF-chained extra-length bytes that follow a
// token nibble once it has reached its escape value, advancing *i past
// them.
func readVarlen(src []byte, i *int) (int, error) {
	total := 0
	for {
		if *i >= len(src) {
			return 0, ErrDecompressionInternal
		}
		b := src[*i]
		*i++
		total += int(b)
		if b != 255 {
			return total, nil
		}
	}
}
