package lz4x

import (
	"github.com/nwidger/lz4x/internal/matchopt"
)

// EncodeBlock compresses src, which may be preceded by up to 64 KiB of
// window bytes (previous block tail or dictionary) in prefix. prefixLen is
// the number of leading bytes of src that belong to that window rather
// than to the data being compressed this call; those bytes are never
// themselves part of the output, only referenceable by matches.
//
// Matches are found with a suffix array over all of src (window included)
// and chosen by the optimal parser in internal/matchopt, following the
// same three-stage pipeline lz4ultra's shrink.c uses: build the suffix
// array, enumerate candidates, then run the two-pass optimizer before
// emitting tokens. EncodeBlock always returns the fully tokenized
// encoding of src[prefixLen:]; it does not itself decide whether that
// encoding is smaller than the literal input — callers that need an
// uncompressed fallback (as stream.go's block frames do) compare
// len(out) against the input length themselves.
func EncodeBlock(dst, src []byte, prefixLen int) (out []byte, commandCount int) {
	dataLen := len(src) - prefixLen
	if dataLen <= 0 {
		return dst[:0], 0
	}

	sa := matchopt.Build(src)
	finder := matchopt.NewFinder(sa)

	if prefixLen > 0 {
		finder.Skip(0, prefixLen)
	}

	candidates := make([]matchopt.Match, len(src)*matchopt.MaxCandidatesPerPosition)
	finder.FindAll(prefixLen, len(src), candidates)

	chosen := matchopt.Optimize(candidates, prefixLen, len(src))

	return writeBlock(dst, src, prefixLen, len(src), chosen)
}

// writeBlock walks the parser's chosen matches left to right and emits
// LZ4 tokens, mirroring shrink.c's lz4ultra_write_block exactly: runs of
// literals accumulate until a match (or end of block) closes them, and
// both literal and match lengths spill into the 0xFF-chained varlen
// encoding once they reach the token nibble's escape value of 15.
func writeBlock(dst, src []byte, start, end int, chosen []matchopt.Match) ([]byte, int) {
	out := dst[:0]
	numLiterals := 0
	firstLiteral := 0
	commands := 0

	flushLiterals := func(tokenMatchNibble int) {
		tokenLiterals := numLiterals
		if tokenLiterals > matchopt.LiteralsRunLen {
			tokenLiterals = matchopt.LiteralsRunLen
		}
		out = append(out, byte(tokenLiterals<<4)|byte(tokenMatchNibble))
		out = appendVarlen(out, numLiterals, matchopt.LiteralsRunLen)
		if numLiterals > 0 {
			out = append(out, src[firstLiteral:firstLiteral+numLiterals]...)
			numLiterals = 0
		}
	}

	i := start
	for i < end {
		m := chosen[i]
		if m.Length < matchopt.MinMatchSize {
			if numLiterals == 0 {
				firstLiteral = i
			}
			numLiterals++
			i++
			continue
		}

		matchLen := int(m.Length)
		encodedLen := matchLen - matchopt.MinMatchSize
		tokenMatchLen := encodedLen
		if tokenMatchLen > matchopt.MatchRunLen {
			tokenMatchLen = matchopt.MatchRunLen
		}

		flushLiterals(tokenMatchLen)

		out = append(out, byte(m.Offset&0xff), byte(m.Offset>>8))
		out = appendVarlen(out, encodedLen, matchopt.MatchRunLen)

		i += matchLen
		commands++
	}

	flushLiterals(0)
	commands++

	return out, commands
}

// appendVarlen writes the 0xFF-chained extra-length bytes LZ4 uses once a
// literal or match run's length reaches its token nibble's escape value.
func appendVarlen(dst []byte, length, escape int) []byte {
	if length < escape {
		return dst
	}
	length -= escape
	for length >= 255 {
		dst = append(dst, 255)
		length -= 255
	}
	return append(dst, byte(length))
}
