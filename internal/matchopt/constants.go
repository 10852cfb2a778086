// Package matchopt finds and selects LZ4 matches using a suffix array of
// the current compression window, then picks the sequence of literal runs
// and matches that minimizes the encoded size of the block.
//
// The design is ported from lz4ultra's shrink.c: a suffix array plus an
// LCP-interval forest enumerates every earlier occurrence of the string at
// each position (longest first), and a right-to-left dynamic program picks
// the cheapest literal/match sequence under LZ4's token encoding.
package matchopt

const (
	// MinMatchSize is the shortest match LZ4 can encode.
	MinMatchSize = 4

	// MinOffset and MaxOffset bound a match's back-reference distance.
	MinOffset = 1
	MaxOffset = 65535

	// LiteralsRunLen and MatchRunLen are the token nibble values (15) that
	// signal a variable-length run continues in subsequent bytes.
	LiteralsRunLen = 15
	MatchRunLen    = 15

	// LastMatchOffset and LastLiterals enforce LZ4's block-tail rule: the
	// final LastLiterals bytes of a block must be literals, and the last
	// match may not start within LastMatchOffset bytes of the block end.
	LastMatchOffset = 12
	LastLiterals    = 5

	// MaxCandidatesPerPosition caps how many match candidates the
	// interval walk keeps for the parser to consider at each position.
	MaxCandidatesPerPosition = 8

	// LeaveAloneMatchSize is the length above which the parser stops
	// enumerating every intermediate match length and just takes the
	// longest one outright: the extra run-length byte is always worth it
	// for matches this long, so there's nothing to optimize.
	LeaveAloneMatchSize = 1000

	// MaxLCP bounds the match length tracked per suffix-array interval;
	// matches longer than this are still fully usable, just clamped when
	// stored in an interval node (mirrors shrink.c's LCP_MAX).
	MaxLCP = 1 << 14
)
