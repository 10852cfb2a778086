package matchopt

// Match is one candidate back-reference: a run of Length bytes starting
// Offset bytes before the current position.
type Match struct {
	Offset int32
	Length int32
}

// Finder enumerates match candidates over a suffix array by walking its
// implicit LCP-interval tree. The algorithm is the one wimlib's
// lcpit_matchfinder.c implements and shrink.c ports into its suffix-array
// encoder: each suffix is linked, on first visit, into the deepest
// LCP-interval containing it; later suffixes in the same interval are
// matches of each other, discovered by ascending the interval chain.
//
// intervals and posData play the same dual role they do in shrink.c:
// intervals holds, per lcp-interval, either the link to its
// superinterval (until the interval is first visited) or the position
// that visited it most recently; posData holds, per position, the link
// to the deepest interval containing that position's suffix.
type Finder struct {
	sa           *SuffixArray
	intervals    []uint64 // interval tree; see buildIntervals
	posData      []uint64 // per-position link into the interval tree
	openInterval []uint64 // interval construction stack
}

const (
	lcpShift = 24
	lcpMask  = uint64(MaxLCP-1) << lcpShift
	posMask  = (uint64(1) << lcpShift) - 1
)

// NewFinder builds the LCP-interval tree for sa, readying the Finder to
// answer FindAt queries in left-to-right position order starting at
// position 0. The tree construction is a single linear pass over the
// suffix array (shrink.c's lz4ultra_build_suffix_array, interval portion).
func NewFinder(sa *SuffixArray) *Finder {
	n := sa.Len()
	f := &Finder{
		sa:           sa,
		intervals:    make([]uint64, n),
		posData:      make([]uint64, n),
		openInterval: make([]uint64, n+1),
	}
	if n == 0 {
		return f
	}
	f.buildIntervals()
	return f
}

func (f *Finder) lcpAt(rank int) uint64 {
	l := int64(f.sa.lcp[rank])
	if l < MinMatchSize {
		l = 0
	}
	if l > MaxLCP-1 {
		l = MaxLCP - 1
	}
	return uint64(l) << lcpShift
}

func (f *Finder) buildIntervals() {
	n := f.sa.Len()
	sa := f.sa.sa

	top := 0
	f.openInterval[0] = 0
	f.intervals[0] = 0
	nextIntervalIdx := uint64(1)
	prevPos := uint64(sa[0])

	for r := 1; r < n; r++ {
		nextPos := uint64(sa[r])
		nextLCP := f.lcpAt(r)
		topLCP := f.openInterval[top] & lcpMask

		switch {
		case nextLCP == topLCP:
			f.posData[prevPos] = f.openInterval[top]
		case nextLCP > topLCP:
			top++
			f.openInterval[top] = nextLCP | nextIntervalIdx
			nextIntervalIdx++
			f.posData[prevPos] = f.openInterval[top]
		default:
			f.posData[prevPos] = f.openInterval[top]
			for {
				closedIdx := f.openInterval[top] & posMask
				top--
				superLCP := f.openInterval[top] & lcpMask

				if nextLCP == superLCP {
					f.intervals[closedIdx] = f.openInterval[top]
					break
				} else if nextLCP > superLCP {
					top++
					f.openInterval[top] = nextLCP | nextIntervalIdx
					nextIntervalIdx++
					f.intervals[closedIdx] = f.openInterval[top]
					break
				} else {
					f.intervals[closedIdx] = f.openInterval[top]
				}
			}
		}
		prevPos = nextPos
	}

	f.posData[prevPos] = f.openInterval[top]
	for top > 0 {
		idx := f.openInterval[top] & posMask
		top--
		f.intervals[idx] = f.openInterval[top]
	}
}

// FindAt returns up to maxMatches candidates for the suffix starting at
// offset, longest-LCP-interval first; occurrences more than MaxOffset
// bytes back are left out. It must
// be called with offset values in strictly increasing order starting from
// 0 (or from the end of a skipped prefix via Skip), since each call
// mutates the interval tree to link offset in for future queries — the
// same incremental-construction trick shrink.c relies on to make the
// whole match-finding pass amortized linear.
func (f *Finder) FindAt(offset int, matches []Match, maxMatches int) int {
	// Visited intervals store the visiting position tagged with
	// visitedFlag, so that a visit by position 0 is not mistaken for a
	// link to the root interval (whose value is 0).
	const visitedFlag = uint64(1) << 63
	cur := uint64(offset) | visitedFlag

	ref := f.posData[offset]
	f.posData[offset] = 0

	var superRef uint64
	for {
		superRef = f.intervals[ref&posMask]
		if superRef&lcpMask == 0 {
			break
		}
		f.intervals[ref&posMask] = cur
		ref = superRef
	}

	if superRef == 0 {
		if ref != 0 {
			f.intervals[ref&posMask] = cur
		}
		return 0
	}

	matchPos := superRef & posMask
	count := 0

	for {
		superRef = f.posData[matchPos]
		for superRef > ref {
			matchPos = f.intervals[superRef&posMask] & posMask
			superRef = f.posData[matchPos]
		}
		f.intervals[ref&posMask] = cur
		f.posData[matchPos] = ref

		if count < maxMatches {
			matchOffset := int64(offset) - int64(matchPos)
			if matchOffset <= MaxOffset {
				matches[count] = Match{
					Offset: int32(matchOffset),
					Length: int32(ref >> lcpShift),
				}
				count++
			}
		}

		if superRef == 0 {
			break
		}
		ref = superRef
		matchPos = f.intervals[ref&posMask] & posMask
	}

	return count
}

// Skip advances the finder across [start, end) without recording any
// matches, only performing the lazy interval-tree updates FindAt would
// otherwise do — used to walk past a dictionary or previous-block prefix
// that matches may reference but that itself needs no candidates of its
// own.
func (f *Finder) Skip(start, end int) {
	scratch := make([]Match, 1)
	for i := start; i < end; i++ {
		f.FindAt(i, scratch, 0)
	}
}

// FindAll enumerates candidates for every position in [start, end),
// storing up to MaxCandidatesPerPosition per position, clamped so that no
// match crosses within LastLiterals of end and no match starts within
// LastMatchOffset of end. out must have length (end)*MaxCandidatesPerPosition
// or more; candidates for position i live at out[i*MaxCandidatesPerPosition:].
func (f *Finder) FindAll(start, end int, out []Match) {
	buf := make([]Match, MaxCandidatesPerPosition)
	for i := start; i < end; i++ {
		n := 0
		if i <= end-LastMatchOffset {
			n = f.FindAt(i, buf, MaxCandidatesPerPosition)
		} else {
			f.FindAt(i, buf, 0)
		}

		base := i * MaxCandidatesPerPosition
		for m := 0; m < MaxCandidatesPerPosition; m++ {
			if m >= n {
				out[base+m] = Match{}
				continue
			}
			cand := buf[m]
			maxLen := int32((end - LastLiterals) - i)
			if maxLen < 0 {
				maxLen = 0
			}
			if cand.Length > maxLen {
				cand.Length = maxLen
			}
			out[base+m] = cand
		}
	}
}
