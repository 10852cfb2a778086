package matchopt

// SuffixArray holds the sorted-suffix order of a byte window together with
// its longest-common-prefix array, which the interval walk in intervals.go
// consumes to enumerate match candidates without ever comparing bytes
// itself.
//
// The original encoder (shrink.c) builds its suffix array with Yuta Mori's
// libdivsufsort and then derives the LCP array by the Kärkkäinen-Sanders
// permuted-LCP method. divsufsort is a C library with no Cgo-free Go
// binding in the retrieved examples, so SA construction here uses the
// classic Manber-Myers prefix-doubling algorithm instead, with a
// hand-written quicksort per doubling round: O(N log² N) expected. The
// PLCP derivation itself is carried over unchanged, since it needs only
// the suffix array, not how it was built.
type SuffixArray struct {
	data []byte
	sa   []int32 // sa[i] = starting offset of the suffix ranked i
	rank []int32 // rank[p] = i such that sa[i] == p (inverse permutation)
	lcp  []int32 // lcp[i] = longest common prefix of suffixes ranked i-1 and i; lcp[0] = 0
}

// Build constructs the suffix array and LCP array for data. data is the
// full compression window (dictionary prefix, if any, followed by the
// bytes being compressed).
func Build(data []byte) *SuffixArray {
	n := len(data)
	s := &SuffixArray{data: data}
	if n == 0 {
		return s
	}

	s.sa = prefixDoublingSA(data)
	s.rank = make([]int32, n)
	for i, p := range s.sa {
		s.rank[p] = int32(i)
	}
	s.lcp = permutedLCP(data, s.sa, s.rank)
	return s
}

// prefixDoublingSA implements the Manber-Myers prefix-doubling suffix sort
// (O(N log² N) expected with a comparison sort per round): each
// round doubles the prefix length whose rank is known, using the
// already-known ranks as a radix key so the whole round is one sort.
func prefixDoublingSA(data []byte) []int32 {
	n := len(data)
	sa := make([]int32, n)
	rank := make([]int32, n)
	tmp := make([]int32, n)

	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int32(data[i])
	}

	for k := 1; ; k *= 2 {
		key := func(i int32) (int32, int32) {
			r1 := rank[i]
			r2 := int32(-1)
			if int(i)+k < n {
				r2 = rank[i+int32(k)]
			}
			return r1, r2
		}

		sortIndicesByKey(sa, key)

		tmp[sa[0]] = 0
		sorted := true
		for i := 1; i < n; i++ {
			pr1, pr2 := key(sa[i-1])
			cr1, cr2 := key(sa[i])
			tmp[sa[i]] = tmp[sa[i-1]]
			if pr1 != cr1 || pr2 != cr2 {
				tmp[sa[i]]++
			}
			if tmp[sa[i]] != int32(i) {
				sorted = false
			}
		}
		copy(rank, tmp)

		if sorted || k >= n {
			break
		}
	}

	return sa
}

// sortIndicesByKey sorts sa in place by the (primary, secondary) rank pair
// key returns for each element. A hand-written median-of-3 quicksort that
// falls back to insertion sort on short ranges: correctness over
// micro-optimized radix passes, since the
// interval walk that follows dominates runtime on realistic inputs.
func sortIndicesByKey(sa []int32, key func(int32) (int32, int32)) {
	quickSortSA(sa, key, 0, len(sa)-1)
}

func quickSortSA(sa []int32, key func(int32) (int32, int32), lo, hi int) {
	for lo < hi {
		if hi-lo < 12 {
			insertionSortSA(sa, key, lo, hi)
			return
		}
		p := partitionSA(sa, key, lo, hi)
		if p-lo < hi-p {
			quickSortSA(sa, key, lo, p-1)
			lo = p + 1
		} else {
			quickSortSA(sa, key, p+1, hi)
			hi = p - 1
		}
	}
}

func insertionSortSA(sa []int32, key func(int32) (int32, int32), lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		v := sa[i]
		vk1, vk2 := key(v)
		j := i - 1
		for j >= lo {
			jk1, jk2 := key(sa[j])
			if jk1 < vk1 || (jk1 == vk1 && jk2 <= vk2) {
				break
			}
			sa[j+1] = sa[j]
			j--
		}
		sa[j+1] = v
	}
}

func partitionSA(sa []int32, key func(int32) (int32, int32), lo, hi int) int {
	mid := lo + (hi-lo)/2
	medianOf3SA(sa, key, lo, mid, hi)
	pivot := sa[mid]
	sa[mid], sa[hi-1] = sa[hi-1], sa[mid]
	pk1, pk2 := key(pivot)

	i := lo
	for j := lo; j < hi-1; j++ {
		jk1, jk2 := key(sa[j])
		if jk1 < pk1 || (jk1 == pk1 && jk2 < pk2) {
			sa[i], sa[j] = sa[j], sa[i]
			i++
		}
	}
	sa[i], sa[hi-1] = sa[hi-1], sa[i]
	return i
}

func medianOf3SA(sa []int32, key func(int32) (int32, int32), a, b, c int) {
	ak1, ak2 := key(sa[a])
	bk1, bk2 := key(sa[b])
	ck1, ck2 := key(sa[c])
	less := func(x1, x2, y1, y2 int32) bool { return x1 < y1 || (x1 == y1 && x2 < y2) }
	if less(bk1, bk2, ak1, ak2) {
		sa[a], sa[b] = sa[b], sa[a]
		ak1, ak2, bk1, bk2 = bk1, bk2, ak1, ak2
	}
	if less(ck1, ck2, ak1, ak2) {
		sa[a], sa[c] = sa[c], sa[a]
		ak1, ak2, ck1, ck2 = ck1, ck2, ak1, ak2
	}
	if less(ck1, ck2, bk1, bk2) {
		sa[b], sa[c] = sa[c], sa[b]
	}
}

// permutedLCP derives the LCP array from the suffix array and its rank
// permutation without ever building the explicit inverse suffix array walk
// Kasai's algorithm needs; this is the Kärkkäinen-Sanders method shrink.c
// uses, chosen there (and here) for better cache locality on long inputs.
func permutedLCP(data []byte, sa, rank []int32) []int32 {
	n := len(data)
	lcp := make([]int32, n)
	if n == 0 {
		return lcp
	}

	// phi[p] = the suffix preceding p's suffix in sorted order, i.e. the
	// suffix that will sit immediately before p once we walk by position.
	phi := make([]int32, n)
	phi[sa[0]] = -1
	for i := 1; i < n; i++ {
		phi[sa[i]] = sa[i-1]
	}

	plcp := make([]int32, n)
	h := int32(0)
	for i := 0; i < n; i++ {
		j := phi[i]
		if j < 0 {
			plcp[i] = 0
			h = 0
			continue
		}
		for int(i)+int(h) < n && int(j)+int(h) < n && data[i+int(h)] == data[int(j)+int(h)] {
			h++
		}
		plcp[i] = h
		if h > 0 {
			h--
		}
	}

	for i := 0; i < n; i++ {
		lcp[i] = plcp[sa[i]]
	}
	lcp[0] = 0
	return lcp
}

// Len reports the number of bytes covered by the suffix array.
func (s *SuffixArray) Len() int { return len(s.data) }
