package matchopt

// literalsVarlenSize returns the number of extra bytes LZ4 needs to encode
// a literals run length once it has reached the LITERALS_RUN_LEN escape.
func literalsVarlenSize(length int) int {
	if length < LiteralsRunLen {
		return 0
	}
	return (length - LiteralsRunLen + 255) / 255
}

// matchVarlenSize mirrors literalsVarlenSize for an encoded match length
// (actual length minus MinMatchSize).
func matchVarlenSize(length int) int {
	if length < MatchRunLen {
		return 0
	}
	return (length - MatchRunLen + 255) / 255
}

// Optimize runs the two-pass optimal parse over candidates (as produced by
// Finder.FindAll, MaxCandidatesPerPosition entries per position) and
// returns, for each position in [start, end), the match chosen there (zero
// Match meaning "emit a literal byte instead").
//
// Pass one (chooseMatches) is a right-to-left dynamic program: cost[i] is
// the minimum number of encoded bytes needed for [i, end), and at each
// position every candidate match length is tried (not just the longest
// match at that position) because a shorter match can let the *next*
// command avoid crossing a varlen-size boundary and come out cheaper
// overall. Pass two (reduceCommandCount) then trades ratio-neutral space
// for fewer tokens, merging or dropping matches that cost nothing extra to
// encode as literals, which speeds up decoding without growing the
// output.
func Optimize(candidates []Match, start, end int) []Match {
	chosen := make([]Match, end)
	if end <= start {
		return chosen
	}
	chooseMatches(candidates, chosen, start, end)
	reduceCommandCount(chosen, start, end)
	return chosen
}

func chooseMatches(candidates, chosen []Match, start, end int) {
	cost := make([]int, end+1)
	cost[end-1] = 1
	lastLiteralsOffset := end

	for i := end - 2; i >= start; i-- {
		literalsLen := lastLiteralsOffset - i
		bestCost := 1 + cost[i+1]
		if literalsLen >= LiteralsRunLen && (literalsLen-LiteralsRunLen)%255 == 0 {
			bestCost++
		}
		bestLen, bestOffset := int32(0), int32(0)

		base := i * MaxCandidatesPerPosition
		for m := 0; m < MaxCandidatesPerPosition; m++ {
			cand := candidates[base+m]

			if cand.Length >= LeaveAloneMatchSize {
				matchLen := int(cand.Length)
				if i+matchLen > end-LastLiterals {
					matchLen = end - LastLiterals - i
				}
				curCost := 1 + 2 + matchVarlenSize(matchLen-MinMatchSize) + cost[i+matchLen]
				if bestCost >= curCost {
					bestCost = curCost
					bestLen = int32(matchLen)
					bestOffset = cand.Offset
				}
				continue
			}

			if cand.Length < MinMatchSize {
				continue
			}

			matchLen := int(cand.Length)
			if i+matchLen > end-LastLiterals {
				matchLen = end - LastLiterals - i
			}
			matchRunLen := matchLen
			if matchRunLen > MatchRunLen {
				matchRunLen = MatchRunLen
			}

			k := MinMatchSize
			for ; k < matchRunLen; k++ {
				curCost := 1 + 2 + cost[i+k]
				if bestCost >= curCost {
					bestCost = curCost
					bestLen = int32(k)
					bestOffset = cand.Offset
				}
			}
			for ; k <= matchLen; k++ {
				curCost := 1 + 2 + matchVarlenSize(k-MinMatchSize) + cost[i+k]
				if bestCost >= curCost {
					bestCost = curCost
					bestLen = int32(k)
					bestOffset = cand.Offset
				}
			}
		}

		if bestLen >= MinMatchSize {
			lastLiteralsOffset = i
		}

		cost[i] = bestCost
		chosen[i] = Match{Offset: bestOffset, Length: bestLen}
	}
}

// reduceCommandCount mirrors lz4ultra_optimize_command_count: short matches
// that would not shrink the output if replaced by literals (because the
// following command's varlen literal-count encoding absorbs them for
// free) are turned back into literals, and adjoining offset-1 (RLE-style)
// matches that together exceed the per-interval length cap are joined
// into a single oversized match so the writer can still emit one token.
func reduceCommandCount(chosen []Match, start, end int) {
	numLiterals := 0

	for i := start; i < end; {
		m := chosen[i]
		if m.Length < MinMatchSize {
			numLiterals++
			i++
			continue
		}

		matchLen := int(m.Length)
		reduce := false

		if matchLen <= 19 && i+matchLen < end {
			encodedLen := matchLen - MinMatchSize
			commandSize := 1 + literalsVarlenSize(numLiterals) + 2 + matchVarlenSize(encodedLen)

			if chosen[i+matchLen].Length >= MinMatchSize {
				if commandSize >= matchLen+literalsVarlenSize(numLiterals+matchLen) {
					reduce = true
				}
			} else {
				nextIdx := i + matchLen
				nextLiterals := 0
				for {
					nextIdx++
					nextLiterals++
					if nextIdx >= end || chosen[nextIdx].Length >= MinMatchSize {
						break
					}
				}
				if commandSize >= matchLen+literalsVarlenSize(numLiterals+nextLiterals+matchLen)-literalsVarlenSize(nextLiterals) {
					reduce = true
				}
			}
		}

		if reduce {
			for j := 0; j < matchLen; j++ {
				chosen[i+j] = Match{}
			}
			numLiterals += matchLen
			i += matchLen
			continue
		}

		if i+matchLen < end && matchLen >= MaxLCP-1 && m.Offset == 1 && chosen[i+matchLen].Offset == 1 {
			chosen[i].Length += chosen[i+matchLen].Length
			chosen[i+matchLen] = Match{Offset: 0, Length: -1}
			continue
		}

		numLiterals = 0
		i += matchLen
	}
}
