package matchopt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeChosen(t *testing.T, data []byte, chosen []Match, start, end int) []byte {
	t.Helper()
	var out []byte
	i := start
	for i < end {
		m := chosen[i]
		if m.Length < MinMatchSize {
			out = append(out, data[i])
			i++
			continue
		}
		srcStart := i - int(m.Offset)
		require.GreaterOrEqual(t, srcStart, 0)
		for k := 0; k < int(m.Length); k++ {
			out = append(out, out[srcStart-start+k])
		}
		i += int(m.Length)
	}
	return out
}

func TestOptimizeRoundTrips(t *testing.T) {
	inputs := [][]byte{
		[]byte("aaaaaaaa"),
		[]byte("abcabcabcabcabcabcabc"),
		[]byte("the quick brown fox jumps over the lazy dog, the quick brown fox runs"),
		[]byte("mississippi river mississippi delta mississippi"),
	}

	for _, data := range inputs {
		sa := Build(data)
		finder := NewFinder(sa)
		candidates := make([]Match, len(data)*MaxCandidatesPerPosition)
		finder.FindAll(0, len(data), candidates)

		chosen := Optimize(candidates, 0, len(data))
		got := decodeChosen(t, data, chosen, 0, len(data))
		require.Equal(t, data, got)
	}
}

func TestOptimizeNeverCrossesTailBoundary(t *testing.T) {
	data := []byte("abcdefabcdefabcdefabcdefabcdef")
	sa := Build(data)
	finder := NewFinder(sa)
	candidates := make([]Match, len(data)*MaxCandidatesPerPosition)
	finder.FindAll(0, len(data), candidates)
	chosen := Optimize(candidates, 0, len(data))

	for i, m := range chosen {
		if m.Length < MinMatchSize {
			continue
		}
		require.LessOrEqual(t, i+int(m.Length), len(data)-LastLiterals)
	}
}

func TestOptimizeEmptyRange(t *testing.T) {
	chosen := Optimize(nil, 0, 0)
	require.Empty(t, chosen)
}
