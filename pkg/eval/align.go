package eval

// Aligner scores a candidate action sequence against a reference sequence
// given a node correspondence. The correspondence maps candidate positions to
// reference positions, with Unmatched for candidates that have no
// counterpart.
type Aligner struct {
	// Ordered selects order-sensitive scoring. When set, the number of
	// correct actions is the length of the longest run of candidates whose
	// reference positions strictly increase. When unset only coverage
	// counts, order is ignored.
	Ordered bool
}

// Align computes precision, recall and F1 for a correspondence between a
// candidate sequence of length nCand and a reference sequence of length nRef.
func (a Aligner) Align(matching map[int]int, nCand, nRef int) Score {
	if nCand == 0 || nRef == 0 {
		return zeroScore
	}
	if a.Ordered {
		return alignOrdered(matching, nCand, nRef)
	}
	return alignUnordered(matching, nCand, nRef)
}

// alignOrdered counts correct actions as the longest increasing subsequence
// of mapped reference positions. Every candidate seeds a run of length one,
// matched or not, so a non-empty candidate always scores at least 1/nCand.
func alignOrdered(matching map[int]int, nCand, nRef int) Score {
	dp := make([]int, nCand)
	for i := range dp {
		dp[i] = 1
	}
	for i := 0; i < nCand; i++ {
		for j := 0; j < i; j++ {
			if matching[i] == Unmatched || matching[j] == Unmatched {
				continue
			}
			if matching[i] > matching[j] && dp[j]+1 > dp[i] {
				dp[i] = dp[j] + 1
			}
		}
	}
	correct := 0
	for _, d := range dp {
		if d > correct {
			correct = d
		}
	}
	return newScore(float64(correct)/float64(nCand), float64(correct)/float64(nRef))
}

// alignUnordered counts every matched candidate as correct regardless of
// position.
func alignUnordered(matching map[int]int, nCand, nRef int) Score {
	correct := 0
	covered := make(map[int]bool, nCand)
	for i := 0; i < nCand; i++ {
		if matching[i] != Unmatched {
			correct++
			covered[matching[i]] = true
		}
	}
	return newScore(float64(correct)/float64(nCand), float64(len(covered))/float64(nRef))
}
