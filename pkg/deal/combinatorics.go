package deal

// binomial computes C(n, k) for the small values this package needs
// (n <= 52, k <= 7), using the standard multiplicative formula —
// values stay at or under C(52,7) ≈ 1.34e8, no overflow risk in int64.
func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// colexRank computes the colexicographic rank of a strictly increasing
// combination (the standard combinatorial number system): rank =
// sum_i C(ordinals[i], i+1).
func colexRank(ordinals []int) int64 {
	var rank int64
	for i, c := range ordinals {
		rank += binomial(c, i+1)
	}
	return rank
}

// colexUnrank inverts colexRank for a combination of size k, returning
// the ordinals in strictly increasing order.
func colexUnrank(rank int64, k int) []int {
	ordinals := make([]int, k)
	for i := k; i >= 1; i-- {
		c := i - 1
		for binomial(c+1, i) <= rank {
			c++
		}
		ordinals[i-1] = c
		rank -= binomial(c, i)
	}
	return ordinals
}

// reduceOrdinal maps a card ordinal into the index it occupies once the
// (sorted ascending) excluded ordinals are removed from the 0..51
// space — the standard trick for colex-ranking a combination drawn
// from a reduced deck without materializing the reduced deck.
func reduceOrdinal(o int, excluded []int) int {
	shift := 0
	for _, e := range excluded {
		if e < o {
			shift++
		}
	}
	return o - shift
}

// expandOrdinal inverts reduceOrdinal: given an index into the reduced
// deck and the same (sorted ascending) excluded ordinals, recovers the
// original 0..51 ordinal.
func expandOrdinal(r int, excluded []int) int {
	o := r
	for _, e := range excluded {
		if e <= o {
			o++
		} else {
			break
		}
	}
	return o
}

// forEachCombination calls cb with every strictly increasing
// k-combination of {0, ..., n-1}, in colex order.
func forEachCombination(n, k int, cb func([]int)) {
	if k == 0 {
		cb(nil)
		return
	}
	if k > n {
		return
	}
	combo := make([]int, k)
	for i := range combo {
		combo[i] = i
	}
	for {
		cb(append([]int(nil), combo...))
		i := k - 1
		for i >= 0 && combo[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		combo[i]++
		for j := i + 1; j < k; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
}
