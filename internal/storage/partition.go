package storage

// span is a half-open range of row indices covered by one worker partition.
type span struct {
	start, end int
}

func (s span) len() int { return s.end - s.start }

// partitionSpans splits [0, length) into workers contiguous, order-preserving
// spans. The first workers-1 spans hold floor(length/workers) rows each; the
// last takes the remainder, so it is never smaller than the others. When
// length < workers the trailing spans are empty.
func partitionSpans(length, workers int) []span {
	spans := make([]span, workers)
	size := length / workers

	for i := 0; i < workers-1; i++ {
		spans[i] = span{start: i * size, end: (i + 1) * size}
	}
	spans[workers-1] = span{start: (workers - 1) * size, end: length}

	return spans
}

// partitionIndices splits an ascending index sequence into one subset per
// span, mirroring the value partitioning: subset i contains exactly the
// indices that fall inside spans[i], so a reduce task never reaches outside
// its own value slice. Concatenating the subsets in span order reproduces
// the input.
func partitionIndices(indices []int, spans []span) [][]int {
	subsets := make([][]int, len(spans))
	pos := 0
	for i, s := range spans {
		start := pos
		for pos < len(indices) && indices[pos] < s.end {
			pos++
		}
		subsets[i] = indices[start:pos]
	}
	return subsets
}
