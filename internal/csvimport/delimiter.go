package csvimport

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Candidates lists the recognised separators in tie-break order.
var Candidates = []byte{',', ';', '\t', '|'}

// DefaultSampleBytes is how much of an upload is inspected when sniffing.
const DefaultSampleBytes = 1024

// DetectDelimiter returns the candidate that occurs most often in sample.
// Ties go to the earlier candidate; an empty or separator-free sample yields a comma.
func DetectDelimiter(sample []byte) rune {
	best := Candidates[0]
	bestCount := 0
	for _, c := range Candidates {
		if n := bytes.Count(sample, []byte{c}); n > bestCount {
			best, bestCount = c, n
		}
	}
	return rune(best)
}

// Sniff peeks at up to n bytes of br without consuming them.
func Sniff(br *bufio.Reader, n int) (rune, error) {
	if n <= 0 {
		n = DefaultSampleBytes
	}
	sample, err := br.Peek(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}
	return DetectDelimiter(sample), nil
}
