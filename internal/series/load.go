package series

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Load reads a coordinate file from disk.
func Load(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingInputFile, path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads whitespace-delimited rows from r. Any malformed row aborts the
// whole parse; no partial series is returned.
func Parse(r io.Reader) (*Series, error) {
	samples := make([]Sample, 0, 256)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < Columns {
			return nil, &SampleError{
				Line:    line,
				Reason:  fmt.Sprintf("want at least %d fields, got %d", Columns, len(fields)),
				Wrapped: ErrMalformedSample,
			}
		}

		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &SampleError{Line: line, Field: i + 1, Reason: fmt.Sprintf("not a number %q", f), Wrapped: ErrMalformedSample}
			}
			if i < Columns && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, &SampleError{Line: line, Field: i + 1, Reason: fmt.Sprintf("not finite %q", f), Wrapped: ErrMalformedSample}
			}
			row[i] = v
		}

		x := Sample{T: row[0], Theta1: row[1], Theta2: row[2], Ext2: row[3], Ext1: row[4]}
		if n := len(samples); n > 0 && x.T <= samples[n-1].T {
			return nil, &SampleError{Line: line, Field: 1, Reason: "time not strictly increasing", Wrapped: ErrMalformedSample}
		}
		samples = append(samples, x)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return New(samples)
}
