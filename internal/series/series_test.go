package series

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWellFormed(t *testing.T) {
	in := "0.00 0.1 0.2 0.3 0.4\n0.01 0.5 0.6 0.7 0.8\n0.02 -1 -2 1.5 -0.5\n"

	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", s.Len())
	}
	for _, n := range []int{0, 1, 2} {
		if !s.Valid(n) {
			t.Errorf("expected index %d to be valid", n)
		}
	}
	if s.Valid(3) || s.Valid(-1) {
		t.Error("expected indices -1 and 3 to be invalid")
	}

	// q3 is ext2, q4 is ext1
	x := s.At(1)
	if x.Theta1 != 0.5 || x.Theta2 != 0.6 || x.Ext2 != 0.7 || x.Ext1 != 0.8 {
		t.Errorf("column mapping wrong: %+v", x)
	}
	if s.MaxExt2() != 1.5 {
		t.Errorf("expected max ext2 1.5, got %f", s.MaxExt2())
	}
	if math.Abs(s.Duration()-0.02) > 1e-12 {
		t.Errorf("expected duration 0.02, got %f", s.Duration())
	}
}

func TestParseExtraColumnsAndBlankLines(t *testing.T) {
	in := "\n0 0 0 0 0 9 9 9 9\n\n1 0 0 0 0 9 9 9 9\n   \n"

	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 samples, got %d", s.Len())
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"four fields", "0 0 0 0 0\n1 0 0 0\n", 2},
		{"non numeric", "0 0 abc 0 0\n", 1},
		{"non numeric trailing", "0 0 0 0 0 x\n", 1},
		{"time repeats", "0 0 0 0 0\n0 0 0 0 0\n", 2},
		{"time decreases", "1 0 0 0 0\n0.5 0 0 0 0\n", 2},
		{"nan time", "0 0 0 0 0\nNaN 0 0 0 0\n-5 0 0 0 0\n", 2},
		{"inf ext2", "0 0 0 Inf 0\n1 0 0 0 0\n", 1},
		{"negative inf angle", "0 -Inf 0 0 0\n", 1},
	}

	for _, tt := range tests {
		s, err := Parse(strings.NewReader(tt.in))
		if s != nil {
			t.Errorf("%s: expected no series, got %d samples", tt.name, s.Len())
		}
		if !errors.Is(err, ErrMalformedSample) {
			t.Errorf("%s: expected ErrMalformedSample, got %v", tt.name, err)
			continue
		}
		var se *SampleError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected *SampleError, got %T", tt.name, err)
			continue
		}
		if se.Line != tt.line {
			t.Errorf("%s: expected line %d, got %d", tt.name, tt.line, se.Line)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n\n"))
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrMissingInputFile) {
		t.Errorf("expected ErrMissingInputFile, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("0 0 0 0 0\n0.1 0 0 2 0\n0.2 0 0 1 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 samples, got %d", s.Len())
	}
	if s.MaxExt2() != 2 {
		t.Errorf("expected max ext2 2, got %f", s.MaxExt2())
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []Sample{{T: 0}, {T: 1, Ext2: 0.5}}
	s, err := New(in)
	if err != nil {
		t.Fatal(err)
	}
	in[1].Ext2 = 99
	if s.At(1).Ext2 != 0.5 {
		t.Error("series should not alias caller slice")
	}
}

func TestNewRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   []Sample
	}{
		{"nan time", []Sample{{T: 0}, {T: math.NaN()}, {T: -5}}},
		{"inf ext2", []Sample{{T: 0, Ext2: math.Inf(1)}, {T: 1}}},
	}

	for _, tt := range tests {
		s, err := New(tt.in)
		if s != nil {
			t.Errorf("%s: expected no series", tt.name)
		}
		if !errors.Is(err, ErrMalformedSample) {
			t.Errorf("%s: expected ErrMalformedSample, got %v", tt.name, err)
		}
	}
}

func TestFrameTranslation(t *testing.T) {
	if IndexForFrame(1) != 0 {
		t.Errorf("frame 1 should map to index 0")
	}
	if FrameForIndex(IndexForFrame(42)) != 42 {
		t.Errorf("frame translation should round trip")
	}
}
