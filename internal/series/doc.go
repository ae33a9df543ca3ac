// Package series holds the generalized-coordinate time series that drives
// the animation.
//
// A [Series] is an immutable, time-ordered table of [Sample] rows loaded from
// a whitespace-delimited text file with columns
//
//	t q1 q2 q3 q4 [u1 ... un]
//
// where q1 and q2 are the link angles, q3 is the extension of the second
// (torsion) spring and q4 the extension of the first (vertical) spring.
// Trailing columns are accepted and ignored.
//
// # Frames
//
// Sample index n (0-based) corresponds to host timeline frame n+1. Use
// [IndexForFrame] and [FrameForIndex] at the boundary.
//
// # Thread Safety
//
// A loaded Series is never mutated and may be read from any number of
// goroutines.
package series
