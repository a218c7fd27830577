// Package pointstore owns the packed float-vector dataset a cover tree is
// built over.
//
// A Store is immutable and indexed: every point is identified by an integer
// point index pi in [0, N), and the store exposes dim, len, point(pi), and
// distance(pi_a, pi_b) to every downstream component (arena, covertree,
// tracker, baseline). Backing storage is either an in-RAM slice or a
// memory-mapped flat-float file of N*dim*4 bytes; callers see no behavioral
// difference between the two.
//
// The metric is an injectable seam: L2 is the default, but any function
// satisfying d(x,x)=0 and the triangle inequality may be substituted. The
// store never assumes symmetry beyond what the triangle inequality requires.
package pointstore
