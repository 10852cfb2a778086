// Package lz4x implements an LZ4-compatible block and frame codec tuned
// for compression ratio rather than speed: matches are found with a
// suffix array over the whole window and selected with a dynamic program
// that minimizes the number of encoded bytes, instead of the greedy or
// lazy matching most LZ4 encoders use.
//
// The wire format is exactly LZ4's: callers can decompress the blocks and
// frames this package produces with any conforming LZ4 decoder. This
// package decompresses frames from other LZ4 encoders only when their
// descriptor declares no content size, no block checksums and no
// dictionary ID; a content checksum, if present, is not read or verified.
package lz4x
