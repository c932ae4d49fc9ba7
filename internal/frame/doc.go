// Package frame holds the in-memory frame representation shared by the
// pipeline stages: a packed BGR24 buffer with rotation, colorspace and
// image-library conversions.
package frame
