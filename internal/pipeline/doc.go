// Package pipeline drives one overlay job end to end: decode frames
// from the source, rotate to the display orientation, detect a pose,
// composite the skeleton, and encode the result.
package pipeline
