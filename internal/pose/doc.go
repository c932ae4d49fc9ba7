// Package pose defines the landmark model for human pose detection and
// the subprocess worker that produces landmarks from RGB frames.
package pose
