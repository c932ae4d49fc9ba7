// Package video provides the source and sink adapters for the pose
// overlay pipeline, plus stream metadata probing.
//
// Decoding and encoding are performed by ffmpeg child processes
// exchanging packed BGR24 frames over pipes; metadata (geometry, frame
// rate, rotation tags) comes from ffprobe. Both binaries must be on
// PATH.
package video
