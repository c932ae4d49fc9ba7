// Package overlay renders detected pose skeletons onto video frames.
package overlay
