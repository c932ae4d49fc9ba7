// Package media generates poster images for processed videos. It
// prefers libvips for resize and encode and falls back to a pure-Go
// path when vips is unavailable.
package media
