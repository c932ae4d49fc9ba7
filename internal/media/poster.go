package media

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"

	"pose-viewer/internal/frame"
	"pose-viewer/internal/logging"
)

// PosterWidth is the target width of generated poster images. Height
// follows the frame's aspect ratio.
const PosterWidth = 480

// SavePoster writes a JPEG poster for the given frame. libvips does the
// resize and encode when available; otherwise the pure-Go path is used.
func SavePoster(f *frame.Frame, path string) error {
	img := f.ToNRGBA()

	if IsVipsAvailable() {
		data, err := encodeJpegWithVips(img, PosterWidth)
		if err == nil {
			return os.WriteFile(path, data, 0o644)
		}
		logging.Warn("vips poster encode failed, falling back: %v", err)
	}

	out := img
	if img.Bounds().Dx() > PosterWidth {
		out = imaging.Resize(img, PosterWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(out, path, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("save poster: %w", err)
	}
	return nil
}
