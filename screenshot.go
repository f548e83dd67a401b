package geoview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot of w, captured after the window's
// next recorded frame. Backends write it as a PNG with a timestamped name.
func (w *Window) Screenshot(label string) {
	w.screenshotQueue = append(w.screenshotQueue, label)
}

// PendingScreenshots returns the labels waiting for capture.
func (w *Window) PendingScreenshots() []string {
	return w.screenshotQueue
}

// takeScreenshots returns and clears the queued labels.
func (w *Window) takeScreenshots() []string {
	labels := w.screenshotQueue
	w.screenshotQueue = nil
	return labels
}

// writeScreenshots writes one PNG per label into dir from premultiplied RGBA
// pixels of a width x height frame. It returns the written paths.
func writeScreenshots(dir string, labels []string, pixels []byte, width, height int) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}

	img := unpremultiply(pixels, width, height)
	stamp := time.Now().Format("20060102_150405")

	var paths []string
	for _, label := range labels {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			return paths, fmt.Errorf("screenshot: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// unpremultiply converts premultiplied RGBA to straight-alpha NRGBA.
func unpremultiply(pixels []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	n := min(len(pixels), len(img.Pix))
	for i := 0; i+3 < n; i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
