package canvas

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportName returns the file name used for an export taken at now.
func ExportName(now time.Time) string {
	return fmt.Sprintf("drive-canvas-%s.png", now.Format("2006-01-02-150405"))
}

// ExportPNG writes the surface to dir and returns the file path.
func (r *Raster) ExportPNG(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}
