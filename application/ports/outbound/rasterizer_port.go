package outbound

import "context"

// RasterizerPort converts a PDF into one numbered image per page. Returns the
// page count; page n lands at the path the slide naming scheme expects for id n.
type RasterizerPort interface {
	Rasterize(ctx context.Context, pdfPath string, destDir string) (int, error)
}
