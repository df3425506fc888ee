package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

// pdfRasterizer drives a pdftoppm-compatible converter. The converter's own
// page numbering varies with page count, so pages are rendered into a scratch
// directory first and renamed into the slide naming scheme afterwards.
type pdfRasterizer struct {
	logger  outbound.LoggerPort
	command []string
	width   int
	height  int
	timeout time.Duration
}

func NewPDFRasterizer(logger outbound.LoggerPort, cfg *config.Config) (outbound.RasterizerPort, error) {
	command, err := parseCommand(cfg.Tools.Rasterizer)
	if err != nil {
		return nil, err
	}
	return &pdfRasterizer{
		logger:  logger,
		command: command,
		width:   cfg.Render.SlideWidth,
		height:  cfg.Render.SlideHeight,
		timeout: time.Duration(cfg.Render.TimeoutSeconds) * time.Second,
	}, nil
}

func (p *pdfRasterizer) Rasterize(ctx context.Context, pdfPath string, destDir string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := os.Stat(pdfPath); err != nil {
		return 0, &domain.ConfigError{Field: "paths.pdf", Reason: err.Error()}
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}
	scratch := filepath.Join(destDir, ".raster-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return 0, err
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			p.logger.Error(err, "Failed to remove rasterizer scratch directory")
		}
	}()

	err := runCommand(ctx, p.command,
		"-png",
		"-scale-to-x", fmt.Sprint(p.width),
		"-scale-to-y", fmt.Sprint(p.height),
		pdfPath,
		filepath.Join(scratch, "page"),
	)
	if err != nil {
		return 0, err
	}

	pages, err := filepath.Glob(filepath.Join(scratch, "page-*.png"))
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, fmt.Errorf("rasterizer produced no pages for %s", pdfPath)
	}
	// Converter output sorts correctly by name because it pads page numbers
	// to a fixed width per document.
	sort.Strings(pages)

	for i, page := range pages {
		dest := filepath.Join(destDir, domain.SlideImageName(i+1))
		if err := os.Rename(page, dest); err != nil {
			return 0, fmt.Errorf("place page %d: %w", i+1, err)
		}
	}
	p.logger.InfoWithFields("rasterized slide deck", map[string]interface{}{
		"pdf":   pdfPath,
		"pages": len(pages),
	})
	return len(pages), nil
}
