package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"country-pulse-go/internal/models"

	"github.com/fogleman/gg"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth  = 800
	imageHeight = 480
)

// TopEntry is one bar row on the summary card.
type TopEntry struct {
	Name         string
	EstimatedGdp decimal.Decimal
}

// Summary is the data a summary card is drawn from.
type Summary struct {
	TotalCountries  int64
	LastRefreshedAt time.Time
	TopCountries    []TopEntry
}

// Renderer produces a visual artifact from refresh summary data.
type Renderer interface {
	Render(summary Summary) error
	Path() string
}

// Compile-time check: *ImageRenderer must satisfy Renderer.
var _ Renderer = (*ImageRenderer)(nil)

// ImageRenderer draws a PNG summary card into a single well-known slot,
// overwriting it on every render. No history is kept.
type ImageRenderer struct {
	path string
}

func NewImageRenderer(cfg models.RenderConfig) (*ImageRenderer, error) {
	if cfg.ImagePath == "" {
		return nil, fmt.Errorf("summary image path cannot be empty")
	}
	return &ImageRenderer{path: cfg.ImagePath}, nil
}

func (r *ImageRenderer) Path() string {
	return r.path
}

// Render draws the card and atomically replaces the configured slot. The
// temp file lives in the target directory so the rename never crosses
// filesystems.
func (r *ImageRenderer) Render(summary Summary) error {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	// Background
	dc.SetRGB(0.09, 0.11, 0.16)
	dc.Clear()

	// Header
	dc.SetRGB(1, 1, 1)
	dc.DrawString("COUNTRY ECONOMIC SUMMARY", 24, 36)
	dc.SetRGB(0.7, 0.73, 0.8)
	dc.DrawString(fmt.Sprintf("Countries tracked: %d", summary.TotalCountries), 24, 60)
	dc.DrawString(fmt.Sprintf("Last refreshed: %s", summary.LastRefreshedAt.UTC().Format(time.RFC3339)), 24, 78)

	dc.SetRGB(0.3, 0.33, 0.4)
	dc.DrawLine(24, 94, imageWidth-24, 94)
	dc.Stroke()

	r.drawTopCountries(dc, summary.TopCountries)

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("unable to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "summary-*.png")
	if err != nil {
		return fmt.Errorf("unable to create temp image: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("Failed to remove temp image", zap.String("file", tmp.Name()), zap.Error(err))
		}
	}()

	if err := dc.EncodePNG(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to encode summary image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temp image: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("unable to replace summary image: %w", err)
	}

	zap.L().Info("Summary image rendered",
		zap.String("path", r.path),
		zap.Int("top_countries", len(summary.TopCountries)))
	return nil
}

func (r *ImageRenderer) drawTopCountries(dc *gg.Context, top []TopEntry) {
	dc.SetRGB(1, 1, 1)
	dc.DrawString("TOP 5 BY ESTIMATED GDP", 24, 122)

	if len(top) == 0 {
		dc.SetRGB(0.7, 0.73, 0.8)
		dc.DrawString("No GDP estimates available yet", 24, 150)
		return
	}

	maxGdp := top[0].EstimatedGdp
	for _, entry := range top {
		if entry.EstimatedGdp.GreaterThan(maxGdp) {
			maxGdp = entry.EstimatedGdp
		}
	}

	const (
		rowHeight = 56
		barTop    = 140.0
		barLeft   = 24.0
		barMaxW   = imageWidth - 2*barLeft
	)

	for i, entry := range top {
		y := barTop + float64(i)*rowHeight

		width := barMaxW * barFraction(entry.EstimatedGdp, maxGdp)
		dc.SetRGB(0.22, 0.52, 0.85)
		dc.DrawRectangle(barLeft, y+8, width, 20)
		dc.Fill()

		dc.SetRGB(1, 1, 1)
		dc.DrawString(fmt.Sprintf("%d. %s", i+1, entry.Name), barLeft, y)
		dc.SetRGB(0.7, 0.73, 0.8)
		dc.DrawString(entry.EstimatedGdp.Round(2).String(), barLeft, y+42)
	}
}

func barFraction(value, max decimal.Decimal) float64 {
	if !max.IsPositive() {
		return 0
	}
	fraction, _ := value.Div(max).Float64()
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
