package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"country-pulse-go/internal/models"

	"github.com/shopspring/decimal"
)

func newTestRenderer(t *testing.T) *ImageRenderer {
	renderer, err := NewImageRenderer(models.RenderConfig{
		ImagePath: filepath.Join(t.TempDir(), "cache", "summary.png"),
	})
	if err != nil {
		t.Fatalf("NewImageRenderer failed: %v", err)
	}
	return renderer
}

func TestRender_WritesValidPng(t *testing.T) {
	renderer := newTestRenderer(t)

	summary := Summary{
		TotalCountries:  250,
		LastRefreshedAt: time.Now().UTC(),
		TopCountries: []TopEntry{
			{Name: "France", EstimatedGdp: decimal.RequireFromString("110000000000")},
			{Name: "Ghana", EstimatedGdp: decimal.RequireFromString("3100000000")},
			{Name: "Nigeria", EstimatedGdp: decimal.RequireFromString("250000000")},
		},
	}

	if err := renderer.Render(summary); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	file, err := os.Open(renderer.Path())
	if err != nil {
		t.Fatalf("Failed to open rendered image: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Rendered file is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != imageWidth || img.Bounds().Dy() != imageHeight {
		t.Errorf("Unexpected image size: %v", img.Bounds())
	}
}

func TestRender_EmptyTopListDoesNotFail(t *testing.T) {
	renderer := newTestRenderer(t)

	summary := Summary{
		TotalCountries:  0,
		LastRefreshedAt: time.Now().UTC(),
	}

	if err := renderer.Render(summary); err != nil {
		t.Fatalf("Render with empty top list failed: %v", err)
	}
	if _, err := os.Stat(renderer.Path()); err != nil {
		t.Fatalf("Expected image file to exist: %v", err)
	}
}

func TestRender_OverwritesPreviousArtifact(t *testing.T) {
	renderer := newTestRenderer(t)

	first := Summary{TotalCountries: 1, LastRefreshedAt: time.Now().UTC()}
	if err := renderer.Render(first); err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	firstInfo, err := os.Stat(renderer.Path())
	if err != nil {
		t.Fatalf("Failed to stat first image: %v", err)
	}

	second := Summary{
		TotalCountries:  2,
		LastRefreshedAt: time.Now().UTC(),
		TopCountries: []TopEntry{
			{Name: "France", EstimatedGdp: decimal.RequireFromString("42")},
		},
	}
	if err := renderer.Render(second); err != nil {
		t.Fatalf("Second render failed: %v", err)
	}
	secondInfo, err := os.Stat(renderer.Path())
	if err != nil {
		t.Fatalf("Failed to stat second image: %v", err)
	}

	// Same slot, one artifact, no history.
	if firstInfo.Size() == 0 || secondInfo.Size() == 0 {
		t.Error("Expected non-empty image artifacts")
	}
	entries, err := os.ReadDir(filepath.Dir(renderer.Path()))
	if err != nil {
		t.Fatalf("Failed to read image directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one artifact in slot directory, got %d", len(entries))
	}
}
