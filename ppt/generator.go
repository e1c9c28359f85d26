// Package ppt builds the slide deck for a script and renders each slide to
// a PNG image for the video stage.
package ppt

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/solaz/contents-autouploader/config"
	"github.com/solaz/contents-autouploader/types"
	"github.com/solaz/contents-autouploader/util"
)

// Generator creates presentations from scripts and renders slide images
type Generator struct {
	cfg       *config.Config
	titleFace font.Face
	bodyFace  font.Face
}

// New creates a new Generator with the embedded Go fonts
func New(cfg *config.Config) (*Generator, error) {
	boldFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse title font: %w", err)
	}
	regularFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse body font: %w", err)
	}

	titleFace, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    cfg.Presentation.TitleFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create title face: %w", err)
	}
	bodyFace, err := opentype.NewFace(regularFont, &opentype.FaceOptions{
		Size:    cfg.Presentation.BodyFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create body face: %w", err)
	}

	return &Generator{cfg: cfg, titleFace: titleFace, bodyFace: bodyFace}, nil
}

// Generate builds the slide deck: a title slide at index 0 followed by one
// slide per script section
func (g *Generator) Generate(script *types.Script) *types.Presentation {
	pres := &types.Presentation{Title: script.Title}

	titleContent := []string{}
	if script.Description != "" {
		titleContent = append(titleContent, script.Description)
	}
	pres.Slides = append(pres.Slides, types.Slide{
		SlideIndex: 0,
		Title:      script.Title,
		Content:    titleContent,
		Notes:      fmt.Sprintf("Hello, today we are going to talk about %s.", script.Title),
	})

	for i, section := range script.Sections {
		pres.Slides = append(pres.Slides, types.Slide{
			SlideIndex: i + 1,
			Title:      section.Title,
			Content:    section.KeyPoints,
			Notes:      section.Content,
		})
	}

	log.Printf("[ppt] Created %d slides (including title slide)", pres.SlideCount())
	return pres
}

// ExportImages renders every slide to a PNG in outputDir and records the
// path on the slide. Returns the image paths in slide order.
func (g *Generator) ExportImages(pres *types.Presentation, outputDir string) ([]string, error) {
	if _, err := util.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	var paths []string
	for i := range pres.Slides {
		slide := &pres.Slides[i]

		img := g.renderSlide(slide)
		path := filepath.Join(outputDir, fmt.Sprintf("slide_%03d.png", slide.SlideIndex))

		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create slide image %s: %w", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("encode slide %d: %w", slide.SlideIndex, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}

		slide.ImagePath = path
		paths = append(paths, path)
	}

	log.Printf("[ppt] ✅ Exported %d slide images to %s", len(paths), outputDir)
	return paths, nil
}

func (g *Generator) renderSlide(slide *types.Slide) *image.RGBA {
	width := g.cfg.Presentation.Width
	height := g.cfg.Presentation.Height

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(hexToRGBA(g.cfg.Presentation.BackgroundColor)), image.Point{}, draw.Src)

	titleColor := hexToRGBA(g.cfg.Presentation.TitleColor)
	bodyColor := hexToRGBA(g.cfg.Presentation.BodyColor)

	margin := width / 16
	maxTextWidth := width - 2*margin

	if slide.SlideIndex == 0 {
		// Title slide: centered title near the middle, description below.
		y := height * 2 / 5
		y = g.drawWrapped(img, g.titleFace, titleColor, slide.Title, margin, y, maxTextWidth, true)
		y += lineHeight(g.bodyFace)
		for _, line := range slide.Content {
			y = g.drawWrapped(img, g.bodyFace, bodyColor, line, margin, y, maxTextWidth, true)
		}
		return img
	}

	// Content slide: title at the top, bullet points beneath.
	y := margin + ascent(g.titleFace)
	y = g.drawWrapped(img, g.titleFace, titleColor, slide.Title, margin, y, maxTextWidth, false)
	y += lineHeight(g.bodyFace)
	for _, point := range slide.Content {
		y = g.drawWrapped(img, g.bodyFace, bodyColor, "• "+point, margin, y, maxTextWidth, false)
		y += lineHeight(g.bodyFace) / 3
	}
	return img
}

// drawWrapped draws text starting at baseline y, wrapping on word
// boundaries to fit maxWidth, and returns the next baseline position
func (g *Generator) drawWrapped(img *image.RGBA, face font.Face, col color.RGBA, text string, x, y, maxWidth int, center bool) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}

	for _, line := range wrapText(d, text, maxWidth) {
		lineX := x
		if center {
			w := d.MeasureString(line).Ceil()
			lineX = (img.Bounds().Dx() - w) / 2
		}
		d.Dot = fixed.P(lineX, y)
		d.DrawString(line)
		y += lineHeight(face)
	}
	return y
}

func wrapText(d *font.Drawer, text string, maxWidth int) []string {
	words := splitWords(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if d.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func splitWords(text string) []string {
	var words []string
	var current []rune
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if len(current) > 0 {
				words = append(words, string(current))
				current = current[:0]
			}
			continue
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil() * 5 / 4
}

func ascent(face font.Face) int {
	return face.Metrics().Ascent.Ceil()
}

func hexToRGBA(hexColor string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hexColor, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
