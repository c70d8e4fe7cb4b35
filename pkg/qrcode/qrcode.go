// Package qrcode renders product verification QR codes with the product's
// short id printed underneath.
package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	goqrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize = 800
	labelBand   = 120
	labelPoints = 64
)

var (
	parseOnce sync.Once
	parsed    *opentype.Font
	parseErr  error
)

func regularFont() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Generate encodes content as a size x size QR code. When label is not empty
// the canvas grows by a white band at the bottom with the label centered in
// it. The result is PNG encoded.
func Generate(content, label string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	code, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr content: %w", err)
	}
	qrImage := code.Image(size)

	height := size
	if label != "" {
		height += labelBand
	}
	canvas := image.NewRGBA(image.Rect(0, 0, size, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, size, size), qrImage, qrImage.Bounds().Min, draw.Src)

	if label != "" {
		if err := drawLabel(canvas, label, size); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLabel(canvas *image.RGBA, label string, size int) error {
	f, err := regularFont()
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelPoints,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	width := d.MeasureString(label).Round()
	x := (size - width) / 2
	if x < 0 {
		x = 0
	}
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Round()
	baseline := size + (labelBand-textHeight)/2 + metrics.Ascent.Round()

	d.Dot = fixed.P(x, baseline)
	d.DrawString(label)
	return nil
}
