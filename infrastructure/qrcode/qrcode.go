package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/metrics"
	"github.com/skip2/go-qrcode"
)

const (
	finderSize  = 7
	eyeOffset   = 2
	eyeSize     = 3
	logoPadding = 5
	jpegQuality = 92
)

var (
	defaultDots       = color.NRGBA{A: 0xff}
	defaultBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Generator handles QR code generation
type Generator struct {
	metrics *metrics.Metrics
}

// NewGenerator creates a new QR code generator. m may be nil.
func NewGenerator(m *metrics.Metrics) *Generator {
	return &Generator{
		metrics: m,
	}
}

// layout is the pixel geometry of one QR code.
type layout struct {
	modules [][]bool
	n       int
	size    int
	module  float64
	offset  float64
	logo    image.Rectangle
}

func (l layout) origin(col, row int) (float64, float64) {
	return l.offset + float64(col)*l.module, l.offset + float64(row)*l.module
}

// isFinder reports whether module (col,row) belongs to one of the three finder patterns.
func (l layout) isFinder(col, row int) bool {
	inBand := func(v int) bool { return v < finderSize }
	inFar := func(v int) bool { return v >= l.n-finderSize }
	return (inBand(col) && inBand(row)) || (inFar(col) && inBand(row)) || (inBand(col) && inFar(row))
}

// hiddenByLogo reports whether module (col,row) overlaps the logo box.
func (l layout) hiddenByLogo(col, row int) bool {
	if l.logo.Empty() {
		return false
	}
	x, y := l.origin(col, row)
	cell := image.Rect(int(x), int(y), int(x+l.module+0.5), int(y+l.module+0.5))
	return cell.Overlaps(l.logo)
}

func (l layout) finders() [][2]int {
	return [][2]int{{0, 0}, {l.n - finderSize, 0}, {0, l.n - finderSize}}
}

// Render draws content with the given style. SVG requests produce a vector
// surface, every other format a bitmap.
func (g *Generator) Render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error) {
	start := time.Now()
	surface, err := g.render(content, size, style, format)
	g.metrics.ObserveRender(string(format), time.Since(start).Seconds(), err)
	return surface, err
}

func (g *Generator) render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error) {
	if content == "" {
		return nil, qr.ErrEmptyPayload
	}
	style = style.WithDefaults()

	dots, err := parseColor(style.DotsColor, defaultDots)
	if err != nil {
		return nil, err
	}
	background, err := parseColor(style.BackgroundColor, defaultBackground)
	if err != nil {
		return nil, err
	}

	var logo image.Image
	if style.HasLogo() {
		logo, err = imaging.Decode(bytes.NewReader(style.Logo), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
	}

	l, err := newLayout(content, size, style, logo)
	if err != nil {
		return nil, err
	}

	if format == qr.FormatSVG {
		svg, err := drawVector(l, style, dots, background, logo)
		if err != nil {
			return nil, err
		}
		return &qr.Surface{Vector: svg}, nil
	}
	return &qr.Surface{Bitmap: drawBitmap(l, style, dots, background, logo)}, nil
}

func newLayout(content string, size int, style qr.Style, logo image.Image) (layout, error) {
	level := qrcode.Medium
	if logo != nil {
		level = qrcode.High
	}
	code, err := qrcode.New(content, level)
	if err != nil {
		return layout{}, err
	}
	code.DisableBorder = true
	modules := code.Bitmap()

	n := len(modules)
	margin := style.MarginPx()
	drawable := size - 2*margin
	if n == 0 || drawable < n {
		return layout{}, errors.New(constant.ErrInvalidSize)
	}

	module := drawable / n
	l := layout{
		modules: modules,
		n:       n,
		size:    size,
		module:  float64(module),
		offset:  float64(size-module*n) / 2,
	}

	if logo != nil {
		side := logoSide(size, style)
		fitted := fitBox(logo.Bounds().Dx(), logo.Bounds().Dy(), side)
		c := size / 2
		l.logo = image.Rect(
			c-fitted.X/2-logoPadding, c-fitted.Y/2-logoPadding,
			c+fitted.X/2+logoPadding, c+fitted.Y/2+logoPadding,
		)
	}
	return l, nil
}

// logoSide is the edge of the square the logo is fitted into. An explicit
// pixel size wins over the percentage.
func logoSide(size int, style qr.Style) int {
	side := size * style.LogoSize / 100
	if style.LogoPixelSize > 0 {
		side = style.LogoPixelSize
	}
	if limit := size / 2; side > limit {
		side = limit
	}
	if side < 1 {
		side = 1
	}
	return side
}

func fitBox(w, h, side int) image.Point {
	if w <= 0 || h <= 0 {
		return image.Pt(side, side)
	}
	if w >= h {
		return image.Pt(side, max(1, h*side/w))
	}
	return image.Pt(max(1, w*side/h), side)
}

func drawBitmap(l layout, style qr.Style, dots, background color.NRGBA, logo image.Image) image.Image {
	dc := gg.NewContext(l.size, l.size)
	if !style.IsTransparent() {
		dc.SetColor(background)
		dc.Clear()
	}

	dc.SetColor(dots)
	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			if !l.modules[row][col] || l.isFinder(col, row) || l.hiddenByLogo(col, row) {
				continue
			}
			x, y := l.origin(col, row)
			if style.DotsType == qr.DotsRounded {
				dc.DrawRoundedRectangle(x, y, l.module, l.module, l.module/3)
			} else {
				dc.DrawRectangle(x, y, l.module, l.module)
			}
		}
	}
	dc.Fill()

	for _, f := range l.finders() {
		x, y := l.origin(f[0], f[1])
		outer := float64(finderSize) * l.module
		inner := float64(finderSize-2) * l.module
		radius := 0.0
		if style.CornerType == qr.CornerRounded {
			radius = l.module * 2
		}

		dc.SetFillRule(gg.FillRuleEvenOdd)
		drawBox(dc, x, y, outer, radius)
		drawBox(dc, x+l.module, y+l.module, inner, radius/2)
		dc.Fill()
		dc.SetFillRule(gg.FillRuleWinding)

		ex, ey := l.origin(f[0]+eyeOffset, f[1]+eyeOffset)
		eye := float64(eyeSize) * l.module
		eyeRadius := 0.0
		if style.EyeType == qr.EyeRounded {
			eyeRadius = l.module
		}
		drawBox(dc, ex, ey, eye, eyeRadius)
		dc.Fill()
	}

	if logo != nil {
		side := logoSide(l.size, style)
		fitted := imaging.Fit(logo, side, side, imaging.Lanczos)
		dc.DrawImageAnchored(fitted, l.size/2, l.size/2, 0.5, 0.5)
	}

	return dc.Image()
}

func drawBox(dc *gg.Context, x, y, side, radius float64) {
	if radius <= 0 {
		dc.DrawRectangle(x, y, side, side)
		return
	}
	dc.DrawRoundedRectangle(x, y, side, side, radius)
}

// Encode serializes a rendered surface. Bitmaps encode as PNG or JPEG; a
// vector surface is returned as-is whatever format was asked for.
func (g *Generator) Encode(surface *qr.Surface, format qr.Format) ([]byte, error) {
	if surface.Empty() {
		return nil, errors.New(constant.ErrNoSurface)
	}
	if surface.Bitmap == nil {
		return surface.Vector, nil
	}

	var buf bytes.Buffer
	switch format {
	case qr.FormatJPEG:
		if err := imaging.Encode(&buf, surface.Bitmap, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, err
		}
	case qr.FormatPNG, qr.FormatSVG, "":
		if err := imaging.Encode(&buf, surface.Bitmap, imaging.PNG); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(constant.ErrUnsupportedFormat)
	}
	return buf.Bytes(), nil
}
