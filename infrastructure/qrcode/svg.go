package qrcode

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrstudio/domain/qr"
)

// drawVector produces an SVG document with the same geometry drawBitmap uses.
func drawVector(l layout, style qr.Style, dots, background color.NRGBA, logo image.Image) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, l.size, l.size, l.size, l.size)

	if !style.IsTransparent() {
		fill, opacity := svgColor(background)
		fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s" fill-opacity="%s"/>`, l.size, l.size, fill, opacity)
	}

	fill, opacity := svgColor(dots)
	dotRadius := 0.0
	if style.DotsType == qr.DotsRounded {
		dotRadius = l.module / 3
	}

	sb.WriteString(`<path d="`)
	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			if !l.modules[row][col] || l.isFinder(col, row) || l.hiddenByLogo(col, row) {
				continue
			}
			x, y := l.origin(col, row)
			sb.WriteString(boxPath(x, y, l.module, dotRadius))
		}
	}
	fmt.Fprintf(&sb, `" fill="%s" fill-opacity="%s"/>`, fill, opacity)

	for _, f := range l.finders() {
		x, y := l.origin(f[0], f[1])
		radius := 0.0
		if style.CornerType == qr.CornerRounded {
			radius = l.module * 2
		}
		ring := boxPath(x, y, float64(finderSize)*l.module, radius) +
			boxPath(x+l.module, y+l.module, float64(finderSize-2)*l.module, radius/2)
		fmt.Fprintf(&sb, `<path d="%s" fill="%s" fill-opacity="%s" fill-rule="evenodd"/>`, ring, fill, opacity)

		eyeRadius := 0.0
		if style.EyeType == qr.EyeRounded {
			eyeRadius = l.module
		}
		ex, ey := l.origin(f[0]+eyeOffset, f[1]+eyeOffset)
		fmt.Fprintf(&sb, `<path d="%s" fill="%s" fill-opacity="%s"/>`, boxPath(ex, ey, float64(eyeSize)*l.module, eyeRadius), fill, opacity)
	}

	if logo != nil {
		side := logoSide(l.size, style)
		fitted := fitBox(logo.Bounds().Dx(), logo.Bounds().Dy(), side)
		mime := http.DetectContentType(style.Logo)
		fmt.Fprintf(&sb, `<image x="%d" y="%d" width="%d" height="%d" preserveAspectRatio="xMidYMid meet" href="data:%s;base64,%s"/>`,
			(l.size-fitted.X)/2, (l.size-fitted.Y)/2, fitted.X, fitted.Y, mime, base64.StdEncoding.EncodeToString(style.Logo))
	}

	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

// boxPath returns a closed square subpath, with rounded corners when radius > 0.
func boxPath(x, y, side, r float64) string {
	if r <= 0 {
		return "M" + num(x) + " " + num(y) + "h" + num(side) + "v" + num(side) + "h" + num(-side) + "z"
	}
	if r > side/2 {
		r = side / 2
	}
	edge := side - 2*r
	arc := func(dx, dy float64) string {
		return "a" + num(r) + " " + num(r) + " 0 0 1 " + num(dx) + " " + num(dy)
	}
	return "M" + num(x+r) + " " + num(y) +
		"h" + num(edge) + arc(r, r) +
		"v" + num(edge) + arc(-r, r) +
		"h" + num(-edge) + arc(-r, -r) +
		"v" + num(-edge) + arc(r, -r) + "z"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
