package qrcode

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
)

// parseColor accepts #rgb, #rrggbb and #rrggbbaa. The empty string yields fallback.
func parseColor(s string, fallback color.NRGBA) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if strings.EqualFold(s, qr.Transparent) {
		return color.NRGBA{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 || !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, errors.New(constant.ErrInvalidColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.New(constant.ErrInvalidColor)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// svgColor renders c as an SVG fill value plus opacity.
func svgColor(c color.NRGBA) (string, string) {
	fill := "#" + hex2(c.R) + hex2(c.G) + hex2(c.B)
	opacity := strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
	return fill, strings.TrimRight(strings.TrimRight(opacity, "0"), ".")
}

func hex2(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
