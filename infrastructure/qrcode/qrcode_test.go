package qrcode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogo(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewGenerator(t *testing.T) {
	m := metrics.New()

	g := NewGenerator(m)

	assert.NotNil(t, g)
	assert.Equal(t, m, g.metrics)
}

func TestRender_PNG(t *testing.T) {
	// Arrange
	g := NewGenerator(nil)

	// Act
	surface, err := g.Render("https://example.com", 512, qr.DefaultStyle(), qr.FormatPNG)
	require.NoError(t, err)
	data, err := g.Encode(surface, qr.FormatPNG)
	require.NoError(t, err)

	// Assert
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())

	r, gr, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, gr, b, a}, "quiet zone is background")

	l, err := newLayout("https://example.com", 512, qr.DefaultStyle(), nil)
	require.NoError(t, err)
	cx, cy := l.origin(0, 0)
	r, gr, b, _ = img.At(int(cx+l.module/2), int(cy+l.module/2)).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, gr, b}, "finder ring is dark")
}

func TestRender_TransparentBackground(t *testing.T) {
	g := NewGenerator(nil)
	style := qr.DefaultStyle()
	style.BackgroundColor = qr.Transparent

	surface, err := g.Render("hello", 256, style, qr.FormatPNG)
	require.NoError(t, err)

	_, _, _, a := surface.Bitmap.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestRender_RoundedStyleAndLogo(t *testing.T) {
	g := NewGenerator(nil)
	style := qr.DefaultStyle()
	style.DotsType = qr.DotsRounded
	style.CornerType = qr.CornerRounded
	style.EyeType = qr.EyeRounded
	style.DotsColor = "#336699"
	style.Logo = testLogo(t)

	surface, err := g.Render("https://example.com/with/a/logo", 400, style, qr.FormatPNG)
	require.NoError(t, err)

	r, gr, b, _ := surface.Bitmap.At(200, 200).RGBA()
	assert.Equal(t, uint32(0xffff), r, "logo is red at the centre")
	assert.Equal(t, uint32(0), gr)
	assert.Equal(t, uint32(0), b)
}

func TestRender_SVG(t *testing.T) {
	g := NewGenerator(nil)
	style := qr.DefaultStyle()
	style.DotsType = qr.DotsRounded
	style.Logo = testLogo(t)

	surface, err := g.Render("hello svg", 300, style, qr.FormatSVG)
	require.NoError(t, err)
	assert.Nil(t, surface.Bitmap)

	data, err := g.Encode(surface, qr.FormatSVG)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="300"`))
	assert.Contains(t, svg, `fill-rule="evenodd"`)
	assert.Contains(t, svg, `href="data:image/png;base64,`)
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestRender_SVGTransparentOmitsBackground(t *testing.T) {
	g := NewGenerator(nil)
	style := qr.DefaultStyle()
	style.BackgroundColor = "transparent"

	surface, err := g.Render("hello", 200, style, qr.FormatSVG)
	require.NoError(t, err)

	assert.NotContains(t, string(surface.Vector), `<rect`)
}

func TestRender_Errors(t *testing.T) {
	g := NewGenerator(metrics.New())
	bigMargin := 200

	tests := []struct {
		name    string
		content string
		size    int
		style   qr.Style
		errMsg  string
	}{
		{"empty content", "", 256, qr.DefaultStyle(), constant.ErrEmptyPayload},
		{"margin swallows image", "hello", 256, qr.Style{Margin: &bigMargin}, constant.ErrInvalidSize},
		{"bad color", "hello", 256, qr.Style{DotsColor: "blue"}, constant.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface, err := g.Render(tt.content, tt.size, tt.style, qr.FormatPNG)

			assert.Nil(t, surface)
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestRender_BadLogo(t *testing.T) {
	g := NewGenerator(nil)
	style := qr.DefaultStyle()
	style.Logo = []byte("not an image")

	_, err := g.Render("hello", 256, style, qr.FormatPNG)

	assert.ErrorContains(t, err, "decode logo")
}

func TestEncode(t *testing.T) {
	g := NewGenerator(nil)
	surface, err := g.Render("encode me", 128, qr.DefaultStyle(), qr.FormatJPEG)
	require.NoError(t, err)

	jpg, err := g.Encode(surface, qr.FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, jpg[:2])

	pngData, err := g.Encode(surface, qr.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), pngData[:4])

	_, err = g.Encode(surface, qr.Format("gif"))
	assert.EqualError(t, err, constant.ErrUnsupportedFormat)

	_, err = g.Encode(&qr.Surface{}, qr.FormatPNG)
	assert.EqualError(t, err, constant.ErrNoSurface)
}

func TestParseColor(t *testing.T) {
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 4}

	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"", fallback, true},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true},
		{"#336699", color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}, true},
		{"#33669980", color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0x80}, true},
		{"transparent", color.NRGBA{}, true},
		{"336699", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in, fallback)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoxPath(t *testing.T) {
	assert.Equal(t, "M1 2h3v3h-3z", boxPath(1, 2, 3, 0))
	assert.Equal(t, "M1 0h2a1 1 0 0 1 1 1v2a1 1 0 0 1 -1 1h-2a1 1 0 0 1 -1 -1v-2a1 1 0 0 1 1 -1z", boxPath(0, 0, 4, 1))
}

func TestLogoSide(t *testing.T) {
	assert.Equal(t, 100, logoSide(500, qr.Style{LogoSize: 20}))
	assert.Equal(t, 64, logoSide(500, qr.Style{LogoSize: 20, LogoPixelSize: 64}))
	assert.Equal(t, 250, logoSide(500, qr.Style{LogoPixelSize: 400}))
}
