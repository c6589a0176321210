// Package qr holds the QR settings model and the payload encoder that turns
// a content type plus its field values into the literal string embedded in a
// QR code.
package qr

import (
	"image"
	"strings"
)

// ContentType selects how field values are turned into a payload.
type ContentType string

const (
	TypeURL      ContentType = "url"
	TypeText     ContentType = "text"
	TypeEmail    ContentType = "email"
	TypePhone    ContentType = "phone"
	TypeWhatsApp ContentType = "whatsapp"
	TypeVCard    ContentType = "vcard"
	TypeSocial   ContentType = "social"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{TypeURL, TypeText, TypeEmail, TypePhone, TypeVCard, TypeWhatsApp, TypeSocial}

// Field names used in Fields.
const (
	FieldURL      = "url"
	FieldText     = "text"
	FieldEmail    = "email"
	FieldSubject  = "subject"
	FieldBody     = "body"
	FieldPhone    = "phone"
	FieldMessage  = "message"
	FieldFullName = "fullName"
	FieldCompany  = "company"
	FieldJobTitle = "jobTitle"
	FieldWebsite  = "website"
	FieldPlatform = "platform"
	FieldHandle   = "handle"
)

// Social platforms understood by the encoder.
const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformLinkedIn  = "linkedin"
	PlatformYouTube   = "youtube"
)

// Format is an export image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJPEG Format = "jpeg"
)

// Extension returns the file extension used when saving the format.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// MIMEType returns the content type of an encoded image in this format.
func (f Format) MIMEType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml; charset=utf-8"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f == FormatPNG || f == FormatSVG || f == FormatJPEG
}

// DotShape is the shape of data modules.
type DotShape string

const (
	DotsSquare  DotShape = "square"
	DotsRounded DotShape = "rounded"
)

// CornerShape is the shape of the outer ring of a finder pattern.
type CornerShape string

const (
	CornerSharp   CornerShape = "sharp"
	CornerRounded CornerShape = "rounded"
)

// EyeShape is the shape of the 3x3 centre of a finder pattern.
type EyeShape string

const (
	EyeClassic EyeShape = "classic"
	EyeRounded EyeShape = "rounded"
)

// Transparent is the BackgroundColor value that disables the background fill.
const Transparent = "transparent"

// Style describes the visual appearance of a QR code.
type Style struct {
	DotsColor       string      `json:"dots_color" yaml:"dots_color"`
	BackgroundColor string      `json:"background_color" yaml:"background_color"`
	DotsType        DotShape    `json:"dots_type" yaml:"dots_type"`
	CornerType      CornerShape `json:"corner_type" yaml:"corner_type"`
	EyeType         EyeShape    `json:"eye_type" yaml:"eye_type"`
	Logo            []byte      `json:"logo,omitempty" yaml:"-"`
	LogoSize        int         `json:"logo_size" yaml:"logo_size"`
	LogoPixelSize   int         `json:"logo_pixel_size,omitempty" yaml:"logo_pixel_size"`
	Margin          *int        `json:"margin,omitempty" yaml:"margin"`
}

// DefaultStyle returns the style a fresh session starts with.
func DefaultStyle() Style {
	margin := 10
	return Style{
		DotsColor:       "#000000",
		BackgroundColor: "#ffffff",
		DotsType:        DotsSquare,
		CornerType:      CornerSharp,
		EyeType:         EyeClassic,
		LogoSize:        20,
		Margin:          &margin,
	}
}

// WithDefaults fills unset fields from DefaultStyle.
func (s Style) WithDefaults() Style {
	def := DefaultStyle()
	if s.DotsColor == "" {
		s.DotsColor = def.DotsColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = def.BackgroundColor
	}
	if s.DotsType == "" {
		s.DotsType = def.DotsType
	}
	if s.CornerType == "" {
		s.CornerType = def.CornerType
	}
	if s.EyeType == "" {
		s.EyeType = def.EyeType
	}
	if s.LogoSize == 0 {
		s.LogoSize = def.LogoSize
	}
	if s.Margin == nil {
		s.Margin = def.Margin
	}
	return s
}

// MarginPx returns the quiet zone in pixels.
func (s Style) MarginPx() int {
	if s.Margin == nil || *s.Margin < 0 {
		return 10
	}
	return *s.Margin
}

// IsTransparent reports whether the background fill is disabled.
func (s Style) IsTransparent() bool {
	return strings.EqualFold(strings.TrimSpace(s.BackgroundColor), Transparent)
}

// HasLogo reports whether a logo image is embedded.
func (s Style) HasLogo() bool {
	return len(s.Logo) > 0
}

// Settings is the full configuration of one QR code.
type Settings struct {
	Type   ContentType       `json:"type"`
	Fields map[string]string `json:"fields"`
	Size   int               `json:"size"`
	Format Format            `json:"format"`
	Style  Style             `json:"style"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Type:   TypeURL,
		Fields: map[string]string{},
		Size:   512,
		Format: FormatPNG,
		Style:  DefaultStyle(),
	}
}

// Field returns the named field value, or "" when absent.
func (s Settings) Field(name string) string {
	if s.Fields == nil {
		return ""
	}
	return s.Fields[name]
}

// Surface is a rendered QR code. Bitmap is set when the renderer drew a
// raster image, Vector holds an SVG document otherwise.
type Surface struct {
	Bitmap image.Image
	Vector []byte
}

// Empty reports whether the surface carries no image at all.
func (s *Surface) Empty() bool {
	return s == nil || (s.Bitmap == nil && len(s.Vector) == 0)
}
