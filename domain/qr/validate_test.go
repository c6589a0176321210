package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		typ    ContentType
		fields map[string]string
		empty  bool
	}{
		{"url blank", TypeURL, map[string]string{FieldURL: "  "}, true},
		{"url set", TypeURL, map[string]string{FieldURL: "https://x.io"}, false},
		{"email subject without address", TypeEmail, map[string]string{FieldSubject: "Hi"}, true},
		{"vcard requires name", TypeVCard, map[string]string{FieldCompany: "Acme"}, true},
		{"vcard with name", TypeVCard, map[string]string{FieldFullName: "Jane"}, false},
		{"whatsapp without digits", TypeWhatsApp, map[string]string{FieldPhone: "abc"}, true},
		{"social handle", TypeSocial, map[string]string{FieldHandle: "@jane"}, false},
		{"unknown type", ContentType("fax"), map[string]string{FieldText: "x"}, true},
		{"nil fields", TypeText, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Type = tt.typ
			s.Fields = tt.fields

			assert.Equal(t, tt.empty, s.IsEmpty())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		invalid []string
	}{
		{"defaults are valid", func(s *Settings) {}, nil},
		{"bad url", func(s *Settings) { s.Fields[FieldURL] = "example.com" }, []string{FieldURL}},
		{"good url", func(s *Settings) { s.Fields[FieldURL] = "https://example.com" }, nil},
		{"bad email", func(s *Settings) { s.Type = TypeEmail; s.Fields[FieldEmail] = "nope@" }, []string{FieldEmail}},
		{"short phone", func(s *Settings) { s.Type = TypePhone; s.Fields[FieldPhone] = "+1 23" }, []string{FieldPhone}},
		{"short whatsapp", func(s *Settings) { s.Type = TypeWhatsApp; s.Fields[FieldPhone] = "12345" }, []string{FieldPhone}},
		{"ok phone", func(s *Settings) { s.Type = TypePhone; s.Fields[FieldPhone] = "123456" }, nil},
		{"size too large", func(s *Settings) { s.Size = 5000 }, []string{"size"}},
		{"bad format", func(s *Settings) { s.Format = "gif" }, []string{"format"}},
		{"logo size", func(s *Settings) { s.Style.LogoSize = 80 }, []string{"logo_size"}},
		{"bad colors", func(s *Settings) { s.Style.DotsColor = "red"; s.Style.BackgroundColor = "#12" }, []string{"dots_color", "background_color"}},
		{"transparent background", func(s *Settings) { s.Style.BackgroundColor = "transparent" }, nil},
		{"transparent dots", func(s *Settings) { s.Style.DotsColor = "transparent" }, []string{"dots_color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := DefaultSettings()
			tt.mutate(&s)

			// Act
			problems := s.Validate()

			// Assert
			assert.Len(t, problems, len(tt.invalid))
			for _, field := range tt.invalid {
				assert.Contains(t, problems, field)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "svg", FormatSVG.Extension())
	assert.Equal(t, "image/png", FormatPNG.MIMEType())
	assert.True(t, FormatSVG.Valid())
	assert.False(t, Format("gif").Valid())
}

func TestStyleWithDefaults(t *testing.T) {
	zero := 0
	s := Style{DotsColor: "#ff0000", Margin: &zero}.WithDefaults()

	assert.Equal(t, "#ff0000", s.DotsColor)
	assert.Equal(t, "#ffffff", s.BackgroundColor)
	assert.Equal(t, DotsSquare, s.DotsType)
	assert.Equal(t, 20, s.LogoSize)
	assert.Equal(t, 0, s.MarginPx())
	assert.Equal(t, 10, Style{}.MarginPx())
}

func TestCheck(t *testing.T) {
	s := DefaultSettings()
	assert.ErrorIs(t, s.Check(), ErrEmptyPayload)

	s.Fields[FieldURL] = "example.com"
	var verr *ValidationError
	assert.ErrorAs(t, s.Check(), &verr)
	assert.Equal(t, map[string]string{FieldURL: "enter a valid URL (include https://)"}, verr.Messages())

	s.Fields[FieldURL] = "https://example.com"
	assert.NoError(t, s.Check())
}
