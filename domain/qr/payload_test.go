package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		typ    ContentType
		fields map[string]string
		want   string
	}{
		{"url verbatim", TypeURL, map[string]string{FieldURL: "https://example.com/a b?x=1"}, "https://example.com/a b?x=1"},
		{"url absent", TypeURL, nil, ""},
		{"text verbatim", TypeText, map[string]string{FieldText: "  hello\nworld "}, "  hello\nworld "},
		{"email full", TypeEmail, map[string]string{FieldEmail: "a@b.com", FieldSubject: "Hi", FieldBody: "Yo"}, "mailto:a@b.com?subject=Hi&body=Yo"},
		{"email only address", TypeEmail, map[string]string{FieldEmail: "a@b.com"}, "mailto:a@b.com"},
		{"email body only", TypeEmail, map[string]string{FieldEmail: "a@b.com", FieldBody: "see you & bye"}, "mailto:a@b.com?body=see%20you%20%26%20bye"},
		{"phone with plus", TypePhone, map[string]string{FieldPhone: " +44 (20) 7946-0958 "}, "tel:+442079460958"},
		{"phone without plus", TypePhone, map[string]string{FieldPhone: "020 7946 0958"}, "tel:02079460958"},
		{"phone blank", TypePhone, map[string]string{FieldPhone: "   "}, ""},
		{"phone no digits", TypePhone, map[string]string{FieldPhone: "call me"}, ""},
		{"whatsapp with message", TypeWhatsApp, map[string]string{FieldPhone: "+1 234 567 8900", FieldMessage: "hey"}, "https://wa.me/12345678900?text=hey"},
		{"whatsapp leading zeros", TypeWhatsApp, map[string]string{FieldPhone: "0044 7700 900123"}, "https://wa.me/447700900123"},
		{"whatsapp encoded message", TypeWhatsApp, map[string]string{FieldPhone: "15551234567", FieldMessage: "hi there?"}, "https://wa.me/15551234567?text=hi%20there%3F"},
		{"whatsapp only zeros", TypeWhatsApp, map[string]string{FieldPhone: "000"}, ""},
		{"vcard name only", TypeVCard, map[string]string{FieldFullName: "Jane Doe"}, "BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nEND:VCARD"},
		{
			"vcard all fields",
			TypeVCard,
			map[string]string{
				FieldWebsite:  "https://jane.dev",
				FieldEmail:    "jane@doe.com",
				FieldPhone:    "+1 555",
				FieldJobTitle: "CTO",
				FieldCompany:  "Acme",
				FieldFullName: "Jane Doe",
			},
			"BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nORG:Acme\nTITLE:CTO\nTEL:+1 555\nEMAIL:jane@doe.com\nURL:https://jane.dev\nEND:VCARD",
		},
		{"vcard blank lines omitted", TypeVCard, map[string]string{FieldFullName: "Jane", FieldCompany: "  "}, "BEGIN:VCARD\nVERSION:3.0\nFN:Jane\nEND:VCARD"},
		{"social instagram", TypeSocial, map[string]string{FieldPlatform: "instagram", FieldHandle: "@jane"}, "https://instagram.com/jane"},
		{"social default platform", TypeSocial, map[string]string{FieldHandle: "jane"}, "https://instagram.com/jane"},
		{"social facebook", TypeSocial, map[string]string{FieldPlatform: "facebook", FieldHandle: "jane.doe"}, "https://facebook.com/jane.doe"},
		{"social linkedin", TypeSocial, map[string]string{FieldPlatform: "linkedin", FieldHandle: "@jane"}, "https://linkedin.com/in/jane"},
		{"social youtube handle", TypeSocial, map[string]string{FieldPlatform: "youtube", FieldHandle: "@jane"}, "https://www.youtube.com/@jane"},
		{"social youtube path", TypeSocial, map[string]string{FieldPlatform: "youtube", FieldHandle: "c/janechannel"}, "https://www.youtube.com/c/janechannel"},
		{"social full url", TypeSocial, map[string]string{FieldPlatform: "linkedin", FieldHandle: "https://example.com/me"}, "https://example.com/me"},
		{"social unknown platform", TypeSocial, map[string]string{FieldPlatform: "myspace", FieldHandle: "@jane"}, "jane"},
		{"social blank", TypeSocial, map[string]string{FieldPlatform: "youtube"}, ""},
		{"unknown type", ContentType("fax"), map[string]string{FieldText: "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.typ, tt.fields))
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	fields := map[string]string{FieldFullName: "Jane Doe", FieldEmail: "jane@doe.com", FieldCompany: "Acme"}

	first := Encode(TypeVCard, fields)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Encode(TypeVCard, fields))
	}
}

func TestSettingsPayload(t *testing.T) {
	s := DefaultSettings()
	s.Type = TypeSocial
	s.Fields = map[string]string{FieldPlatform: PlatformYouTube, FieldHandle: "@jane"}

	assert.Equal(t, "https://www.youtube.com/@jane", s.Payload())
}
