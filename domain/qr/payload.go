package qr

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	nonDigits    = regexp.MustCompile(`\D`)
	leadingZeros = regexp.MustCompile(`^0+`)
	httpScheme   = regexp.MustCompile(`^https?://`)
)

// Encode returns the literal string to embed for the given content type and
// field values. It never fails: missing or malformed input yields "" or a
// best-effort string, and callers treat "" as nothing to encode yet.
func Encode(t ContentType, fields map[string]string) string {
	get := func(name string) string {
		if fields == nil {
			return ""
		}
		return fields[name]
	}

	switch t {
	case TypeURL:
		return get(FieldURL)
	case TypeText:
		return get(FieldText)
	case TypeEmail:
		return encodeEmail(get(FieldEmail), get(FieldSubject), get(FieldBody))
	case TypePhone:
		return encodePhone(get(FieldPhone))
	case TypeWhatsApp:
		return encodeWhatsApp(get(FieldPhone), get(FieldMessage))
	case TypeVCard:
		return encodeVCard(get)
	case TypeSocial:
		return encodeSocial(get(FieldPlatform), get(FieldHandle))
	default:
		return ""
	}
}

// Payload is Encode applied to the settings' type and fields.
func (s Settings) Payload() string {
	return Encode(s.Type, s.Fields)
}

func encodeEmail(to, subject, body string) string {
	var params []string
	if subject != "" {
		params = append(params, "subject="+escapeComponent(subject))
	}
	if body != "" {
		params = append(params, "body="+escapeComponent(body))
	}
	query := ""
	if len(params) > 0 {
		query = "?" + strings.Join(params, "&")
	}
	return "mailto:" + to + query
}

// encodePhone never prefixes a country code: the number is taken as typed,
// reduced to its digits, keeping an explicit leading '+'.
func encodePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(phone, "+") {
		return "tel:+" + digits
	}
	return "tel:" + digits
}

func encodeWhatsApp(raw, message string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	digits := leadingZeros.ReplaceAllString(nonDigits.ReplaceAllString(phone, ""), "")
	if digits == "" {
		return ""
	}
	text := ""
	if message != "" {
		text = "?text=" + escapeComponent(message)
	}
	return "https://wa.me/" + digits + text
}

func encodeVCard(get func(string) string) string {
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}
	for _, f := range []struct{ prefix, field string }{
		{"FN:", FieldFullName},
		{"ORG:", FieldCompany},
		{"TITLE:", FieldJobTitle},
		{"TEL:", FieldPhone},
		{"EMAIL:", FieldEmail},
		{"URL:", FieldWebsite},
	} {
		if v := get(f.field); strings.TrimSpace(v) != "" {
			lines = append(lines, f.prefix+v)
		}
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}

func encodeSocial(platform, raw string) string {
	if platform == "" {
		platform = PlatformInstagram
	}
	handle := strings.TrimSpace(raw)
	if handle == "" {
		return ""
	}
	if httpScheme.MatchString(handle) {
		return handle
	}
	username := strings.TrimPrefix(handle, "@")

	switch platform {
	case PlatformInstagram:
		return "https://instagram.com/" + username
	case PlatformFacebook:
		return "https://facebook.com/" + username
	case PlatformLinkedIn:
		return "https://linkedin.com/in/" + username
	case PlatformYouTube:
		if strings.HasPrefix(handle, "@") {
			return "https://www.youtube.com/@" + username
		}
		return "https://www.youtube.com/" + username
	default:
		return username
	}
}

// escapeComponent percent-encodes s for use inside a URI query value,
// spelling spaces as %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
