package qr

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/prasetyowira/qrstudio/constant"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Size bounds accepted for exports.
const (
	MinSize = 64
	MaxSize = 2048
)

// requiredField maps each content type to the field that must be filled in
// before there is anything to encode.
var requiredField = map[ContentType]string{
	TypeURL:      FieldURL,
	TypeText:     FieldText,
	TypeEmail:    FieldEmail,
	TypePhone:    FieldPhone,
	TypeWhatsApp: FieldPhone,
	TypeVCard:    FieldFullName,
	TypeSocial:   FieldHandle,
}

// IsEmpty reports whether the settings have nothing to encode yet: either the
// type's required field is blank or the encoder produced an empty payload.
func (s Settings) IsEmpty() bool {
	field, ok := requiredField[s.Type]
	if !ok {
		return true
	}
	if strings.TrimSpace(s.Field(field)) == "" {
		return true
	}
	return s.Payload() == ""
}

// Validate returns one error per invalid field, keyed by field name. Blank
// required fields are reported by IsEmpty, not here.
func (s Settings) Validate() map[string]error {
	problems := map[string]error{}

	switch s.Type {
	case TypeURL:
		raw := strings.TrimSpace(s.Field(FieldURL))
		if raw != "" {
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				problems[FieldURL] = errors.New(constant.ErrInvalidURL)
			}
		}
	case TypeEmail:
		addr := strings.TrimSpace(s.Field(FieldEmail))
		if addr != "" && !emailPattern.MatchString(addr) {
			problems[FieldEmail] = errors.New(constant.ErrInvalidEmail)
		}
	case TypePhone, TypeWhatsApp:
		digits := nonDigits.ReplaceAllString(s.Field(FieldPhone), "")
		if digits != "" && len(digits) < 6 {
			problems[FieldPhone] = errors.New(constant.ErrInvalidPhone)
		}
	}

	if s.Size != 0 && (s.Size < MinSize || s.Size > MaxSize) {
		problems["size"] = errors.New(constant.ErrInvalidSize)
	}
	if s.Format != "" && !s.Format.Valid() {
		problems["format"] = errors.New(constant.ErrUnsupportedFormat)
	}
	if s.Style.LogoSize != 0 && (s.Style.LogoSize < 5 || s.Style.LogoSize > 50) {
		problems["logo_size"] = errors.New(constant.ErrInvalidLogoSize)
	}
	if err := checkColor(s.Style.DotsColor, false); err != nil {
		problems["dots_color"] = err
	}
	if err := checkColor(s.Style.BackgroundColor, true); err != nil {
		problems["background_color"] = err
	}

	return problems
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func checkColor(c string, allowTransparent bool) error {
	c = strings.TrimSpace(c)
	if c == "" {
		return nil
	}
	if allowTransparent && strings.EqualFold(c, Transparent) {
		return nil
	}
	if !hexColor.MatchString(c) {
		return errors.New(constant.ErrInvalidColor)
	}
	return nil
}

var (
	ErrEmptyPayload    = errors.New(constant.ErrEmptyPayload)
	ErrTransparentJPEG = errors.New(constant.ErrTransparentJPEG)
)

// ValidationError carries the per-field problems found by Validate.
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) Error() string {
	return constant.ErrInvalidSettings
}

// Messages flattens Fields for JSON responses.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v.Error()
	}
	return out
}

// Check combines IsEmpty and Validate: it returns ErrEmptyPayload, a
// *ValidationError, or nil.
func (s Settings) Check() error {
	if s.IsEmpty() {
		return ErrEmptyPayload
	}
	if problems := s.Validate(); len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}
