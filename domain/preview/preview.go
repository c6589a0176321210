// Package preview owns the live QR preview. A Session holds at most one
// current instance and decides, on every settings change, whether that
// instance can be updated in place or has to be recreated.
package preview

import (
	"bytes"
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// DefaultMaxSize caps the edge of the preview image.
const DefaultMaxSize = 320

// Renderer draws and encodes one QR code.
type Renderer interface {
	Render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error)
	Encode(surface *qr.Surface, format qr.Format) ([]byte, error)
}

// Instance is the rendered preview currently on display.
type Instance struct {
	ID        string
	Settings  qr.Settings
	Image     []byte
	MIMEType  string
	Recreated bool
}

// Session holds the current preview instance.
type Session struct {
	mu       sync.Mutex
	renderer Renderer
	cache    *cache.NamespaceLRU[[]byte]
	maxSize  int
	current  *Instance
	newID    func() string
}

// NewSession creates a session with no instance. c may be nil to disable
// caching; maxSize <= 0 selects DefaultMaxSize.
func NewSession(renderer Renderer, c *cache.NamespaceLRU[[]byte], maxSize int) *Session {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if c == nil {
		c = cache.NewNamespaceLRU[[]byte](0)
	}
	return &Session{
		renderer: renderer,
		cache:    c,
		maxSize:  maxSize,
		newID:    uuid.NewString,
	}
}

// Update renders settings into the current instance. Empty settings destroy
// the instance and return qr.ErrEmptyPayload. A change of size, format or
// logo recreates the instance under a new ID; anything else re-renders it in
// place. On a render error the previous instance is kept.
func (s *Session) Update(ctx context.Context, settings qr.Settings) (Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings = normalize(settings)
	if settings.IsEmpty() {
		s.current = nil
		logger.CtxDebug(ctx, "Preview destroyed", logger.LoggerInfo{
			ContextFunction: constant.CtxPreview,
		})
		return Instance{}, qr.ErrEmptyPayload
	}

	image, mime, hit, err := s.render(settings)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to render preview", logger.LoggerInfo{
			ContextFunction: constant.CtxPreview,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeRenderFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
		})
		return Instance{}, err
	}

	recreate := s.current == nil || needsRecreate(s.current.Settings, settings)
	var id string
	if recreate {
		id = s.newID()
	} else {
		id = s.current.ID
	}

	s.current = &Instance{
		ID:        id,
		Settings:  settings,
		Image:     image,
		MIMEType:  mime,
		Recreated: recreate,
	}

	logger.CtxDebug(ctx, "Preview updated", logger.LoggerInfo{
		ContextFunction: constant.CtxPreview,
		Data: map[string]interface{}{
			constant.DataInstance:  id,
			constant.DataRecreated: recreate,
			constant.DataCacheHit:  hit,
			constant.DataFormat:    settings.Format,
		},
	})
	return *s.current, nil
}

// Current returns the instance on display, if any.
func (s *Session) Current() (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Instance{}, false
	}
	return *s.current, true
}

// Destroy drops the current instance.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *Session) render(settings qr.Settings) ([]byte, string, bool, error) {
	size := min(settings.Size, s.maxSize)
	format := qr.FormatPNG
	if settings.Format == qr.FormatSVG {
		format = qr.FormatSVG
	}

	namespace := constant.PreviewNamespace + ":" + string(format)
	key := fingerprint(settings, size)
	if data, ok := s.cache.Get(namespace, key); ok {
		return data, format.MIMEType(), true, nil
	}

	surface, err := s.renderer.Render(settings.Payload(), size, settings.Style, format)
	if err != nil {
		return nil, "", false, err
	}
	data, err := s.renderer.Encode(surface, format)
	if err != nil {
		return nil, "", false, err
	}

	s.cache.Set(namespace, key, data)
	return data, format.MIMEType(), false, nil
}

func normalize(settings qr.Settings) qr.Settings {
	def := qr.DefaultSettings()
	if settings.Size <= 0 {
		settings.Size = def.Size
	}
	if settings.Format == "" {
		settings.Format = def.Format
	}
	settings.Style = settings.Style.WithDefaults()
	return settings
}

func needsRecreate(prev, next qr.Settings) bool {
	return prev.Size != next.Size ||
		prev.Format != next.Format ||
		!bytes.Equal(prev.Style.Logo, next.Style.Logo)
}

func fingerprint(settings qr.Settings, size int) string {
	st := settings.Style
	return cache.Fingerprint(
		settings.Payload(),
		strconv.Itoa(size),
		st.DotsColor,
		st.BackgroundColor,
		string(st.DotsType),
		string(st.CornerType),
		string(st.EyeType),
		strconv.Itoa(st.LogoSize),
		strconv.Itoa(st.LogoPixelSize),
		strconv.Itoa(st.MarginPx()),
		string(st.Logo),
	)
}
