// Package export produces the downloadable file for a single QR code.
package export

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

// Renderer draws and encodes one QR code.
type Renderer interface {
	Render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error)
	Encode(surface *qr.Surface, format qr.Format) ([]byte, error)
}

// Download is an encoded image ready to be saved.
type Download struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Service renders exports at full size.
type Service struct {
	renderer Renderer
	cache    *cache.NamespaceLRU[[]byte]
}

// NewService creates an export service. c may be nil to disable caching.
func NewService(renderer Renderer, c *cache.NamespaceLRU[[]byte]) *Service {
	if c == nil {
		c = cache.NewNamespaceLRU[[]byte](0)
	}
	return &Service{
		renderer: renderer,
		cache:    c,
	}
}

// Export validates settings, renders them at the requested size and encodes
// the result in the requested format. name is the file name without
// extension; blank selects "qr".
func (s *Service) Export(ctx context.Context, settings qr.Settings, name string) (*Download, error) {
	def := qr.DefaultSettings()
	if settings.Size <= 0 {
		settings.Size = def.Size
	}
	if settings.Format == "" {
		settings.Format = def.Format
	}
	settings.Style = settings.Style.WithDefaults()

	if err := settings.Check(); err != nil {
		logger.CtxWarn(ctx, "Export rejected", logger.LoggerInfo{
			ContextFunction: constant.CtxExport,
			Error: &logger.CustomError{
				Code:    codeFor(err),
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataType: settings.Type,
			},
		})
		return nil, err
	}
	if settings.Format == qr.FormatJPEG && settings.Style.IsTransparent() {
		logger.CtxWarn(ctx, constant.ErrTransparentJPEG, logger.LoggerInfo{
			ContextFunction: constant.CtxExport,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeTransparentJPEG,
				Message: constant.ErrTransparentJPEG,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, qr.ErrTransparentJPEG
	}

	payload := settings.Payload()
	namespace := string(settings.Format)
	key := cache.Fingerprint(payload, settings.Style.DotsColor, settings.Style.BackgroundColor,
		string(settings.Style.DotsType), string(settings.Style.CornerType), string(settings.Style.EyeType),
		string(settings.Style.Logo), strconv.Itoa(settings.Size), strconv.Itoa(settings.Style.LogoSize),
		strconv.Itoa(settings.Style.LogoPixelSize), strconv.Itoa(settings.Style.MarginPx()))

	data, hit := s.cache.Get(namespace, key)
	if !hit {
		surface, err := s.renderer.Render(payload, settings.Size, settings.Style, settings.Format)
		if err != nil {
			logger.CtxError(ctx, "Failed to render export", logger.LoggerInfo{
				ContextFunction: constant.CtxExport,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeRenderFailure,
					Message: err.Error(),
					Type:    constant.ErrTypeRender,
				},
			})
			return nil, err
		}
		data, err = s.renderer.Encode(surface, settings.Format)
		if err != nil {
			logger.CtxError(ctx, "Failed to encode export", logger.LoggerInfo{
				ContextFunction: constant.CtxExport,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeEncodeFailure,
					Message: err.Error(),
					Type:    constant.ErrTypeRender,
				},
			})
			return nil, err
		}
		s.cache.Set(namespace, key, data)
	}

	download := &Download{
		FileName: FileName(name, settings.Format),
		MIMEType: settings.Format.MIMEType(),
		Data:     data,
	}

	logger.CtxInfo(ctx, "QR exported", logger.LoggerInfo{
		ContextFunction: constant.CtxExport,
		Data: map[string]interface{}{
			constant.DataFormat:   settings.Format,
			constant.DataSize:     settings.Size,
			constant.DataFileName: download.FileName,
			constant.DataBytes:    len(data),
			constant.DataCacheHit: hit,
		},
	})
	return download, nil
}

// FileName builds "<name>.<ext>", stripping path separators from name.
func FileName(name string, format qr.Format) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	if name == "" {
		name = constant.DefaultExportName
	}
	return name + "." + format.Extension()
}

func codeFor(err error) string {
	if errors.Is(err, qr.ErrEmptyPayload) {
		return constant.ErrCodeEmptyPayload
	}
	return constant.ErrCodeInvalidSettings
}
