// Package theme manages the one persisted user preference: light or dark.
package theme

import (
	"context"
	"errors"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
)

var (
	ErrInvalidTheme = errors.New(constant.ErrInvalidTheme)
	ErrNotFound     = errors.New(constant.ErrThemeNotFound)
)

// Repository persists preference values by key.
type Repository interface {
	Find(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

// Valid reports whether t is a known theme.
func Valid(t string) bool {
	return t == constant.ThemeLight || t == constant.ThemeDark
}

// Service reads and writes the theme preference.
type Service struct {
	repo     Repository
	fallback string
}

// NewService creates a theme service. fallback is returned while nothing has
// been stored; an invalid fallback selects light.
func NewService(repo Repository, fallback string) *Service {
	if !Valid(fallback) {
		fallback = constant.ThemeLight
	}
	return &Service{
		repo:     repo,
		fallback: fallback,
	}
}

// Get returns the stored theme. A missing, unreadable or corrupt value yields
// the fallback.
func (s *Service) Get(ctx context.Context) string {
	value, err := s.repo.Find(ctx, constant.ThemeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.CtxWarn(ctx, "Failed to read theme preference", logger.LoggerInfo{
				ContextFunction: constant.CtxTheme,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeThemeStore,
					Message: err.Error(),
					Type:    constant.ErrTypeTheme,
				},
			})
		}
		return s.fallback
	}
	if !Valid(value) {
		return s.fallback
	}
	return value
}

// Set validates and persists t.
func (s *Service) Set(ctx context.Context, t string) (string, error) {
	if !Valid(t) {
		logger.CtxWarn(ctx, constant.ErrInvalidTheme, logger.LoggerInfo{
			ContextFunction: constant.CtxTheme,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidTheme,
				Message: constant.ErrInvalidTheme,
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataTheme: t,
			},
		})
		return "", ErrInvalidTheme
	}

	if err := s.repo.Save(ctx, constant.ThemeKey, t); err != nil {
		logger.CtxError(ctx, "Failed to save theme preference", logger.LoggerInfo{
			ContextFunction: constant.CtxTheme,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeThemeStore,
				Message: err.Error(),
				Type:    constant.ErrTypeTheme,
			},
		})
		return "", err
	}

	logger.CtxInfo(ctx, "Theme preference saved", logger.LoggerInfo{
		ContextFunction: constant.CtxTheme,
		Data: map[string]interface{}{
			constant.DataTheme: t,
		},
	})
	return t, nil
}

// Toggle flips the current theme and persists the result.
func (s *Service) Toggle(ctx context.Context) (string, error) {
	next := constant.ThemeDark
	if s.Get(ctx) == constant.ThemeDark {
		next = constant.ThemeLight
	}
	return s.Set(ctx, next)
}
