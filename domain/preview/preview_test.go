package preview

import (
	"context"
	"errors"
	"image"
	"strconv"
	"testing"

	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRenderer is a testify mock of Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(content string, size int, style qr.Style, format qr.Format) (*qr.Surface, error) {
	args := m.Called(content, size, style, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qr.Surface), args.Error(1)
}

func (m *MockRenderer) Encode(surface *qr.Surface, format qr.Format) ([]byte, error) {
	args := m.Called(surface, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestSession(renderer Renderer, c *cache.NamespaceLRU[[]byte]) *Session {
	s := NewSession(renderer, c, 0)
	n := 0
	s.newID = func() string {
		n++
		return "instance-" + strconv.Itoa(n)
	}
	return s
}

func urlSettings(u string) qr.Settings {
	s := qr.DefaultSettings()
	s.Fields[qr.FieldURL] = u
	return s
}

func stubRender(renderer *MockRenderer) {
	surface := &qr.Surface{Bitmap: image.NewNRGBA(image.Rect(0, 0, 1, 1))}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(surface, nil)
	renderer.On("Encode", surface, mock.Anything).Return([]byte("img"), nil)
}

func TestUpdate_CreatesThenUpdatesInPlace(t *testing.T) {
	// Arrange
	renderer := new(MockRenderer)
	stubRender(renderer)
	s := newTestSession(renderer, nil)

	// Act
	first, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)
	second, err := s.Update(context.Background(), urlSettings("https://b.io"))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "instance-1", first.ID)
	assert.True(t, first.Recreated)
	assert.Equal(t, "instance-1", second.ID)
	assert.False(t, second.Recreated)
	assert.Equal(t, "image/png", second.MIMEType)
	renderer.AssertCalled(t, "Render", "https://b.io", DefaultMaxSize, mock.Anything, qr.FormatPNG)
}

func TestUpdate_RecreatesOnIncompatibleChange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *qr.Settings)
	}{
		{"size", func(s *qr.Settings) { s.Size = 256 }},
		{"format", func(s *qr.Settings) { s.Format = qr.FormatSVG }},
		{"logo", func(s *qr.Settings) { s.Style.Logo = []byte("logo") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := new(MockRenderer)
			stubRender(renderer)
			s := newTestSession(renderer, nil)

			_, err := s.Update(context.Background(), urlSettings("https://a.io"))
			require.NoError(t, err)

			next := urlSettings("https://a.io")
			tt.mutate(&next)
			inst, err := s.Update(context.Background(), next)

			require.NoError(t, err)
			assert.Equal(t, "instance-2", inst.ID)
			assert.True(t, inst.Recreated)
		})
	}
}

func TestUpdate_StyleChangeKeepsInstance(t *testing.T) {
	renderer := new(MockRenderer)
	stubRender(renderer)
	s := newTestSession(renderer, nil)

	_, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)
	next := urlSettings("https://a.io")
	next.Style.DotsColor = "#ff0000"
	inst, err := s.Update(context.Background(), next)

	require.NoError(t, err)
	assert.Equal(t, "instance-1", inst.ID)
}

func TestUpdate_EmptyDestroysInstance(t *testing.T) {
	renderer := new(MockRenderer)
	stubRender(renderer)
	s := newTestSession(renderer, nil)
	_, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)

	_, err = s.Update(context.Background(), urlSettings("  "))

	assert.ErrorIs(t, err, qr.ErrEmptyPayload)
	_, ok := s.Current()
	assert.False(t, ok)

	// the next non-empty update starts a fresh instance
	inst, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)
	assert.Equal(t, "instance-2", inst.ID)
}

func TestUpdate_RenderErrorKeepsPrevious(t *testing.T) {
	renderer := new(MockRenderer)
	surface := &qr.Surface{Bitmap: image.NewNRGBA(image.Rect(0, 0, 1, 1))}
	renderer.On("Render", "https://a.io", mock.Anything, mock.Anything, mock.Anything).Return(surface, nil)
	renderer.On("Render", "https://bad.io", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("invalid color"))
	renderer.On("Encode", surface, mock.Anything).Return([]byte("img"), nil)
	s := newTestSession(renderer, nil)

	_, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)
	_, err = s.Update(context.Background(), urlSettings("https://bad.io"))

	assert.EqualError(t, err, "invalid color")
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "https://a.io", current.Settings.Payload())
}

func TestUpdate_UsesCache(t *testing.T) {
	renderer := new(MockRenderer)
	stubRender(renderer)
	c := cache.NewNamespaceLRU[[]byte](8)
	s := newTestSession(renderer, c)

	_, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)
	_, err = s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)

	renderer.AssertNumberOfCalls(t, "Render", 1)
	assert.Equal(t, uint64(1), c.Stats().Hits)
}

func TestUpdate_SmallSizeNotCapped(t *testing.T) {
	renderer := new(MockRenderer)
	stubRender(renderer)
	s := newTestSession(renderer, nil)

	settings := urlSettings("https://a.io")
	settings.Size = 128
	_, err := s.Update(context.Background(), settings)

	require.NoError(t, err)
	renderer.AssertCalled(t, "Render", "https://a.io", 128, mock.Anything, qr.FormatPNG)
}

func TestDestroy(t *testing.T) {
	renderer := new(MockRenderer)
	stubRender(renderer)
	s := newTestSession(renderer, nil)
	_, err := s.Update(context.Background(), urlSettings("https://a.io"))
	require.NoError(t, err)

	s.Destroy()

	_, ok := s.Current()
	assert.False(t, ok)
}
