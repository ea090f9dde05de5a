package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"gruvbox", "tokyo-night"}, ThemeNames())
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	assert.True(t, ok)

	SetTheme(p)
	assert.Equal(t, p, CurrentPalette)
	assert.Equal(t, p.Primary, TextPrimaryStyle.GetForeground())

	_, ok = GetPalette("missing")
	assert.False(t, ok)
}

func TestFormTheme(t *testing.T) {
	theme := FormTheme()
	assert.NotNil(t, theme)
	assert.Equal(t, CurrentPalette.Primary, theme.Focused.Title.GetForeground())
}
