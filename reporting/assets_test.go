package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAssets(t *testing.T) {
	assets := DefaultAssets()

	tmpl, err := assets.Template()
	require.NoError(t, err)
	assert.Contains(t, tmpl, PlaceholderPassRate)
	assert.Contains(t, tmpl, PlaceholderPassed)
	assert.Contains(t, tmpl, PlaceholderTotal)
	assert.Equal(t, 1, strings.Count(tmpl, RowsMarker))
	assert.Contains(t, tmpl, StylesheetFile)

	css, err := assets.Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, string(css), "tr.danger")
}

func TestAssets_Overrides(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "custom.html")
	cssPath := filepath.Join(dir, "custom.css")
	require.NoError(t, os.WriteFile(tmplPath, []byte("<tbody></tbody>"), 0644))
	require.NoError(t, os.WriteFile(cssPath, []byte("body {}"), 0644))

	assets := DefaultAssets()
	assets.TemplatePath = tmplPath
	assets.StylesheetPath = cssPath

	tmpl, err := assets.Template()
	require.NoError(t, err)
	assert.Equal(t, "<tbody></tbody>", tmpl)

	css, err := assets.Stylesheet()
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(css))
}

func TestAssets_MissingOverride(t *testing.T) {
	assets := DefaultAssets()
	assets.TemplatePath = filepath.Join(t.TempDir(), "missing.html")

	_, err := assets.Template()
	require.Error(t, err)
	assert.True(t, IsResourceLoadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssets_NilFS(t *testing.T) {
	_, err := NewAssets(nil).Stylesheet()
	require.Error(t, err)
	assert.True(t, IsResourceLoadError(err))
}
