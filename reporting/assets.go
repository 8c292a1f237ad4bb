package reporting

import (
	"embed"
	"io/fs"
	"os"
)

const (
	TemplateFile   = "report_template.html"
	StylesheetFile = "circle.css"
	ReportFile     = "custom-report.html"
)

//go:embed templates/report_template.html templates/circle.css
var templateFS embed.FS

// Assets locates the report template and stylesheet. Resources come from the
// packaged filesystem unless an on-disk override path is set.
type Assets struct {
	fsys           fs.FS
	TemplatePath   string // Optional on-disk template overriding the packaged one
	StylesheetPath string // Optional on-disk stylesheet overriding the packaged one
}

// DefaultAssets returns the assets embedded in the binary
func DefaultAssets() *Assets {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The embed directive guarantees the directory exists
		panic(err)
	}
	return NewAssets(sub)
}

// NewAssets returns assets read from the root of fsys
func NewAssets(fsys fs.FS) *Assets {
	return &Assets{fsys: fsys}
}

// Template returns the HTML report template text
func (a *Assets) Template() (string, error) {
	content, err := a.read(TemplateFile, a.TemplatePath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Stylesheet returns the report stylesheet
func (a *Assets) Stylesheet() ([]byte, error) {
	return a.read(StylesheetFile, a.StylesheetPath)
}

func (a *Assets) read(name, override string) ([]byte, error) {
	if override != "" {
		content, err := os.ReadFile(override)
		if err != nil {
			return nil, &ResourceLoadError{Resource: override, Err: err}
		}
		return content, nil
	}
	if a.fsys == nil {
		return nil, &ResourceLoadError{Resource: name, Err: fs.ErrNotExist}
	}
	content, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return nil, &ResourceLoadError{Resource: name, Err: err}
	}
	return content, nil
}
