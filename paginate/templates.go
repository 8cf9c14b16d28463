package paginate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"pager/config"
)

// Values holds variables available for file name template expansion.
type Values struct {
	Context string
	// Name is source file name without extension.
	Name string
	// Dir is source directory relative to the input, "." for top level.
	Dir string
	Ext string
}

func expandTemplate(name config.TemplateFieldName, field, src string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	ext := filepath.Ext(src)
	values := Values{
		Context: string(name),
		Name:    strings.TrimSuffix(filepath.Base(src), ext),
		Dir:     filepath.ToSlash(filepath.Dir(src)),
		Ext:     strings.TrimPrefix(ext, "."),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
