package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hauwenw/ping-parking/internal/format"
	"github.com/hauwenw/ping-parking/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer holds one template set per page, each parsed together with the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	const op = "web.NewRenderer"

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")

		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %s: %w", op, name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

// Render executes page into a buffer first so a template error never leaves a
// half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("web.Render: unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, path.Base(layoutFile), data); err != nil {
		return fmt.Errorf("web.Render: %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"phone":    format.Phone,
	"currency": format.Currency,
	"date":     format.Date,
	"datetime": format.DateTime,
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"price": func(p *int64) string {
		if p == nil {
			return "-"
		}
		return format.Currency(*p)
	},
	"num": func(p *int64) string {
		if p == nil {
			return ""
		}
		return fmt.Sprint(*p)
	},
	"has": func(list []string, v string) bool {
		for _, item := range list {
			if item == v {
				return true
			}
		}
		return false
	},
	"paymentStatus": func(s *string) string {
		if s == nil {
			return "-"
		}
		return format.PaymentStatus(storage.PaymentStatus(*s))
	},
	"json": func(v map[string]any) string {
		if len(v) == 0 {
			return ""
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	},
	"join":          strings.Join,
	"rentalTypes":   func() []storage.RentalType { return storage.RentalTypes },
	"spaceStatuses": func() []storage.SpaceStatus { return storage.SpaceStatuses },
}
