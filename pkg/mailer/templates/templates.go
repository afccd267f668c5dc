package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const (
	OrderPlaced     = "order_placed"
	OrderPaid       = "order_paid"
	ProductApproved = "product_approved"
	ProductRejected = "product_rejected"
)

var names = []string{OrderPlaced, OrderPaid, ProductApproved, ProductRejected}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	}
	return value
}

type pair struct {
	text *texttpl.Template
	html *htmpl.Template
}

// parsed holds every template pair, parsed once. A broken template panics at
// startup instead of failing the first send.
var parsed = mustParseAll()

func mustParseAll() map[string]pair {
	out := make(map[string]pair, len(names))
	for _, n := range names {
		t := texttpl.Must(texttpl.New(n + ".text.tmpl").
			Funcs(texttpl.FuncMap{"default": defaultFn}).
			ParseFS(FS, n+".text.tmpl"))
		h := htmpl.Must(htmpl.New(n + ".html.tmpl").
			Funcs(htmpl.FuncMap{"default": defaultFn}).
			ParseFS(FS, n+".html.tmpl"))
		out[n] = pair{text: t, html: h}
	}
	return out
}

// Known reports whether name has a text and html template pair.
func Known(name string) bool {
	_, ok := parsed[name]
	return ok
}

// Render executes <name>.text.tmpl and <name>.html.tmpl with data.
func Render(name string, data any) (text string, html string, err error) {
	p, ok := parsed[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var tb, hb bytes.Buffer
	if err := p.text.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	if err := p.html.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return tb.String(), hb.String(), nil
}
