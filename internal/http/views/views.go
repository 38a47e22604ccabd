// Package views embeds the HTML templates and static assets of the site.
//
// Every page template is a complete file named after the page
// ("plat_info.html"); shared fragments (header, footer, pagination, lists)
// are defined in _partials.html. Handlers render pages by file name through
// gin's HTML renderer.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02/01/2006 à 15:04") },
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
}

// Parse parses every embedded template.
func Parse() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// MustParse is Parse for process startup; it panics on a template error.
func MustParse() *template.Template {
	return template.Must(Parse())
}

// Static serves the embedded static assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// PageLink is one entry of a pagination bar. Num is 0 for a gap.
type PageLink struct {
	Num     int
	URL     string
	Current bool
}

// Pager is the pagination bar of a search result.
type Pager struct {
	Prev  string
	Next  string
	Links []PageLink
}

// NewPager builds the bar for path with the given query parameters. numbers
// lists the page numbers to show, 0 marking a gap.
func NewPager(path string, params url.Values, current int, hasPrev, hasNext bool, numbers []int) *Pager {
	link := func(n int) string {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return path + "?" + q.Encode()
	}
	p := &Pager{Links: make([]PageLink, 0, len(numbers))}
	if hasPrev {
		p.Prev = link(current - 1)
	}
	if hasNext {
		p.Next = link(current + 1)
	}
	for _, n := range numbers {
		if n == 0 {
			p.Links = append(p.Links, PageLink{})
			continue
		}
		p.Links = append(p.Links, PageLink{Num: n, URL: link(n), Current: n == current})
	}
	return p
}
