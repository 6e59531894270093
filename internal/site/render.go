// Package site renders the navigable view of a loaded site. Rendering is a
// pure function of the router state and the site content.
package site

import (
	"bytes"
	"html/template"
	"io"

	"github.com/ziadkadry99/mdparty/internal/content"
	"github.com/ziadkadry99/mdparty/internal/router"
)

var (
	pageTmpl = template.Must(template.New("page").Parse(pageTemplate))
	appTmpl  = template.Must(template.New("app").Parse(appTemplate))
)

// Model is everything a render depends on.
type Model struct {
	State router.State
	// Site is nil until the load sequence has finished.
	Site *content.Site
	// AssetBase prefixes the site stylesheet reference.
	AssetBase string
	// LiveURL is the websocket path of a live session. Empty renders a
	// static document.
	LiveURL string
}

type navItem struct {
	Name   string
	Href   string
	Active bool
}

// appData holds the data passed to appTemplate.
type appData struct {
	Loading   bool
	SiteTitle string
	Header    template.HTML
	Footer    template.HTML
	Nav       []navItem
	Content   template.HTML
	NotFound  bool
}

// pageData holds the data passed to pageTemplate.
type pageData struct {
	Title      string
	BaseCSS    template.CSS
	Stylesheet string
	LiveURL    string
	Script     template.JS
	App        template.HTML
}

func (m Model) ready() bool {
	return m.State.Phase == router.Ready && m.Site != nil
}

// Title is the document title: "<page> - <site title>".
func Title(m Model) string {
	if !m.ready() {
		return "Loading..."
	}
	page := m.State.Page
	if m.State.NotFound {
		page = "Not found"
	}
	return page + " - " + m.Site.Config.Title
}

// RenderApp writes the app region only.
func RenderApp(w io.Writer, m Model) error {
	return appTmpl.Execute(w, buildApp(m))
}

// Render writes a complete HTML document.
func Render(w io.Writer, m Model) error {
	var app bytes.Buffer
	if err := RenderApp(&app, m); err != nil {
		return err
	}

	data := pageData{
		Title:      Title(m),
		BaseCSS:    template.CSS(cssContent),
		Stylesheet: StylesheetHref(m),
		LiveURL:    m.LiveURL,
		Script:     template.JS(liveScript),
		App:        template.HTML(app.String()),
	}
	return pageTmpl.Execute(w, data)
}

// StylesheetHref returns the link target of the site stylesheet, or "" when
// the site has none or is not loaded yet.
func StylesheetHref(m Model) string {
	if m.Site == nil {
		return ""
	}
	ref := m.Site.Config.StylesheetRef()
	if ref == "" {
		return ""
	}
	return m.AssetBase + ref
}

func buildApp(m Model) appData {
	if !m.ready() {
		return appData{Loading: true}
	}

	site := m.Site
	data := appData{
		SiteTitle: site.Config.Title,
		NotFound:  m.State.NotFound,
	}
	if doc, ok := site.Part("header"); ok {
		data.Header = template.HTML(doc.HTML)
	}
	if doc, ok := site.Part("footer"); ok {
		data.Footer = template.HTML(doc.HTML)
	}

	for _, name := range site.Sitemap {
		slug := router.Slugify(name)
		data.Nav = append(data.Nav, navItem{
			Name:   name,
			Href:   "#" + slug,
			Active: slug == m.State.Fragment,
		})
	}

	if !data.NotFound {
		doc, ok := site.Page(m.State.Page)
		if ok {
			data.Content = template.HTML(doc.HTML)
		} else {
			data.NotFound = true
		}
	}
	return data
}
