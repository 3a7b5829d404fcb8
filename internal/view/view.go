// Package view renders storefront view sessions as HTML.
package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/keremustuner/Case-Study/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadingRefreshSeconds is how often a page still loading reloads itself.
const LoadingRefreshSeconds = 1

// Star is one rendered rating marker.
type Star struct {
	Glyph domain.Glyph `json:"glyph"`
	Class string       `json:"class"`
}

// Swatch is one color button of a card.
type Swatch struct {
	Color    domain.Color `json:"color"`
	Label    string       `json:"label"`
	Selected bool         `json:"selected"`
}

// Card is the display form of a ViewProduct.
type Card struct {
	Name          string       `json:"name"`
	Key           string       `json:"key"`
	ColorAction   string       `json:"color_action"`
	Price         string       `json:"price"`
	Score         string       `json:"score"`
	Stars         []Star       `json:"stars"`
	ImageURL      string       `json:"image_url,omitempty"`
	SelectedColor domain.Color `json:"selected_color"`
	SelectedLabel string       `json:"selected_label"`
	Swatches      []Swatch     `json:"swatches"`
}

// Page is everything the storefront template needs.
type Page struct {
	SessionID string           `json:"session_id"`
	State     domain.LoadState `json:"state"`
	Error     string           `json:"error,omitempty"`
	Cards     []Card           `json:"cards"`
	Settings  string           `json:"-"`
}

// ErrorMessage is the banner shown when the catalog could not be loaded.
func ErrorMessage(msg string) string {
	return fmt.Sprintf("Error: %s. Failed to load products. Please make sure the backend is running.", msg)
}

// NewCard builds the card of one product addressed by key (see
// domain.ProductKeys). Swatches are emitted only for colors the product has
// an image for, in yellow, white, rose order.
func NewCard(p domain.ViewProduct, key string) Card {
	glyphs := domain.Stars(p.Popularity)
	stars := make([]Star, len(glyphs))
	for i, g := range glyphs {
		stars[i] = Star{Glyph: g, Class: g.IconClass()}
	}

	colors := p.AvailableColors()
	swatches := make([]Swatch, len(colors))
	for i, c := range colors {
		swatches[i] = Swatch{Color: c, Label: c.Label(), Selected: c == p.SelectedColor}
	}

	return Card{
		Name:          p.Name,
		Key:           key,
		ColorAction:   "/products/" + url.PathEscape(key) + "/color",
		Price:         domain.FormatPrice(p.Price),
		Score:         domain.FormatScore(p.Popularity),
		Stars:         stars,
		ImageURL:      p.ImageURL(),
		SelectedColor: p.SelectedColor,
		SelectedLabel: p.SelectedColor.Label(),
		Swatches:      swatches,
	}
}

// NewPage builds the page model of a session.
func NewPage(sess *domain.Session, settings domain.CarouselSettings) (Page, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return Page{}, fmt.Errorf("marshal carousel settings: %w", err)
	}

	page := Page{
		SessionID: sess.ID,
		State:     sess.State,
		Cards:     make([]Card, 0, len(sess.Products)),
		Settings:  string(raw),
	}
	if sess.State == domain.StateError {
		page.Error = ErrorMessage(sess.Error)
	}
	if sess.State == domain.StateReady {
		keys := domain.ProductKeys(sess.Products)
		for i, p := range sess.Products {
			page.Cards = append(page.Cards, NewCard(p, keys[i]))
		}
	}
	return page, nil
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"refreshSeconds": func() int { return LoadingRefreshSeconds },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page. Output is buffered so a template failure never
// leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.html", page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
