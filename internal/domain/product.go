package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/keremustuner/Case-Study/pkg/slug"
)

// Color is a metal color variant key used in Product.Images.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorWhite  Color = "white"
	ColorRose   Color = "rose"
)

// Colors lists every known color in swatch order.
var Colors = []Color{ColorYellow, ColorWhite, ColorRose}

var colorLabels = map[Color]string{
	ColorYellow: "Yellow Gold",
	ColorWhite:  "White Gold",
	ColorRose:   "Rose Gold",
}

// ErrUnknownColor is returned for a color key outside yellow, white and rose.
var ErrUnknownColor = errors.New("unknown color")

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	_, ok := colorLabels[c]
	return ok
}

// Label returns the display name, or "" for an unknown color.
func (c Color) Label() string {
	return colorLabels[c]
}

// ParseColor converts s to a Color.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

// Product is a catalog record as served by the catalog API.
type Product struct {
	Name       string           `json:"name" validate:"required,max=200"`
	Price      *float64         `json:"price" validate:"omitempty,gte=0"`
	Popularity float64          `json:"popularity_5_scale" validate:"gte=0,lte=5"`
	Images     map[Color]string `json:"images" validate:"dive,omitempty,image_src"`

	// Raw inputs of the catalog's pricing. Carried, not rendered.
	PopularityScore float64 `json:"popularityScore,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
}

// HasColor reports whether the product has an image for c.
func (p Product) HasColor(c Color) bool {
	return p.Images[c] != ""
}

// AvailableColors returns the colors with an image, in swatch order.
func (p Product) AvailableColors() []Color {
	out := make([]Color, 0, len(Colors))
	for _, c := range Colors {
		if p.HasColor(c) {
			out = append(out, c)
		}
	}
	return out
}

// ViewProduct is a Product plus the color currently chosen in the view.
type ViewProduct struct {
	Product
	SelectedColor Color `json:"selectedColor"`
}

// Slug returns the URL-safe form of the product name.
func (p Product) Slug() string {
	return slug.Generate(p.Name)
}

// ImageURL returns the image for the selected color, or "" if the product
// has none for it.
func (v ViewProduct) ImageURL() string {
	return v.Images[v.SelectedColor]
}

// clone returns a copy that shares nothing mutable with v.
func (v ViewProduct) clone() ViewProduct {
	out := v
	if v.Price != nil {
		p := *v.Price
		out.Price = &p
	}
	if v.Images != nil {
		out.Images = make(map[Color]string, len(v.Images))
		for k, u := range v.Images {
			out.Images[k] = u
		}
	}
	return out
}

// ColorPolicy decides the initial selected color of a freshly loaded product.
type ColorPolicy string

const (
	// PolicyYellow always starts on yellow, even without a yellow image.
	PolicyYellow ColorPolicy = "yellow"
	// PolicyPreferred starts on the first present color in yellow, white,
	// rose order, falling back to yellow when the product has no images.
	PolicyPreferred ColorPolicy = "preferred"
)

// ParseColorPolicy converts s to a ColorPolicy.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	p := ColorPolicy(s)
	if !slices.Contains([]ColorPolicy{PolicyYellow, PolicyPreferred}, p) {
		return "", fmt.Errorf("unknown color policy %q", s)
	}
	return p, nil
}

// DefaultColor returns the initial color for p under the policy.
func (cp ColorPolicy) DefaultColor(p Product) Color {
	if cp == PolicyPreferred {
		if avail := p.AvailableColors(); len(avail) > 0 {
			return avail[0]
		}
	}
	return ColorYellow
}

// NewViewProducts maps catalog records to view records with their default
// selected color.
func NewViewProducts(products []Product, policy ColorPolicy) []ViewProduct {
	out := make([]ViewProduct, len(products))
	for i, p := range products {
		out[i] = ViewProduct{Product: p, SelectedColor: policy.DefaultColor(p)}
	}
	return out
}
