package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when no product has the given name.
	ErrProductNotFound = errors.New("product not found")
	// ErrColorUnavailable is returned when the product has no image for the color.
	ErrColorUnavailable = errors.New("color not available for product")
)

// SelectColor returns a new slice in which the product called name has
// color as its selected color. The input slice and its elements are never
// modified. When the color is unknown, the product has no image for it, or no
// product matches, the result is an unchanged copy together with an error
// wrapping ErrUnknownColor, ErrColorUnavailable or ErrProductNotFound.
//
// Names are expected to be unique; if they are not, every product with the
// name is updated.
func SelectColor(products []ViewProduct, name string, color Color) ([]ViewProduct, error) {
	out := cloneAll(products)
	var matched []int
	for i, p := range products {
		if p.Name == name {
			matched = append(matched, i)
		}
	}

	if !color.Valid() {
		return out, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}
	if len(matched) == 0 {
		return out, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	for _, i := range matched {
		if !out[i].HasColor(color) {
			return cloneAll(products), fmt.Errorf("%w: %q has no %s image", ErrColorUnavailable, name, color)
		}
		out[i].SelectedColor = color
	}
	return out, nil
}

func cloneAll(products []ViewProduct) []ViewProduct {
	out := make([]ViewProduct, len(products))
	for i, p := range products {
		out[i] = p.clone()
	}
	return out
}

// ProductKeys returns the URL key of each product: its slug when no other
// product shares the slug or is named like it, otherwise the name itself.
// Every key resolves back to its own product through ResolveName.
func ProductKeys(products []ViewProduct) []string {
	names := make(map[string]bool, len(products))
	slugs := make(map[string]int, len(products))
	for _, p := range products {
		names[p.Name] = true
		slugs[p.Slug()]++
	}

	keys := make([]string, len(products))
	for i, p := range products {
		s := p.Slug()
		if s != "" && slugs[s] == 1 && (s == p.Name || !names[s]) {
			keys[i] = s
			continue
		}
		keys[i] = p.Name
	}
	return keys
}

// ResolveName maps a URL key to a product name. An exact name match wins; a
// slug resolves only when exactly one product has it.
func ResolveName(products []ViewProduct, key string) (string, bool) {
	for _, p := range products {
		if p.Name == key {
			return p.Name, true
		}
	}
	var name string
	n := 0
	for _, p := range products {
		if p.Slug() == key {
			name = p.Name
			n++
		}
	}
	return name, n == 1
}
