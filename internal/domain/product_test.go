package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor_ValidAndLabel(t *testing.T) {
	assert.True(t, ColorYellow.Valid())
	assert.Equal(t, "Yellow Gold", ColorYellow.Label())
	assert.Equal(t, "White Gold", ColorWhite.Label())
	assert.Equal(t, "Rose Gold", ColorRose.Label())
	assert.False(t, Color("green").Valid())
	assert.Empty(t, Color("green").Label())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("rose")
	require.NoError(t, err)
	assert.Equal(t, ColorRose, c)

	_, err = ParseColor("Rose")
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestProduct_DecodeCatalogRecord(t *testing.T) {
	raw := `{
		"name": "Engagement Ring 1",
		"popularityScore": 0.85,
		"weight": 2.1,
		"price": 367.21,
		"popularity_5_scale": 4.3,
		"images": {"yellow": "https://cdn.example.com/y.jpg", "rose": "https://cdn.example.com/r.jpg"}
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "Engagement Ring 1", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, 367.21, *p.Price)
	assert.Equal(t, 4.3, p.Popularity)
	assert.Equal(t, 0.85, p.PopularityScore)
	assert.Equal(t, 2.1, p.Weight)
	assert.Equal(t, []Color{ColorYellow, ColorRose}, p.AvailableColors())
}

func TestProduct_NullPrice(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","price":null,"images":{}}`), &p))
	assert.Nil(t, p.Price)
}

func TestProduct_HasColorIgnoresEmptyURL(t *testing.T) {
	p := Product{Images: map[Color]string{ColorWhite: ""}}
	assert.False(t, p.HasColor(ColorWhite))
	assert.Empty(t, p.AvailableColors())
}

func TestColorPolicy_DefaultColor(t *testing.T) {
	roseOnly := Product{Images: map[Color]string{ColorRose: "https://cdn.example.com/r.jpg"}}
	whiteRose := Product{Images: map[Color]string{ColorWhite: "w", ColorRose: "r"}}
	none := Product{}

	assert.Equal(t, ColorYellow, PolicyYellow.DefaultColor(roseOnly))
	assert.Equal(t, ColorRose, PolicyPreferred.DefaultColor(roseOnly))
	assert.Equal(t, ColorWhite, PolicyPreferred.DefaultColor(whiteRose))
	assert.Equal(t, ColorYellow, PolicyPreferred.DefaultColor(none))
}

func TestParseColorPolicy(t *testing.T) {
	p, err := ParseColorPolicy("preferred")
	require.NoError(t, err)
	assert.Equal(t, PolicyPreferred, p)

	_, err = ParseColorPolicy("first")
	assert.Error(t, err)
}

func TestNewViewProducts(t *testing.T) {
	products := []Product{
		{Name: "A", Images: map[Color]string{ColorWhite: "w"}},
		{Name: "B", Images: map[Color]string{ColorYellow: "y"}},
	}

	out := NewViewProducts(products, PolicyYellow)
	require.Len(t, out, 2)
	assert.Equal(t, ColorYellow, out[0].SelectedColor)
	assert.Empty(t, out[0].ImageURL())
	assert.Equal(t, "y", out[1].ImageURL())
}

func TestViewProduct_JSONIsFlat(t *testing.T) {
	v := ViewProduct{Product: Product{Name: "A"}, SelectedColor: ColorRose}
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "A", raw["name"])
	assert.Equal(t, "rose", raw["selectedColor"])
}
