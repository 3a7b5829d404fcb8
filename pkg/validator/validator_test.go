package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type colorRequest struct {
	Color string `json:"color" validate:"required,oneof=yellow white rose"`
}

type record struct {
	Name       string            `json:"name" validate:"required,max=200"`
	Popularity float64           `json:"popularity_5_scale" validate:"gte=0,lte=5"`
	Images     map[string]string `json:"images" validate:"dive,image_src"`
}

func TestValidate_Success(t *testing.T) {
	r := record{Name: "Ring", Popularity: 4.5, Images: map[string]string{"rose": "https://cdn.example.com/r.jpg"}}
	assert.NoError(t, Validate(r))
}

func TestValidate_MissingRequired_UsesJSONName(t *testing.T) {
	err := Validate(colorRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["color"])
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(colorRequest{Color: "platinum"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["color"], "one of")
	assert.Contains(t, valErr.Fields()["color"], "yellow white rose")
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(record{Name: "Ring", Popularity: 7})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["popularity_5_scale"], "less than or equal to 5")
}

func TestValidate_MapValueURL(t *testing.T) {
	err := Validate(record{Name: "Ring", Images: map[string]string{"white": "not a url"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be an http(s) URL or a relative path", valErr.Fields()["images[white]"])
}

func TestValidate_ImageSource(t *testing.T) {
	tests := []struct {
		src   string
		valid bool
	}{
		{"https://cdn.example.com/r.jpg", true},
		{"http://127.0.0.1:5000/img/r.jpg", true},
		{"/static/a-rose.jpg", true},
		{"images/a-rose.jpg?v=2", true},
		{"//cdn.example.com/r.jpg", true},
		{"", false},
		{"not a url", false},
		{"javascript:alert(1)", false},
		{"https:///r.jpg", false},
		{"ftp://cdn.example.com/r.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := Validate(record{Name: "Ring", Images: map[string]string{"rose": tt.src}})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(record{Popularity: -1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Fields(), 2)
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(colorRequest{})
	require.Error(t, err)
	assert.Equal(t, "field 'color' is required", err.Error())
}

func TestDecodeAndValidate_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"color":"rose"}`))

	var c colorRequest
	require.NoError(t, DecodeAndValidate(req, &c))
	assert.Equal(t, "rose", c.Color)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{invalid"))

	var c colorRequest
	err := DecodeAndValidate(req, &c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_UnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"color":"rose","size":7}`))

	var c colorRequest
	err := DecodeAndValidate(req, &c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"color":"green"}`))

	var c colorRequest
	err := DecodeAndValidate(req, &c)

	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
