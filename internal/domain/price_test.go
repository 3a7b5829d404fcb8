package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price *float64
		want  string
	}{
		{"whole number", ptr(199), "199.00"},
		{"rounds to cents", ptr(1234.567), "1234.57"},
		{"small", ptr(0.5), "0.50"},
		{"nil", nil, "N/A"},
		{"zero means unpriced", ptr(0), "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "4.5", FormatScore(4.5))
	assert.Equal(t, "4", FormatScore(4))
	assert.Equal(t, "3.2", FormatScore(3.2))
}
