package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Testing 123", "testing-123"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Special@#Characters!", "specialcharacters"},
		{"---Dashes---", "dashes"},
		{"  Save 40% on your  daily commute ", "save-40-on-your-daily-commute"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"snake_case stays", "snake_case-stays"},
		{"Pool - Ride - Repeat", "pool-ride-repeat"},
		{"Aadhaar KYC: verified riders", "aadhaar-kyc-verified-riders"},
		{"सुरक्षित यात्रा", ""},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlugIsIdempotentAndURLSafe(t *testing.T) {
	inputs := []string{
		"Hello World",
		"  --Why  cab pooling?--  ",
		"Émigré café – déjà vu",
		"a_b c-d\te",
		"100% SAFE!!! rides @ night",
		"- - -",
		"x",
	}

	for _, input := range inputs {
		once := GenerateSlug(input)
		assert.Equal(t, once, GenerateSlug(once), "slug of %q should be stable", input)
		if once != "" {
			assert.True(t, IsValidSlug(once), "slug %q of %q should be URL safe", once, input)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("how-it-works"))
	assert.True(t, IsValidSlug("faq_2024"))
	assert.False(t, IsValidSlug("Has Caps"))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("double--dash"))
	assert.False(t, IsValidSlug(""))
}
