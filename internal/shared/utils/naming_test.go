package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"primaryButton", []string{"primary", "Button"}},
		{"primary-button", []string{"primary", "button"}},
		{"PRIMARY_BUTTON", []string{"PRIMARY", "BUTTON"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"button2Go", []string{"button2", "Go"}},
		{"  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestCaseConversions(t *testing.T) {
	assert.Equal(t, "PrimaryButton", Pascal("primary-button"))
	assert.Equal(t, "HttpServer", Pascal("HTTPServer"))
	assert.Equal(t, "primaryButton", Camel("Primary Button"))
	assert.Equal(t, "primary_button", Snake("primaryButton"))
	assert.Equal(t, "primary-button", Kebab("Primary_Button"))
	assert.Equal(t, "Hello World", Title("hello world"))
	assert.Equal(t, "BUY NOW", Upper("buy now"))
	assert.Equal(t, "buy now", Lower("BUY NOW"))
	assert.Equal(t, "", Camel(""))
}
