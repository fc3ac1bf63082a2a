package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"ann@x.com", true},
		{"first.last@sub.example.org", true},
		{"a@b", false},
		{"a b@c.d", false},
		{"a@b c.d", false},
		{"@b.co", false},
		{"a@.co", false},
		{"a@b.", false},
		{"a@@b.co", false},
		{"a\tb@c.d", false},
		{"a\vb@c.d", false},
		{"a\u00a0b@c.d", false},
		{"a@b\u2003c.d", false},
		{"a@b.c\u0085", false},
		{"a@b.c\u2028", false},
		{"\ufeffa@b.co", false},
		{"a@b\u3000.co", false},
		{"ünï@exämple.de", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Passw0rd!", true},
		{"Abc12345!", true},
		{"NewPass9@", true},
		{"password", false},
		{"PASSWORD1!", false},
		{"password1!", false},
		{"Password!!", false},
		{"Password12", false},
		{"Pa1!", false},
		{"Passw0rd#", false},
		{"Passw0rd! ", false},
		{"Pässw0rd!", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPassword(tt.in))
		})
	}
}
