package handlers

import "testing"

func TestEtagMatches(t *testing.T) {
	const tag = `"abc"`

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", W/"abc"`, true},
		{`"abcd"`, false},
	}

	for _, tt := range tests {
		if got := etagMatches(tt.header, tag); got != tt.want {
			t.Fatalf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
