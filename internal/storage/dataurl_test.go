package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestIsInlineImage(t *testing.T) {
	long := "data:image/png;base64," + strings.Repeat("A", 1100)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"long inline image", long, true},
		{"short inline image", "data:image/png;base64,AAAA", false},
		{"exactly at threshold", "data:image" + strings.Repeat("x", 1014), false},
		{"one over threshold", "data:image" + strings.Repeat("x", 1015), true},
		{"long plain text", strings.Repeat("A", 2000), false},
		{"blob key", "img-3f1c", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInlineImage(tt.in, DefaultInlinePrefix, DefaultInlineThreshold); got != tt.want {
				t.Errorf("IsInlineImage(len=%d) = %v, want %v", len(tt.in), got, tt.want)
			}
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantType  string
		wantData  string
		wantError bool
	}{
		{"base64 png", "data:image/png;base64,aGVsbG8=", "image/png", "hello", false},
		{"percent encoded", "data:image/svg+xml,%3Csvg%2F%3E", "image/svg+xml", "<svg/>", false},
		{"default media type", "data:,hi", "text/plain", "hi", false},
		{"not a data url", "https://example.com/a.png", "", "", true},
		{"no comma", "data:image/png;base64", "", "", true},
		{"bad base64", "data:image/png;base64,!!!", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, data, err := DecodeDataURL(tt.in)
			if tt.wantError {
				if !errors.Is(err, ErrInvalidDataURL) {
					t.Fatalf("DecodeDataURL() error = %v, want ErrInvalidDataURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if mediaType != tt.wantType || string(data) != tt.wantData {
				t.Errorf("DecodeDataURL() = (%q, %q), want (%q, %q)", mediaType, data, tt.wantType, tt.wantData)
			}
		})
	}
}
