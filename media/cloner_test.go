package media

import (
	"context"
	"strings"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", ".png"},
		{"image/png; charset=binary", ".png"},
		{"application/octet-stream", ".bin"},
		{"not a mime type at all //", ".bin"},
		{"", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got := extensionFor(tt.contentType)
			// some platforms register several extensions per type; the
			// fallback cases must be exact, real types just need a dot
			if tt.want == ".bin" {
				if got != ".bin" {
					t.Errorf("extensionFor(%q) = %q, want .bin", tt.contentType, got)
				}
				return
			}
			if !strings.HasPrefix(got, ".") {
				t.Errorf("extensionFor(%q) = %q, want an extension", tt.contentType, got)
			}
		})
	}
}

func TestFolders(t *testing.T) {
	if got := PageFolder("acme"); got != "pages/acme" {
		t.Errorf("PageFolder() = %q", got)
	}
	if got := PostFolder("acme", "urn:li:share:1"); got != "pages/acme/posts/urn:li:share:1" {
		t.Errorf("PostFolder() = %q", got)
	}
}

func TestNopCloner(t *testing.T) {
	if got := (NopCloner{}).Clone(context.Background(), "https://cdn/x.png", "pages/acme"); got != "" {
		t.Errorf("NopCloner.Clone() = %q, want empty", got)
	}
}
