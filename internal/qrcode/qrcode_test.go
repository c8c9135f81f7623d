package qrcode

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestProductURL(t *testing.T) {
	g := NewGenerator("http://localhost:8080/", 0)

	if got := g.ProductURL(42); got != "http://localhost:8080/api/products/42" {
		t.Errorf("expected product url, got %s", got)
	}
	if g.size != defaultSize {
		t.Errorf("expected default size %d, got %d", defaultSize, g.size)
	}
}

func TestProductCode(t *testing.T) {
	g := NewGenerator("https://shop.example.com", 128)

	url, uri, err := g.ProductCode(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://shop.example.com/api/products/7" {
		t.Errorf("unexpected url %s", url)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("expected png data uri, got %.40s", uri)
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("data uri is not base64: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("expected PNG signature")
	}
}
