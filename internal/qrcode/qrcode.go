package qrcode

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator renders product links as QR codes.
type Generator struct {
	baseURL string
	size    int
}

func NewGenerator(baseURL string, size int) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    size,
	}
}

func (g *Generator) ProductURL(productID int64) string {
	return fmt.Sprintf("%s/api/products/%d", g.baseURL, productID)
}

// ProductCode returns the product URL together with its PNG data URI.
func (g *Generator) ProductCode(productID int64) (url string, dataURI string, err error) {
	url = g.ProductURL(productID)
	dataURI, err = DataURI(url, g.size)
	if err != nil {
		return "", "", err
	}
	return url, dataURI, nil
}

func DataURI(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
