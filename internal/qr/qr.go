// Package qr renders deposit addresses as QR code data URLs.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize matches the widget size the storefront UI renders at.
const DefaultSize = 200

// DataURL encodes content as a PNG QR code wrapped in a data URL. A
// non-positive size falls back to DefaultSize.
func DataURL(content string, size int) (string, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
