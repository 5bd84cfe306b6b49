package sheets

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
)

// BadgeQR encodes content as a square QR image of size pixels.
func BadgeQR(content string, size int) (image.Image, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR for %q: %w", content, err)
	}
	code.DisableBorder = true
	return code.Image(size), nil
}
