package restaurant

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type QRGenerator interface {
	TableQR(slug, table string) ([]byte, error)
}

// TableQRGenerator encodes the customer ordering page of one table as a PNG QR code.
type TableQRGenerator struct {
	BaseURL string
}

func NewTableQRGenerator(baseURL string) TableQRGenerator {
	return TableQRGenerator{BaseURL: baseURL}
}

func (g TableQRGenerator) TableURL(slug, table string) string {
	return fmt.Sprintf("%s/order/%s/%s", g.BaseURL, url.PathEscape(slug), url.PathEscape(table))
}

func (g TableQRGenerator) TableQR(slug, table string) ([]byte, error) {
	png, err := qrcode.Encode(g.TableURL(slug, table), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encoding table qr code: %w", err)
	}
	return png, nil
}
