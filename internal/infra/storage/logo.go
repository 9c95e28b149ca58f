package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/turnos/internal/httperr"
)

const (
	MaxLogoBytes = 2 << 20
	MaxLogoSide  = 512
	webpQuality  = 85
)

var (
	ErrStorageDisabled = httperr.ErrBusiness("storage_disabled")
	ErrLogoTooLarge    = httperr.ErrBusiness("logo_too_large")
	ErrLogoEmpty       = httperr.ErrBusiness("logo_empty")
	ErrLogoFormat      = httperr.ErrBusiness("logo_invalid_format")
)

// Logo is a validated, ready-to-store logo.
type Logo struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ProcessLogo validates an uploaded logo. Raster images (jpeg, png, webp)
// are downscaled to fit MaxLogoSide and re-encoded as webp; svg is kept
// as is.
func ProcessLogo(data []byte) (*Logo, error) {
	if len(data) == 0 {
		return nil, ErrLogoEmpty
	}
	if len(data) > MaxLogoBytes {
		return nil, ErrLogoTooLarge
	}

	if isSVG(data) {
		return &Logo{Data: data, ContentType: "image/svg+xml", Ext: "svg"}, nil
	}

	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, ErrLogoFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrLogoFormat
	}

	img = fit(img, MaxLogoSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("storage: encode webp: %w", err)
	}

	return &Logo{Data: buf.Bytes(), ContentType: "image/webp", Ext: "webp"}, nil
}

// LogoKey is the object path for a new logo of businessID.
func LogoKey(businessID uint, ext string) string {
	return fmt.Sprintf("logos/%d/%s.%s", businessID, uuid.NewString(), ext)
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<svg")
}

func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	nw, nh := max, max
	if w > h {
		nh = h * max / w
	} else {
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
