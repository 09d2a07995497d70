package ai

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buffer.Bytes()
}

func TestEncodeImageJPEG_ProducesJPEG(t *testing.T) {
	encoded, err := EncodeImageJPEG(testPNG(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("output is not standard base64: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 8 {
		t.Errorf("unexpected dimensions %v", decoded.Bounds())
	}
}

func TestEncodeImageJPEG_RejectsGarbage(t *testing.T) {
	_, err := EncodeImageJPEG([]byte("not an image"))
	if !errors.Is(err, ErrImageEncoding) {
		t.Fatalf("expected ErrImageEncoding, got %v", err)
	}
}

func TestImageDataURL(t *testing.T) {
	url := ImageDataURL("QUJD")
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") || !strings.HasSuffix(url, "QUJD") {
		t.Errorf("unexpected data URL %q", url)
	}
}
