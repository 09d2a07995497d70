package ai

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// jpegQuality is the compression quality used for attached images.
const jpegQuality = 50

// JPEGMediaType is the media type of every image sent to a provider.
const JPEGMediaType = "image/jpeg"

// EncodeImageJPEG decodes raw (JPEG, PNG or GIF) and re-encodes it as a JPEG
// at quality 50, returning the base64 (standard encoding) text.
func EncodeImageJPEG(raw []byte) (string, error) {
	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageEncoding, err)
	}

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, decoded, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageEncoding, err)
	}
	return base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

// ImageDataURL wraps an encoded JPEG as a data URL.
func ImageDataURL(encoded string) string {
	return "data:" + JPEGMediaType + ";base64," + encoded
}
