package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
)

// Source records where an image came from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceCamera Source = "camera"
)

// CapturedImage is a decoded image together with the bytes it came from.
type CapturedImage struct {
	Image    image.Image
	Data     []byte
	Format   string // "jpeg", "png", "gif"
	MIME     string
	Width    int
	Height   int
	Source   Source
	Metadata map[string]string // EXIF tags, may be empty
}

// Pixels is the number of pixels in the decoded image.
func (c *CapturedImage) Pixels() int {
	return c.Width * c.Height
}

// Decode decodes raw image bytes. It fails with ErrImageDecode when the bytes
// are not a supported image or the image is empty.
func Decode(data []byte, source Source) (*CapturedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, ErrEmptyImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrImageDecode)
	}

	return &CapturedImage{
		Image:    img,
		Data:     data,
		Format:   format,
		MIME:     http.DetectContentType(data),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Source:   source,
		Metadata: ExtractMetadata(data),
	}, nil
}

// FromReader reads at most limit bytes from r and decodes them. A limit of
// zero or less disables the check.
func FromReader(r io.Reader, limit int64, source Source) (*CapturedImage, error) {
	var (
		data []byte
		err  error
	)
	if limit > 0 {
		data, err = io.ReadAll(io.LimitReader(r, limit+1))
		if err == nil && int64(len(data)) > limit {
			return nil, ErrTooLarge
		}
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if len(data) > 0 && !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, ErrNotImage
	}

	return Decode(data, source)
}

// FromDataURL decodes a base64 payload, optionally wrapped as a data URL
// ("data:image/png;base64,...") the way browsers hand out canvas snapshots.
func FromDataURL(s string, source Source) (*CapturedImage, error) {
	data, hintMIME, err := decodeBase64MaybeDataURL(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if hintMIME != "" && !strings.HasPrefix(hintMIME, "image/") {
		return nil, ErrNotImage
	}
	return Decode(data, source)
}

func decodeBase64MaybeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var hintMIME string
	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx > 0 {
			meta := s[len("data:"):idx]
			if semi := strings.IndexByte(meta, ';'); semi >= 0 {
				hintMIME = meta[:semi]
			} else {
				hintMIME = meta
			}
			s = s[idx+1:]
		}
	}
	if s == "" {
		return nil, "", ErrEmptyImage
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, hintMIME, nil
	}
	if b, err2 := base64.URLEncoding.DecodeString(s); err2 == nil {
		return b, hintMIME, nil
	}
	return nil, "", err
}
