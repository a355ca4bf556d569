package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"

	"github.com/abhisek/atelier/internal/llm"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 10 << 20

// MaxImagesPerSide caps the past and future image sets.
const MaxImagesPerSide = 3

var (
	ErrUnsupportedImage = errors.New("only JPEG and PNG images are supported")
	ErrImageTooLarge    = fmt.Errorf("image exceeds %d MiB", MaxImageBytes>>20)
	ErrTooManyImages    = fmt.Errorf("at most %d images per side", MaxImagesPerSide)
	ErrMissingImages    = errors.New("at least one current and one ideal image is required")
)

// Image is a validated upload.
type Image struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// LLM converts the image to a provider message part.
func (img Image) LLM() llm.Image {
	return llm.Image{MIMEType: img.MIMEType, Data: img.Data}
}

// LoadImage reads and validates an image file.
func LoadImage(path string) (Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, err
	}
	if info.Size() > MaxImageBytes {
		return Image{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrImageTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return DecodeImage(filepath.Base(path), data)
}

// DecodeImage sniffs the content type of data, accepts JPEG and PNG only
// and checks that the header decodes.
func DecodeImage(name string, data []byte) (Image, error) {
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("%s: %w", name, ErrImageTooLarge)
	}

	mime := http.DetectContentType(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return Image{}, fmt.Errorf("%s (%s): %w", name, mime, ErrUnsupportedImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%s: decode %s: %w", name, mime, err)
	}
	if "image/"+format != mime {
		return Image{}, fmt.Errorf("%s: content is %s but decodes as %s: %w", name, mime, format, ErrUnsupportedImage)
	}

	return Image{
		Name:     name,
		MIMEType: mime,
		Data:     data,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// LoadImages loads every path, stopping at the first error.
func LoadImages(paths []string) ([]Image, error) {
	if len(paths) > MaxImagesPerSide {
		return nil, ErrTooManyImages
	}
	out := make([]Image, 0, len(paths))
	for _, p := range paths {
		img, err := LoadImage(p)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// CheckCounts validates the size of both image sets.
func CheckCounts(past, future []Image) error {
	if len(past) > MaxImagesPerSide || len(future) > MaxImagesPerSide {
		return ErrTooManyImages
	}
	if len(past) == 0 || len(future) == 0 {
		return ErrMissingImages
	}
	return nil
}
