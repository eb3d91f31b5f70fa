// Package imagegen writes throwaway image files for photo upload tests.
// Photos are generated rather than checked in so the suite never depends
// on binary fixtures.
package imagegen

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/hikersvoice/e2e/internal/errs"
)

const (
	photoWidth  = 800
	photoHeight = 600
)

var palette = []color.RGBA{
	{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
	{R: 0x15, G: 0x65, B: 0xc0, A: 0xff},
	{R: 0xc6, G: 0x28, B: 0x28, A: 0xff},
	{R: 0xf9, G: 0xa8, B: 0x25, A: 0xff},
	{R: 0x6a, G: 0x1b, B: 0x9a, A: 0xff},
}

// WritePhotoSet writes n distinct JPEG photos into dir and returns their
// paths. Each photo is a solid color with a horizontal band at a different
// height, so thumbnails are tellable apart in a gallery.
func WritePhotoSet(dir string, n int) ([]string, error) {
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("photo_%02d.jpg", i+1))
		if err := writePhoto(path, palette[i%len(palette)], 50+i*60); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePhoto(path string, base color.RGBA, bandY int) error {
	img := image.NewRGBA(image.Rect(0, 0, photoWidth, photoHeight))
	band := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y := 0; y < photoHeight; y++ {
		c := base
		if y >= bandY && y < bandY+40 {
			c = band
		}
		for x := 0; x < photoWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return encodeJPEG(path, img, 85)
}

// WriteLargePhoto writes a JPEG of at least minBytes to path. Random pixel
// noise defeats JPEG compression, so size scales with dimensions until the
// floor is cleared.
func WriteLargePhoto(path string, minBytes int) error {
	rng := rand.New(rand.NewSource(42))
	side := 1500
	for {
		img := image.NewRGBA(image.Rect(0, 0, side, side))
		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8(rng.Intn(256)),
					G: uint8(rng.Intn(256)),
					B: uint8(rng.Intn(256)),
					A: 0xff,
				})
			}
		}
		if err := encodeJPEG(path, img, 100); err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return errs.Wrap(errs.Internal, "stat generated photo", err)
		}
		if info.Size() >= int64(minBytes) {
			return nil
		}
		side += 1000
	}
}

// WriteInvalidFile writes a file with a .jpg name but non-image contents,
// for exercising upload type validation.
func WriteInvalidFile(path string) error {
	content := []byte("this is not an image, just plain text with a misleading extension\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errs.Wrap(errs.Internal, "write invalid upload fixture", err)
	}
	return nil
}

func encodeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.Internal, "create photo file", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return errs.Wrap(errs.Internal, "encode photo", err)
	}
	return f.Close()
}
