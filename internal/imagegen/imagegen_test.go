package imagegen

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePhotoSet_ProducesDecodableJPEGs(t *testing.T) {
	dir := t.TempDir()

	paths, err := WritePhotoSet(dir, 3)
	if err != nil {
		t.Fatalf("WritePhotoSet: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("open %s: %v", p, err)
		}
		cfg, err := jpeg.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if cfg.Width != photoWidth || cfg.Height != photoHeight {
			t.Fatalf("%s is %dx%d, want %dx%d", p, cfg.Width, cfg.Height, photoWidth, photoHeight)
		}
	}
}

func TestWritePhotoSet_PhotosAreDistinct(t *testing.T) {
	dir := t.TempDir()

	paths, err := WritePhotoSet(dir, 2)
	if err != nil {
		t.Fatalf("WritePhotoSet: %v", err)
	}
	a, _ := os.ReadFile(paths[0])
	b, _ := os.ReadFile(paths[1])
	if string(a) == string(b) {
		t.Fatal("generated photos are byte-identical")
	}
}

func TestWriteLargePhoto_ClearsSizeFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("large photo generation is slow")
	}
	path := filepath.Join(t.TempDir(), "huge.jpg")
	const minBytes = 6 * 1024 * 1024

	if err := WriteLargePhoto(path, minBytes); err != nil {
		t.Fatalf("WriteLargePhoto: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() < minBytes {
		t.Fatalf("photo is %d bytes, want at least %d", info.Size(), minBytes)
	}
}

func TestWriteInvalidFile_IsNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")

	if err := WriteInvalidFile(path); err != nil {
		t.Fatalf("WriteInvalidFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := jpeg.DecodeConfig(f); err == nil {
		t.Fatal("fixture unexpectedly decodes as JPEG")
	}
}
