package layer

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestExportLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	l := New("test", 8, 6)
	l.Image.SetRGBA(3, 2, color.RGBA{200, 50, 25, 255})

	if err := Export(l.Image, path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Width() != 8 || loaded.Height() != 6 {
		t.Errorf("size = %dx%d, want 8x6", loaded.Width(), loaded.Height())
	}
	got := loaded.Image.RGBAAt(3, 2)
	if got.R != 200 || got.G != 50 || got.B != 25 {
		t.Errorf("pixel = %+v", got)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	l := New("test", 2, 2)
	if err := Export(l.Image, filepath.Join(t.TempDir(), "out.bmp")); err == nil {
		t.Error("exporting an unsupported format should fail")
	}
}

func TestIsSupportedFormat(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"a.jpeg", true},
		{"a.tif", true},
		{"a.gif", false},
		{"a", false},
	}
	for _, tc := range cases {
		if got := IsSupportedFormat(tc.path); got != tc.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
