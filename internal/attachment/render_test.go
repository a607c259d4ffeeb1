package attachment

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

func writeTestDICOM(t *testing.T, path string, width, height int) {
	t.Helper()

	nativeFrame := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nativeFrame.RawData[y*width+x] = uint16(x * 64)
		}
	}

	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.1"}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		mustNewElement(tag.ImplementationClassUID, []string{"1.2.826.0.1.3680043.8.498"}),
		mustNewElement(tag.PatientName, []string{"Kowalski^Jan"}),
		mustNewElement(tag.Modality, []string{"DX"}),
		mustNewElement(tag.StudyDate, []string{"20240517"}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{12}),
		mustNewElement(tag.HighBit, []int{11}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, dicom.PixelDataInfo{
			Frames: []*frame.Frame{
				{
					Encapsulated: false,
					NativeData:   nativeFrame,
				},
			},
		}),
	}}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := dicom.Write(f, ds); err != nil {
		t.Fatalf("write DICOM: %v", err)
	}
}

func TestIsRenderable(t *testing.T) {
	dir := t.TempDir()
	noExt := filepath.Join(dir, "IM000001")
	writeTestDICOM(t, noExt, 8, 8)

	tests := []struct {
		path     string
		expected bool
	}{
		{"zdjecie.JPG", true},
		{"skan.png", true},
		{"rtg.dcm", true},
		{"karta.pdf", false},
		{"notatka.txt", false},
		{noExt, true},
		{filepath.Join(dir, "missing"), false},
	}

	for _, tc := range tests {
		if got := IsRenderable(tc.path); got != tc.expected {
			t.Errorf("IsRenderable(%q) = %v, want %v", tc.path, got, tc.expected)
		}
	}
}

func TestRender_PNGScalesDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duzy.png")
	writeTestPNG(t, path, 1280, 640)

	img, err := Render(path)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != ThumbnailWidth {
		t.Errorf("width = %d, want %d", b.Dx(), ThumbnailWidth)
	}
	if b.Dy() <= 320 {
		t.Errorf("height = %d, want scaled image plus caption band", b.Dy())
	}
}

func TestRender_SmallImageKeepsWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maly.png")
	writeTestPNG(t, path, 100, 50)

	img, err := Render(path)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("width = %d, want 100", img.Bounds().Dx())
	}
}

func TestRender_DICOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtg.dcm")
	writeTestDICOM(t, path, 64, 32)

	img, err := Render(path)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() <= 32 {
		t.Errorf("bounds = %v, want 64 wide with caption band", b)
	}
}

func TestRender_NotRenderable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "karta.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(path); err != ErrNotRenderable {
		t.Errorf("Render(pdf) error = %v, want ErrNotRenderable", err)
	}
}

func TestRender_CorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uszkodzony.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(path); err == nil {
		t.Error("Render(corrupt png) should return error")
	}
}

func TestWritePNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "zdjecie.png")
	dst := filepath.Join(dir, "thumb.png")
	writeTestPNG(t, src, 40, 20)

	if err := WritePNG(dst, src); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("thumbnail is not a PNG: %v", err)
	}
}
