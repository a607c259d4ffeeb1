package attachment

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotRenderable is returned for files that are neither images nor DICOM.
var ErrNotRenderable = errors.New("file cannot be rendered")

// ThumbnailWidth is the width of rendered previews in pixels.
const ThumbnailWidth = 640

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsRenderable reports whether the file at path can be turned into a thumbnail.
func IsRenderable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if imageExts[ext] || ext == ".dcm" || ext == ".dicom" {
		return true
	}
	return ext == "" && hasDICOMPreamble(path)
}

// hasDICOMPreamble checks for the "DICM" magic after the 128 byte preamble.
func hasDICOMPreamble(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 132)
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return string(buf[128:]) == "DICM"
}

// Render decodes the file at path into a captioned thumbnail.
func Render(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return renderImage(path)
	case ext == ".dcm" || ext == ".dicom" || (ext == "" && hasDICOMPreamble(path)):
		return renderDICOM(path)
	default:
		return nil, ErrNotRenderable
	}
}

func renderImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	b := img.Bounds()
	caption := fmt.Sprintf("%s  %s %dx%d", filepath.Base(path), strings.ToUpper(format), b.Dx(), b.Dy())
	return thumbnail(img, caption, ThumbnailWidth), nil
}

func renderDICOM(path string) (image.Image, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse DICOM %s: %w", filepath.Base(path), err)
	}

	pixelElem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("DICOM %s has no pixel data: %w", filepath.Base(path), err)
	}
	info := dicom.MustGetPixelDataInfo(pixelElem.Value)
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("DICOM %s has no frames", filepath.Base(path))
	}
	frameImg, err := info.Frames[0].GetImage()
	if err != nil {
		return nil, fmt.Errorf("DICOM %s frame: %w", filepath.Base(path), err)
	}

	parts := []string{
		firstString(&ds, tag.Modality),
		firstString(&ds, tag.PatientName),
		firstString(&ds, tag.StudyDate),
	}
	var caption []string
	for _, p := range parts {
		if p != "" {
			caption = append(caption, p)
		}
	}
	if len(caption) == 0 {
		caption = append(caption, filepath.Base(path))
	}
	return thumbnail(stretchGray(frameImg), strings.Join(caption, "  "), ThumbnailWidth), nil
}

func firstString(ds *dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	values, ok := elem.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// stretchGray maps the used intensity range of a frame onto 8 bits. Stored values of
// 12-bit modalities would otherwise render nearly black.
func stretchGray(src image.Image) image.Image {
	b := src.Bounds()
	lo, hi := uint32(0xffff), uint32(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y
			lo = min(lo, uint32(v))
			hi = max(hi, uint32(v))
		}
	}
	if hi <= lo {
		return src
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	span := hi - lo
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := uint32(color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y)
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: uint8((v - lo) * 255 / span)})
		}
	}
	return out
}

// thumbnail scales img to width and adds a caption band underneath.
func thumbnail(img image.Image, caption string, width int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, 1))
	}
	if b.Dx() < width {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx()
	if height == 0 {
		height = 1
	}

	face := basicfont.Face7x13
	band := face.Metrics().Height.Ceil() + 8

	out := image.NewRGBA(image.Rect(0, 0, width, height+band))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{20, 20, 20, 255}), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(out, image.Rect(0, 0, width, height), img, b, draw.Over, nil)

	// Truncate the caption to what fits the band.
	runes := []rune(caption)
	for len(runes) > 0 && font.MeasureString(face, string(runes)).Ceil() > width-8 {
		runes = runes[:len(runes)-1]
	}
	drawer := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(height + band - 6)},
	}
	drawer.DrawString(string(runes))
	return out
}

// WritePNG renders the file at src into a PNG thumbnail at dst.
func WritePNG(dst, src string) error {
	img, err := Render(src)
	if err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
