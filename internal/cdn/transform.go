package cdn

import (
	"strconv"
	"strings"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

// Crop is how an image is fitted into the requested box.
type Crop string

// Supported crop modes.
const (
	CropFill  Crop = "fill"  // cover the box, cropping the overflow
	CropFit   Crop = "fit"   // fit inside the box, keep aspect ratio
	CropLimit Crop = "limit" // like fit, but never upscale
	CropScale Crop = "scale" // stretch to the box
	CropThumb Crop = "thumb" // face-aware thumbnail
	CropPad   Crop = "pad"   // fit and pad the remaining space
)

// Format is the delivered file format.
type Format string

// Supported delivery formats.
const (
	FormatAuto Format = "auto"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// MaxDimension bounds requested widths and heights.
const MaxDimension = 4000

var (
	validCrops     = []Crop{CropFill, CropFit, CropLimit, CropScale, CropThumb, CropPad}
	validFormats   = []Format{FormatAuto, FormatJPG, FormatPNG, FormatWebP, FormatAVIF}
	validQualities = []string{"auto", "auto:best", "auto:good", "auto:eco", "auto:low"}
)

// Transform is a delivery-time image transformation. Zero fields are omitted.
type Transform struct {
	Crop    Crop   `json:"crop,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Quality string `json:"quality,omitempty"`
	Format  Format `json:"format,omitempty"`
}

// Presets are the transformations the storefront uses.
var Presets = map[string]Transform{
	"card":   {Crop: CropFill, Width: 400, Height: 500, Quality: "auto", Format: FormatAuto},
	"thumb":  {Crop: CropThumb, Width: 150, Height: 150, Quality: "auto", Format: FormatAuto},
	"detail": {Crop: CropLimit, Width: 1200, Quality: "auto:good", Format: FormatAuto},
	"zoom":   {Crop: CropLimit, Width: 2000, Quality: "auto:best", Format: FormatAuto},
}

// Preset returns a named transformation.
func Preset(name string) (Transform, bool) {
	t, ok := Presets[name]
	return t, ok
}

// IsZero reports whether t changes nothing.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// Validate checks every set field against the supported values.
func (t Transform) Validate() error {
	problems := map[string]string{}

	if t.Crop != "" && !contains(validCrops, t.Crop) {
		problems["crop"] = "unsupported crop mode"
	}
	if t.Width < 0 || t.Width > MaxDimension {
		problems["width"] = "must be between 1 and " + strconv.Itoa(MaxDimension)
	}
	if t.Height < 0 || t.Height > MaxDimension {
		problems["height"] = "must be between 1 and " + strconv.Itoa(MaxDimension)
	}
	if t.Quality != "" && !validQuality(t.Quality) {
		problems["quality"] = "must be auto, auto:best, auto:good, auto:eco, auto:low or 1-100"
	}
	if t.Format != "" && !contains(validFormats, t.Format) {
		problems["format"] = "unsupported format"
	}

	if len(problems) > 0 {
		return domainerrors.InvalidInputWithDetails("invalid image transformation", problems)
	}
	return nil
}

// String renders the transformation segment, e.g. "c_fill,w_400,h_500,q_auto,f_auto".
func (t Transform) String() string {
	parts := make([]string, 0, 5)
	if t.Crop != "" {
		parts = append(parts, "c_"+string(t.Crop))
	}
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+string(t.Format))
	}
	return strings.Join(parts, ",")
}

// Apply inserts t right after the "/upload/" marker of a delivery URL.
// URLs without the marker are returned unchanged.
func Apply(url string, t Transform) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.IsZero() {
		return url, nil
	}

	idx := strings.Index(url, uploadMarker)
	if idx < 0 {
		return url, nil
	}
	cut := idx + len(uploadMarker)
	return url[:cut] + t.String() + "/" + url[cut:], nil
}

func validQuality(q string) bool {
	if contains(validQualities, q) {
		return true
	}
	n, err := strconv.Atoi(q)
	return err == nil && n >= 1 && n <= 100
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
