package cdn

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

const sampleURL = "https://res.cloudinary.com/demo/image/upload/v1712345678/products/afc/boca/home.jpg"

func testService(d Destroyer) *Service {
	return NewWithDestroyer(Config{CloudName: "demo"}, d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTransform_String(t *testing.T) {
	tr := Transform{Crop: CropFill, Width: 400, Height: 500, Quality: "auto", Format: FormatWebP}
	assert.Equal(t, "c_fill,w_400,h_500,q_auto,f_webp", tr.String())

	assert.Equal(t, "w_300", Transform{Width: 300}.String())
	assert.Equal(t, "", Transform{}.String())
}

func TestTransform_Validate(t *testing.T) {
	assert.NoError(t, Transform{}.Validate())
	assert.NoError(t, Transform{Quality: "80"}.Validate())
	for name, preset := range Presets {
		assert.NoError(t, preset.Validate(), name)
	}

	bad := Transform{Crop: "melt", Width: -1, Height: MaxDimension + 1, Quality: "101", Format: "bmp"}
	err := bad.Validate()
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	problems := derr.Details.(map[string]string)
	assert.Len(t, problems, 5)
}

func TestApply(t *testing.T) {
	card, ok := Preset("card")
	require.True(t, ok)

	got, err := Apply(sampleURL, card)
	require.NoError(t, err)
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/c_fill,w_400,h_500,q_auto,f_auto/v1712345678/products/afc/boca/home.jpg",
		got)

	// URLs from elsewhere are left alone.
	other := "https://example.com/img/home.jpg"
	got, err = Apply(other, card)
	require.NoError(t, err)
	assert.Equal(t, other, got)

	_, err = Apply(sampleURL, Transform{Format: "gif"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestService_Expand(t *testing.T) {
	s := testService(NoopDestroyer{})

	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/products/afc/boca/home.jpg",
		s.Expand("products/afc/boca/home.jpg"))
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/x.jpg", s.Expand("/x.jpg"))
	assert.Equal(t, sampleURL, s.Expand(sampleURL))
	assert.Equal(t, []string{sampleURL, "https://res.cloudinary.com/demo/image/upload/a"},
		s.ExpandAll([]string{sampleURL, "a"}))
}

func TestNew_RequiresCloudNameOrBaseURL(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(Config{}, log)
	assert.ErrorIs(t, err, ErrNoBaseURL)

	_, err = New(Config{CloudName: "  "}, log)
	assert.ErrorIs(t, err, ErrNoBaseURL)

	s, err := New(Config{BaseURL: "https://img.example.com/upload"}, log)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/upload/root/products/afc/boca/home", s.Expand("root/products/afc/boca/home"))

	s, err = New(Config{CloudName: "demo"}, log)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/home", s.Expand("home"))
}

func TestBaseURL_Override(t *testing.T) {
	assert.Equal(t, "https://img.example.com/upload/", BaseURL(Config{BaseURL: "https://img.example.com/upload"}))
}

func TestPublicID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{sampleURL, "products/afc/boca/home"},
		{"https://res.cloudinary.com/demo/image/upload/c_fill,w_400/v1/products/a.png", "products/a"},
		{"https://res.cloudinary.com/demo/image/upload/products/boca_juniors/a.webp?x=1", "products/boca_juniors/a"},
		{"https://res.cloudinary.com/demo/image/upload/home.jpg", "home"},
		{"https://example.com/home.jpg", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicID(tt.url), tt.url)
	}
}

type fakeDestroyer struct {
	result string
	got    string
}

func (f *fakeDestroyer) Destroy(_ context.Context, publicID string) (string, error) {
	f.got = publicID
	return f.result, nil
}

func TestService_Destroy(t *testing.T) {
	ctx := context.Background()

	d := &fakeDestroyer{result: "ok"}
	id, err := testService(d).Destroy(ctx, sampleURL)
	require.NoError(t, err)
	assert.Equal(t, "products/afc/boca/home", id)
	assert.Equal(t, id, d.got)

	_, err = testService(&fakeDestroyer{result: "not found"}).Destroy(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = testService(d).Destroy(ctx, "  ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = testService(NoopDestroyer{}).Destroy(ctx, "products/a")
	assert.ErrorIs(t, err, domainerrors.ErrUpstream)
}
