package cdn

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

// Destroyer deletes an uploaded asset and returns the CDN's result string
// ("ok" or "not found").
type Destroyer interface {
	Destroy(ctx context.Context, publicID string) (string, error)
}

// CloudinaryDestroyer deletes assets through the Cloudinary upload API.
type CloudinaryDestroyer struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryDestroyer creates a destroyer for the given account.
func NewCloudinaryDestroyer(cloudName, apiKey, apiSecret string) (*CloudinaryDestroyer, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, domainerrors.Upstream("configure cdn client", err)
	}
	return &CloudinaryDestroyer{cld: cld}, nil
}

// Destroy implements Destroyer.
func (d *CloudinaryDestroyer) Destroy(ctx context.Context, publicID string) (string, error) {
	res, err := d.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", domainerrors.Upstream("cdn destroy "+publicID, err)
	}
	if res.Error.Message != "" {
		return "", domainerrors.Upstream("cdn destroy "+publicID+": "+res.Error.Message, nil)
	}
	return res.Result, nil
}

// NoopDestroyer is used when no CDN credentials are configured.
type NoopDestroyer struct{}

// Destroy implements Destroyer.
func (NoopDestroyer) Destroy(context.Context, string) (string, error) {
	return "", domainerrors.Upstream("cdn not configured", nil)
}
