// Package uploads turns raw image data into hosted URLs. The rest of
// the system stores only the returned reference, never image bytes.
package uploads

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader accepts an image as a base64 data URI (or remote URL) and
// returns a stable hosted URL.
type Uploader interface {
	Upload(ctx context.Context, image, folder string) (string, error)
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds an uploader from the CLOUDINARY_URL environment
// variable.
func NewCloudinary() (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (u *Cloudinary) Upload(ctx context.Context, image, folder string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder:         folder,
		Transformation: "c_limit,w_1280,h_1280,q_auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return res.SecureURL, nil
}
