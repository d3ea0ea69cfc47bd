package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

func getCloudinaryInstance() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

// UploadCampaignDocument pins a campaign's supporting document and
// returns an opaque reference "<publicID>.<ext>". The ledger stores
// the reference as-is and never interprets the file contents.
func UploadCampaignDocument(file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return "", fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	uploadResp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: "campaign-docs",
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}

	ext := strings.TrimPrefix(path.Ext(fileHeader.Filename), ".")
	if ext == "" {
		ext = uploadResp.Format
	}
	if ext == "" {
		return uploadResp.PublicID, nil
	}
	return fmt.Sprintf("%s.%s", uploadResp.PublicID, strings.ToLower(ext)), nil
}
