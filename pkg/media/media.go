package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage keeps listing images and returns their public URL.
type Storage interface {
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	// Delete removes the object behind url. URLs the storage does not own are ignored.
	Delete(ctx context.Context, url string) error
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// NewKey builds a unique object key for an uploaded listing image.
func NewKey(propertyId uuid.UUID, filename string, now time.Time) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[fileExt]
	if !ok {
		return "", "", fmt.Errorf("invalid file extension %q", fileExt)
	}
	newFilename := fmt.Sprintf("%s_%d%s", uuid.New().String(), now.Unix(), fileExt)
	return "properties/" + propertyId.String() + "/" + newFilename, contentType, nil
}
