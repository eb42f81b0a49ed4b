package profile

import (
	"fmt"
	"path"
	"strings"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var avatarTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// UploadAvatarInput holds a picked avatar file.
type UploadAvatarInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (i UploadAvatarInput) ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(i.FileName), "."))
}

// Validate checks the file type and size. maxBytes is the upload limit.
func (i UploadAvatarInput) Validate(maxBytes int64) error {
	if len(i.Data) == 0 {
		return domain.NewValidationError("file", "No file provided")
	}

	want, ok := avatarTypes[i.ext()]
	if !ok || (i.ContentType != "" && !strings.EqualFold(normalizeType(i.ContentType), want)) {
		return domain.NewValidationError("file", "Please select a valid image file (JPG, PNG, or GIF)")
	}

	if size := int64(len(i.Data)); size > maxBytes {
		return domain.NewValidationError("file", fmt.Sprintf(
			"File size exceeds %dMB limit. Your file is %.2fMB.",
			maxBytes>>20, float64(size)/1024/1024,
		))
	}
	return nil
}

// normalizeType maps the non-standard image/jpg to image/jpeg and drops parameters.
func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	ct = strings.TrimSpace(ct)
	if strings.EqualFold(ct, "image/jpg") {
		return "image/jpeg"
	}
	return ct
}
