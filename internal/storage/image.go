package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
)

const MaxImageSize int64 = 5 << 20 // 5 Megabyte

var imageTypes = map[string]string{
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Image is what validation learned about an upload.
type Image struct {
	Extension   string
	ContentType string
}

type imageValFn func(fh *multipart.FileHeader, img *Image) error

// ValidateImage checks extension, sniffed content type, their agreement and
// the size limit. Failures are validation errors on the "image" field.
func ValidateImage(fh *multipart.FileHeader) (*Image, error) {
	img := &Image{}
	for _, fn := range []imageValFn{extensionValid, contentTypeValid, contentTypeExtensionMatch, belowMaxSize} {
		if err := fn(fh, img); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// ImagePath is a unique storage path for a post image with the given extension.
func ImagePath(ext string) string {
	return "posts/" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
}

func invalidImage(format string, args ...interface{}) error {
	return apperrors.Invalid(map[string]string{"image": fmt.Sprintf(format, args...)})
}

func extensionValid(fh *multipart.FileHeader, img *Image) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := imageTypes[ext]; !ok {
		return invalidImage("Image %s has an invalid extension, must be .gif, .jpeg or .png.", fh.Filename)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	img.Extension = ext
	return nil
}

func contentTypeValid(fh *multipart.FileHeader, img *Image) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}
	contentType := http.DetectContentType(buffer[:n])
	switch contentType {
	case "image/gif", "image/jpeg", "image/png":
	default:
		return invalidImage("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	img.ContentType = contentType
	return nil
}

func contentTypeExtensionMatch(fh *multipart.FileHeader, img *Image) error {
	if imageTypes[img.Extension] != img.ContentType {
		return invalidImage("Image %s content-type %s does not match extension %s.", fh.Filename, img.ContentType, img.Extension)
	}
	return nil
}

func belowMaxSize(fh *multipart.FileHeader, _ *Image) error {
	if fh.Size > MaxImageSize {
		return invalidImage("Image %s exceeds upload size limit of %dMB.", fh.Filename, MaxImageSize>>20)
	}
	return nil
}
