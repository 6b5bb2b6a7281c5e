package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrNotAnImage = errors.New("Only image files are allowed")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ImageValidator struct {
	maxSize int64
}

func NewImageValidator(maxSizeMB int) *ImageValidator {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &ImageValidator{maxSize: int64(maxSizeMB) << 20}
}

// ValidateFile checks the size, extension and sniffed content type of an
// upload and returns the detected MIME type. Non-image files yield
// ErrNotAnImage.
func (v *ImageValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("File too large (max %d MB)", v.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !imageExtensions[ext] {
		return "", ErrNotAnImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil || n == 0 {
		return "", ErrNotAnImage
	}

	detected := strings.ToLower(http.DetectContentType(buffer[:n]))
	if !imageMimeTypes[detected] {
		return "", ErrNotAnImage
	}
	return detected, nil
}
