package utils

import (
	"context"
	"fmt"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/princinho/callboard/config"
)

// ImageStorage is the external image host. Upload returns the public URL of
// the stored object; Delete takes URLs previously returned by Upload.
type ImageStorage interface {
	Upload(ctx context.Context, folder string, fileHeader *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, urls []string) error
}

func NewImageStorage(ctx context.Context, cfg config.UploadConfig) (ImageStorage, error) {
	switch cfg.Provider {
	case config.StorageGCS:
		return NewGCSStorage(ctx, cfg.GCS)
	case config.StorageR2:
		return NewR2Storage(ctx, cfg.R2)
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
}

// UploadImages stores every file under folder. If one upload fails the files
// already stored are deleted again.
func UploadImages(ctx context.Context, s ImageStorage, folder string, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.Upload(ctx, folder, fh)
		if err != nil {
			if len(urls) > 0 {
				if delErr := s.Delete(ctx, urls); delErr != nil {
					log.Printf("cleanup of %d uploaded images failed: %v", len(urls), delErr)
				}
			}
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func objectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "misc"
	}
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
