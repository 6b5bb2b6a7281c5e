package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/princinho/callboard/config"
)

// R2Storage talks to Cloudflare R2 through its S3-compatible API.
type R2Storage struct {
	s3           *s3.Client
	bucket       string
	publicDomain string
}

func NewR2Storage(ctx context.Context, cfg config.R2Config) (*R2Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	publicDomain := cfg.PublicDomain
	if publicDomain == "" {
		publicDomain = strings.TrimRight(cfg.Endpoint, "/")
	}
	return &R2Storage{s3: client, bucket: cfg.Bucket, publicDomain: publicDomain}, nil
}

func (r *R2Storage) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	name := objectName(folder, fh.Filename)
	_, err = r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(name),
		Body:          f,
		ContentType:   aws.String(contentType(fh)),
		ContentLength: aws.Int64(fh.Size),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return r.publicURL(name), nil
}

func (r *R2Storage) Delete(ctx context.Context, urls []string) error {
	var firstErr error
	for _, raw := range urls {
		obj, err := r.objectNameFromURL(raw)
		if err != nil || obj == "" {
			continue
		}
		_, err = r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

func (r *R2Storage) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicDomain, r.bucket, objectName)
}

func (r *R2Storage) objectNameFromURL(raw string) (string, error) {
	prefix := r.publicDomain + "/" + r.bucket + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", fmt.Errorf("not a recognised R2 public url")
	}
	return strings.TrimPrefix(raw, prefix), nil
}
