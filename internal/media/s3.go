package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raghavk/vidtube/internal/config"
)

// S3Store stores media in any S3-compatible bucket (AWS or MinIO-style with a
// custom base endpoint).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = cfg.S3BaseEndpoint
	}

	return &S3Store{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Object, error) {
	key := objectKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &Object{
		Key: key,
		URL: fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key),
	}, nil
}

// Delete accepts either a bare key or the public URL returned by Upload.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, fmt.Sprintf("%s/%s/", s.publicURL, s.bucket))
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
