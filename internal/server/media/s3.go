package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/vidstream/internal/server/config"
)

// S3Store uploads media to one bucket of an S3-compatible backend (AWS S3
// or MinIO via BaseEndpoint). The client is built once at startup and
// shared by all requests.
type S3Store struct {
	client       *s3.Client
	bucket       string
	baseEndpoint string
}

func NewS3Store(ctx context.Context, cfg *sc.Config) (*S3Store, error) {

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:       client,
		bucket:       cfg.S3Bucket,
		baseEndpoint: cfg.S3BaseEndpoint,
	}, nil
}

// StorageKey returns a date-partitioned random object key preserving the
// original file extension.
func StorageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}

// ObjectURL joins endpoint, bucket and key into the path-style public URL.
func ObjectURL(endpoint, bucket, key string) string {
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + key
}

func (s *S3Store) Upload(ctx context.Context, localPath string) (string, error) {

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening upload: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := StorageKey(ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading object: %w", err)
	}

	return ObjectURL(s.baseEndpoint, s.bucket, key), nil
}
