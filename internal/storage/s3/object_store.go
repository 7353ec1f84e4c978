// Package s3 keeps uploaded comparison documents in Amazon S3 or any store
// that speaks its API.
package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"doccompare/internal/config"
	"doccompare/internal/port"
)

const (
	// Documents are capped well below this, so uploads stay single part.
	uploadPartSize = 16 * 1024 * 1024
	// Links handed to the browser for previews when no expiry is configured.
	defaultLinkTTL = 15 * time.Minute
)

// ObjectStore implements port.ObjectStorage on top of the AWS SDK.
type ObjectStore struct {
	api        *s3.Client
	links      *s3.PresignClient
	uploader   *manager.Uploader
	downloader *manager.Downloader
}

// New builds an ObjectStore. Static keys are used when both are set,
// otherwise the SDK's default credential chain applies. A custom endpoint
// (MinIO, LocalStack) implies path-style addressing.
func New(ctx context.Context, cfg *config.S3Config) (*ObjectStore, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		static := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(static))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3.New: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
			o.UsePathStyle = true
		}
	})
	return &ObjectStore{
		api:   api,
		links: s3.NewPresignClient(api),
		uploader: manager.NewUploader(api, func(u *manager.Uploader) {
			u.PartSize = uploadPartSize
		}),
		downloader: manager.NewDownloader(api),
	}, nil
}

var _ port.ObjectStorage = (*ObjectStore)(nil)

func (o *ObjectStore) Upload(ctx context.Context, in port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(in.Bucket),
		Key:         aws.String(in.Key),
		Body:        in.Body,
		ContentType: aws.String(in.ContentType),
	}
	if in.Size > 0 {
		put.ContentLength = aws.Int64(in.Size)
	}
	res, err := o.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3.Upload %s/%s: %w", in.Bucket, in.Key, err)
	}
	return &port.UploadOutput{Location: res.Location, ETag: aws.ToString(res.ETag)}, nil
}

// Download reads the whole object. Large objects are fetched in ranged parts.
func (o *ObjectStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	if _, err := o.downloader.Download(ctx, buf, objectRef(bucket, key)); err != nil {
		return nil, fmt.Errorf("s3.Download %s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}

func (o *ObjectStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := o.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("s3.Delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// GetPresignedURL returns a time-limited GET link for the object.
func (o *ObjectStore) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	ttl := time.Duration(expirySeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	link, err := o.links.PresignGetObject(ctx, objectRef(bucket, key), s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3.GetPresignedURL %s/%s: %w", bucket, key, err)
	}
	return link.URL, nil
}

func objectRef(bucket, key string) *s3.GetObjectInput {
	return &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}
}
