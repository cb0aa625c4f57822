package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/unet360/unet360/backend/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DownloadLinkTTL is how long a presigned image link stays valid.
const DownloadLinkTTL = 15 * time.Minute

type Config struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
}

func ConfigFromEnv() Config {
	return Config{
		Region:         util.GetEnv("AWS_REGION"),
		Endpoint:       util.GetEnv("AWS_ENDPOINT"),
		PublicEndpoint: util.GetEnv("AWS_PUBLIC_ENDPOINT"),
		AccessKey:      util.GetEnv("AWS_ACCESS_KEY"),
		SecretKey:      util.GetEnv("AWS_SECRET_KEY"),
		Bucket:         util.GetEnv("AWS_BUCKET"),
	}
}

// Enabled reports whether enough is configured to talk to a bucket.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.Endpoint != ""
}

func NewS3Client(ctx context.Context, c Config) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(c.Region),
		config.WithBaseEndpoint(c.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// ImageStore keeps panorama images in a single bucket.
type ImageStore struct {
	client         *s3.Client
	bucket         string
	publicEndpoint string
}

func NewImageStore(client *s3.Client, c Config) *ImageStore {
	return &ImageStore{
		client:         client,
		bucket:         c.Bucket,
		publicEndpoint: c.PublicEndpoint,
	}
}

// ImageKey builds the object key <owner>/<id>.<ext> for an uploaded file.
// The extension is taken from filename and lower-cased.
func ImageKey(owner, id, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return fmt.Sprintf("%s/%s", owner, id)
	}
	return fmt.Sprintf("%s/%s.%s", owner, id, ext)
}

// ContentTypeFor returns declared when it is set, otherwise the type guessed
// from the key extension.
func ContentTypeFor(key, declared string) string {
	if declared != "" {
		return declared
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// PutImage uploads body under key and returns the key.
func (s *ImageStore) PutImage(ctx context.Context, key string, contentType string, body io.ReadSeeker) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(ContentTypeFor(key, contentType)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return key, nil
}

func (s *ImageStore) DeleteImage(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// DownloadLink presigns a GET for key against the public endpoint so the
// signature matches the Host header browsers will send.
func (s *ImageStore) DownloadLink(ctx context.Context, key string) (string, error) {
	base, prefix, err := splitPublicEndpoint(s.publicEndpoint)
	if err != nil {
		return "", err
	}

	opts := s.client.Options()
	presignClient := s3.NewFromConfig(
		aws.Config{
			Region:      opts.Region,
			Credentials: opts.Credentials,
			HTTPClient:  opts.HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(base)
			o.UsePathStyle = true
		},
	)

	out, err := s3.NewPresignClient(presignClient).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(DownloadLinkTTL),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	return withPathPrefix(out.URL, prefix)
}

// splitPublicEndpoint separates scheme and host from an optional path
// prefix, as used behind reverse proxies.
func splitPublicEndpoint(endpoint string) (base string, prefix string, err error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", endpoint)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), strings.TrimSuffix(u.Path, "/"), nil
}

func withPathPrefix(rawURL, prefix string) (string, error) {
	if prefix == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse presigned url: %w", err)
	}
	u.Path = prefix + u.Path
	return u.String(), nil
}
