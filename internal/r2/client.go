package r2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMaxObjectBytes caps downloads when Config.MaxObjectBytes is zero.
const DefaultMaxObjectBytes = 32 << 20

// ErrObjectTooLarge is returned when a stored document exceeds the cap.
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// Config holds Cloudflare R2 settings. Endpoint overrides the account
// endpoint, for S3-compatible stores other than R2.
type Config struct {
	AccountID       string `yaml:"account_id"`
	BucketName      string `yaml:"bucket_name"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	MaxObjectBytes  int64  `yaml:"max_object_bytes"`
}

// Enabled reports whether enough settings are present to build a client.
func (c Config) Enabled() bool {
	return (c.AccountID != "" || c.Endpoint != "") &&
		c.BucketName != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func (c Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// Client stores uploaded documents in an R2 bucket.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	maxBytes   int64
}

// NewClient creates a client from cfg. It returns (nil, nil) when R2 is not
// configured, so document storage is optional.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		logrus.Warn("Cloudflare R2 not configured (CLOUDFLARE_ACCOUNT_ID, R2_BUCKET_NAME, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY). Document storage disabled.")
		return nil, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.endpoint())
		o.UsePathStyle = true
	})

	maxBytes := cfg.MaxObjectBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxObjectBytes
	}

	logrus.Infof("R2 client initialized for bucket '%s'", cfg.BucketName)
	return &Client{
		s3Client:   s3Client,
		bucketName: cfg.BucketName,
		maxBytes:   maxBytes,
	}, nil
}

// Upload stores a document under "documents/<id>/<filename>" and returns
// the object key.
func (c *Client) Upload(ctx context.Context, filename string, content io.ReadSeeker) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("R2 client not initialized, skipping upload")
	}

	key := path.Join("documents", uuid.NewString(), filepath.Base(filename))

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to R2 (key: %s): %w", key, err)
	}

	logrus.WithField("key", key).Info("Stored document in R2")
	return key, nil
}

// Download reads a stored document.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.s3Client == nil {
		return nil, fmt.Errorf("R2 client not initialized")
	}

	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s from R2: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from R2: %w", key, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectTooLarge)
	}
	return data, nil
}
