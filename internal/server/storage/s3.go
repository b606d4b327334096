// Package storage wraps the S3 client used for contact-form attachments.
// The store is constructed once at startup from an explicit Config and
// passed by reference into the handlers; nothing in here reads globals.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/CHJCOCO/ryuin/internal/upload"
)

// DefaultKeyPrefix is the fixed folder contact attachments are stored under.
const DefaultKeyPrefix = "contact-files"

// fallbackContentType is stored when the browser supplied no MIME type.
const fallbackContentType = "application/octet-stream"

// seams for tests, mirroring how the AWS SDK entry points are stubbed
// elsewhere in the tree.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in, optFns...)
	}
)

// Config holds the object-storage settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// BaseEndpoint overrides the AWS endpoint for S3-compatible backends
	// such as MinIO. Empty means real AWS.
	BaseEndpoint string
	// PublicBaseURL overrides the public URL prefix of stored objects.
	// Empty means the virtual-hosted AWS form.
	PublicBaseURL string
	KeyPrefix     string
	PresignExpiry time.Duration
}

// Missing returns the names of required settings that are absent. A
// non-empty result is a configuration error, not a user error.
func (c Config) Missing() []string {
	var m []string
	if c.AccessKeyID == "" {
		m = append(m, "S3_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		m = append(m, "S3_SECRET_ACCESS_KEY")
	}
	if c.Bucket == "" {
		m = append(m, "S3_BUCKET")
	}
	return m
}

// ObjectInfo is the stored-object metadata returned by Stat.
type ObjectInfo struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Store talks to one bucket with one fixed credential.
type Store struct {
	cfg     Config
	client  *s3.Client
	presign *s3.PresignClient
}

// New builds the S3 client once from cfg. It returns
// upload.ErrConfigIncomplete when required settings are missing so the
// caller can log which ones.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if len(cfg.Missing()) > 0 {
		return nil, fmt.Errorf("%w: %s", upload.ErrConfigIncomplete, strings.Join(cfg.Missing(), ", "))
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 5 * time.Minute
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &Store{cfg: cfg, client: client, presign: newS3PresignClient(client)}, nil
}

// NewKey returns a fresh object key for one attempt of the named file.
func (s *Store) NewKey(fileName string) string {
	return NewKey(s.cfg.KeyPrefix, fileName)
}

// PresignExpiry is the validity window of issued write credentials.
func (s *Store) PresignExpiry() time.Duration { return s.cfg.PresignExpiry }

// PublicURL is where the object under key can be fetched after upload.
func (s *Store) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// objectMetadata is the full metadata set attached to every stored object.
// The original name is carried twice, base64 and URL-encoded, because raw
// non-ASCII values do not survive the header transport.
func objectMetadata(fileName string, size int64) map[string]string {
	return map[string]string{
		"original-name":      base64.StdEncoding.EncodeToString([]byte(fileName)),
		"original-name-utf8": url.QueryEscape(fileName),
		"safe-filename":      base64.StdEncoding.EncodeToString([]byte(SanitizeName(fileName))),
		"upload-timestamp":   nowFunc().UTC().Format(time.RFC3339),
		"file-size":          strconv.FormatInt(size, 10),
	}
}

func contentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(fileName))
}

// Put writes the raw bytes of f under key with the full metadata set in a
// single PutObject call, so either the object exists with all its metadata
// or nothing was uploaded.
func (s *Store) Put(ctx context.Context, f upload.CandidateFile, key string) error {
	contentType := f.MIMEType
	if contentType == "" {
		contentType = fallbackContentType
	}

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(f.Data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(contentDisposition(f.Name)),
		Metadata:           objectMetadata(f.Name, f.Size),
	})
	if err != nil {
		return Classify(err)
	}
	return nil
}

// PresignPut issues a write credential scoped to exactly key and
// contentType, valid for the configured window. The credential is
// single-use by convention: callers must request a fresh one per attempt.
func (s *Store) PresignPut(ctx context.Context, key, contentType, fileName string, size int64) (string, error) {
	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(key),
		ContentType:        aws.String(contentType),
		ContentLength:      aws.Int64(size),
		ContentDisposition: aws.String(contentDisposition(fileName)),
		Metadata:           objectMetadata(fileName, size),
	}, s3.WithPresignExpires(s.cfg.PresignExpiry))
	if err != nil {
		return "", Classify(err)
	}
	return req.URL, nil
}

// Stat fetches the stored object's metadata.
func (s *Store) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := headObject(s.client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectInfo{}, Classify(err)
	}

	info := ObjectInfo{Metadata: out.Metadata}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		info.ContentType = *out.ContentType
	}
	return info, nil
}
