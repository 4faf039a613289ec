// Package media clones remote media assets into durable storage. Cloning is
// always best-effort: a clone that fails for any reason yields an empty URL
// and the caller keeps serving the original.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cloner copies the asset at sourceURL under the given storage folder and
// returns the durable URL, or "" when the clone did not happen.
type Cloner interface {
	Clone(ctx context.Context, sourceURL, folder string) string
}

// PageFolder is the storage prefix for a page's avatar.
func PageFolder(pageID string) string {
	return "pages/" + pageID
}

// PostFolder is the storage prefix for a post's media.
func PostFolder(pageID, postID string) string {
	return "pages/" + pageID + "/posts/" + postID
}

// NopCloner never clones. Used when storage is not configured.
type NopCloner struct{}

func (NopCloner) Clone(context.Context, string, string) string { return "" }

// S3Config carries the bucket settings for the S3 cloner.
type S3Config struct {
	Bucket string
	Region string
}

// S3Cloner downloads assets over HTTP and uploads them to an S3 bucket,
// serving them back from the bucket's public URL.
type S3Cloner struct {
	cfg  S3Config
	s3   *awss3.Client
	http *http.Client
	log  *zap.Logger
}

// NewS3Cloner resolves AWS credentials from the environment chain and wires
// a cloner for the configured bucket.
func NewS3Cloner(ctx context.Context, cfg S3Config, log *zap.Logger) (*S3Cloner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	return &S3Cloner{
		cfg:  cfg,
		s3:   awss3.NewFromConfig(awsCfg),
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}, nil
}

// Clone downloads sourceURL and uploads it under folder with a fresh name.
// Any failure along the way is logged and reported as "".
func (c *S3Cloner) Clone(ctx context.Context, sourceURL, folder string) string {
	if sourceURL == "" {
		return ""
	}

	body, contentType, ok := c.download(ctx, sourceURL)
	if !ok {
		return ""
	}

	key := folder + "/" + uuid.New().String() + extensionFor(contentType)
	_, err := c.s3.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.log.Warn("media upload failed",
			zap.String("component", "media"),
			zap.String("source", sourceURL),
			zap.Error(err))
		return ""
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.cfg.Bucket, c.cfg.Region, key)
}

func (c *S3Cloner) download(ctx context.Context, sourceURL string) ([]byte, string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		c.log.Warn("media source url invalid",
			zap.String("component", "media"),
			zap.String("source", sourceURL),
			zap.Error(err))
		return nil, "", false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("media download failed",
			zap.String("component", "media"),
			zap.String("source", sourceURL),
			zap.Error(err))
		return nil, "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("media download rejected",
			zap.String("component", "media"),
			zap.String("source", sourceURL),
			zap.Int("status", resp.StatusCode))
		return nil, "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		c.log.Warn("media body unreadable",
			zap.String("component", "media"),
			zap.String("source", sourceURL),
			zap.Error(err))
		return nil, "", false
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return body, contentType, true
}

// extensionFor maps a MIME type to a file extension, defaulting to .bin for
// anything unrecognized.
func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".bin"
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
