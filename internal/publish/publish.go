// Package publish uploads a production build to S3 so it can be served
// from object storage or pulled onto a host running the production server.
package publish

import (
	"context"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/introsite/internal/errors"
)

// ObjectPutter is the subset of the S3 API the publisher needs.
// *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Upload records one published object.
type Upload struct {
	Path        string
	Key         string
	ContentType string
	Size        int64
}

// Publisher uploads every file under a build output directory.
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates a publisher writing to bucket under prefix.
func New(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.With("component", "publish", "bucket", bucket),
	}
}

// Key returns the object key for a path relative to the output directory.
func (p *Publisher) Key(rel string) string {
	rel = filepath.ToSlash(rel)
	if p.prefix == "" {
		return rel
	}
	return path.Join(p.prefix, rel)
}

// Publish uploads every regular file under dir and returns the uploads in
// walk order. The first failure stops the walk.
func (p *Publisher) Publish(ctx context.Context, dir string) ([]Upload, error) {
	if p.bucket == "" {
		return nil, errors.New("E150").
			WithDetail("no bucket given").
			WithSuggestion("Pass --bucket or set PUBLISH_BUCKET")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, errors.New("E150").
			WithDetail("build output " + dir + " not found").
			WithSuggestion("Run 'introsite build' first")
	}

	var uploads []Upload
	err := filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		u, err := p.put(ctx, file, rel)
		if err != nil {
			return err
		}
		uploads = append(uploads, u)
		return nil
	})
	if err != nil {
		return uploads, errors.New("E150").Wrap(err)
	}
	return uploads, nil
}

func (p *Publisher) put(ctx context.Context, file, rel string) (Upload, error) {
	f, err := os.Open(file)
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Upload{}, err
	}

	u := Upload{
		Path:        file,
		Key:         p.Key(rel),
		ContentType: ContentType(rel),
		Size:        info.Size(),
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(u.Key),
		Body:          f,
		ContentLength: aws.Int64(u.Size),
		ContentType:   aws.String(u.ContentType),
		CacheControl:  aws.String(CacheControl(rel)),
	})
	if err != nil {
		return Upload{}, err
	}
	p.logger.Debug("uploaded", "key", u.Key, "size", u.Size, "content_type", u.ContentType)
	return u, nil
}

// ContentType returns the MIME type for name by extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

var fingerprint = regexp.MustCompile(`\.[0-9a-f]{8}\.[A-Za-z0-9]+$`)

// CacheControl returns the Cache-Control header for name. Fingerprinted
// files never change under the same key.
func CacheControl(name string) string {
	if fingerprint.MatchString(filepath.Base(name)) {
		return "public, max-age=31536000, immutable"
	}
	return "no-cache"
}

// NewS3Client builds an S3 client for region using credentials from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN. A
// non-empty endpoint targets an S3-compatible service with path-style
// addressing.
func NewS3Client(region, endpoint string, getenv func(string) string) (*s3.Client, error) {
	if region == "" {
		region = getenv("AWS_REGION")
	}
	if region == "" {
		return nil, errors.New("E150").
			WithDetail("no AWS region").
			WithSuggestion("Pass --region or set AWS_REGION")
	}
	creds := aws.Credentials{
		AccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, errors.New("E150").
			WithDetail("AWS credentials not set").
			WithSuggestion("Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}

	opts := s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts), nil
}
