// Package publish uploads rendered videos to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3 client. Empty values fall back to the standard
// AWS config and credential chain.
type Options struct {
	Region    string
	Profile   string
	PathStyle bool
}

// Target is a parsed s3://bucket/prefix URL.
type Target struct {
	Bucket string
	Prefix string
}

// ParseURL parses s3://bucket/prefix.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("publish url %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Target{}, fmt.Errorf("publish url %q: expected s3://bucket/prefix", raw)
	}
	return Target{Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
}

// Key returns the object key of a file name under the target prefix.
func (t Target) Key(parts ...string) string {
	return path.Join(append([]string{t.Prefix}, parts...)...)
}

// URL returns the s3:// URL of a key.
func (t Target) URL(key string) string {
	return "s3://" + t.Bucket + "/" + key
}

// Putter is the part of the S3 client the publisher needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads files under one target.
type Publisher struct {
	client Putter
	target Target
}

func New(client Putter, target Target) *Publisher {
	return &Publisher{client: client, target: target}
}

// NewS3 creates a publisher backed by the AWS SDK client.
func NewS3(ctx context.Context, rawURL string, opts Options) (*Publisher, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
	})
	return New(c, target), nil
}

// Upload puts a local file under runDir/<base name> and returns its URL.
func (p *Publisher) Upload(ctx context.Context, runDir, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := p.target.Key(runDir, filepath.Base(file))
	in := &s3.PutObjectInput{
		Bucket:      aws.String(p.target.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
	}
	if _, err := p.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return p.target.URL(key), nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp4":
		return "video/mp4"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
