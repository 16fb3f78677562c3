package common

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"shortform/config"
)

// S3Config holds optional overrides; empty values fall back to the standard
// AWS config/credential chain.
type S3Config struct {
	Region  string
	Profile string
	// UsePathStyle forces path-style addressing for S3-compatible providers.
	UsePathStyle bool
}

// ArtifactStore archives job payloads and rendered outputs in an S3 bucket.
type ArtifactStore struct {
	client *s3.Client
	bucket string
}

// NewArtifactStoreFromEnv creates a store from ARTIFACT_BUCKET and the AWS
// env chain; it returns nil when no bucket is configured.
func NewArtifactStoreFromEnv(ctx context.Context) (*ArtifactStore, error) {
	bucket := config.Getenv("ARTIFACT_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}
	return NewArtifactStore(ctx, bucket, S3Config{
		Region:       config.Getenv("AWS_REGION", ""),
		UsePathStyle: config.GetenvBool("S3_PATH_STYLE", false),
	})
}

// NewArtifactStore creates a store for the given bucket.
func NewArtifactStore(ctx context.Context, bucket string, cfg S3Config) (*ArtifactStore, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &ArtifactStore{client: client, bucket: bucket}, nil
}

// PutJSON archives a marshaled payload under key.
func (a *ArtifactStore) PutJSON(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	return err
}

// Put uploads an object under key with the given content type.
func (a *ArtifactStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := a.client.PutObject(ctx, in)
	return err
}

// Get fetches an object body. The caller must close it.
func (a *ArtifactStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Exists reports whether an object is present under key.
func (a *ArtifactStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// Delete removes the object under key.
func (a *ArtifactStore) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	return err
}
