// Package publish uploads generated feeds to object storage.
package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	ContentTypeRSS  = "application/rss+xml; charset=utf-8"
	ContentTypeAtom = "application/atom+xml; charset=utf-8"
	ContentTypeJSON = "application/feed+json; charset=utf-8"

	cacheControl = "public, max-age=300"
)

// PutObjectAPI is the part of the S3 client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client PutObjectAPI
	bucket string
}

// NewS3 creates a publisher for bucket using the default AWS credential chain.
// An empty region leaves the AWS defaults in place.
func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	var loadOpts []func(*config.LoadOptions) error

	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)

	if err != nil {
		return nil, fmt.Errorf("could not load AWS config: %w", err)
	}

	return NewS3WithClient(s3.NewFromConfig(awsCfg), bucket), nil
}

func NewS3WithClient(client PutObjectAPI, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// Put uploads data under key, replacing any previous object.
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		CacheControl: aws.String(cacheControl),
	}

	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("could not upload s3://%s/%s: %w", s.bucket, key, err)
	}

	return nil
}
