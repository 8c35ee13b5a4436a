package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 is a Store that keeps each slot as an S3 object.
// Useful when the collection snapshot should survive the host.
//
// The client is injected so the application decides how credentials and
// region are resolved:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := kv.NewS3(s3.NewFromConfig(cfg), "my-bucket", "grain/")
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3-backed store. prefix is prepended to every key.
func NewS3(client *s3.Client, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Get implements Store.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv: s3 get %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("kv: s3 read %q: %w", key, err)
	}
	return data, nil
}

// Put implements Store.
func (s *S3) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		return fmt.Errorf("kv: s3 put %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return fmt.Errorf("kv: s3 delete %q: %w", key, err)
	}
	return nil
}
