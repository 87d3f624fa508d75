// Package cloud adapts the AWS services the pipeline runs on: S3 as the
// artifact store and Polly as the synthesis engine. Both are consumed
// through the SDK's service interfaces so tests can substitute fakes.
package cloud

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// ArtifactStore is the narrow object-storage contract the orchestrator and
// the conversion lambda depend on.
type ArtifactStore interface {
	Put(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, bucket, key string) ([]byte, map[string]string, error)
	// HeadExists reports whether the object exists. A missing object is
	// (false, nil); any other failure is returned as an error.
	HeadExists(ctx context.Context, bucket, key string) (bool, error)
	PresignedGet(bucket, key string, ttl time.Duration) (string, error)
}

// S3Store implements ArtifactStore on an S3 client.
type S3Store struct {
	svc s3iface.S3API
}

// NewS3Store wraps an S3 client (or a test fake).
func NewS3Store(svc s3iface.S3API) *S3Store {
	return &S3Store{svc: svc}
}

func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}
	if len(metadata) > 0 {
		input.Metadata = aws.StringMap(metadata)
	}
	_, err := s.svc.PutObjectWithContext(ctx, input)
	return err
}

func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, map[string]string, error) {
	out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, err
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, nil, err
	}
	return body, aws.StringValueMap(out.Metadata), nil
}

func (s *S3Store) HeadExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3Store) PresignedGet(bucket, key string, ttl time.Duration) (string, error) {
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return req.Presign(ttl)
}

// isNotFound distinguishes a missing object from a real failure. HeadObject
// reports a bare 404 as "NotFound" rather than s3.ErrCodeNoSuchKey.
func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
