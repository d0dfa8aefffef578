package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// publicMarker is the segment every public object reference carries,
// e.g. https://cdn.example.com/storage/v1/object/public/<bucket>/<key>.
const publicMarker = "/object/public/"

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the host public references are served from,
	// without a trailing slash.
	PublicBaseURL string
}

// Store uploads and removes media objects in an R2 bucket. It keeps no
// state beyond the client handle and bucket name.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func New(awsConfig aws.Config, r2 R2Config) *Store {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &Store{
		client:  client,
		bucket:  r2.Bucket,
		baseURL: strings.TrimSuffix(r2.PublicBaseURL, "/"),
	}
}

// ObjectKey builds the storage key for a recorded answer. The nanosecond
// timestamp keeps repeated attempts at the same question from colliding.
func ObjectKey(sessionID, questionID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "webm"
	}
	return path.Join("interviews", sessionID, questionID, fmt.Sprintf("%d.%s", time.Now().UnixNano(), ext))
}

// Put uploads the object and returns its public reference.
func (s *Store) Put(ctx context.Context, data []byte, contentType, key string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return s.PublicURL(s.bucket, key), nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL builds the public reference for a stored object.
func (s *Store) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1%s%s/%s", s.baseURL, publicMarker, bucket, key)
}

// ParsePublicURL splits a public reference into bucket and key. It
// reports ok=false for anything that does not carry the public-object
// marker, including empty input.
func ParsePublicURL(ref string) (bucket, key string, ok bool) {
	_, rest, found := strings.Cut(ref, publicMarker)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
