package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"homebid/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// JobImages stores job photos in a public S3 bucket under jobs/{jobID}/.
type JobImages struct {
	client s3API
	bucket string
}

func NewJobImages(client *s3.Client, bucket string) *JobImages {
	return &JobImages{client: client, bucket: bucket}
}

func (s *JobImages) baseURL() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
}

// ImageKey builds the object key for a new image, keeping the file extension.
func ImageKey(jobID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("jobs/%s/%s%s", jobID, utils.NanoID(), ext)
}

// Upload stores body under key and returns its public URL.
func (s *JobImages) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// Delete removes an image by its public URL. URLs outside the bucket are ignored.
func (s *JobImages) Delete(ctx context.Context, imageURL string) error {
	key, ok := s.KeyFromURL(imageURL)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("failed to delete %s", key))
}

func (s *JobImages) PublicURL(key string) string {
	return s.baseURL() + key
}

func (s *JobImages) KeyFromURL(imageURL string) (string, bool) {
	key, ok := strings.CutPrefix(imageURL, s.baseURL())
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
