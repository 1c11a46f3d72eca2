package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type s3Storage struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Storage initializes a new S3Storage instance
func NewS3Storage(client *s3.Client, bucketName string) *s3Storage {
	return &s3Storage{Client: client, BucketName: bucketName}
}

// NewS3Client builds an S3 client from static credentials and a region.
func NewS3Client(ctx context.Context, accessKeyID, secretAccessKey, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *s3Storage) GetKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var matchedFiles []string
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.BucketName),
		Prefix: aws.String(prefix), // Only return objects with this prefix
	})

	// Iterate through paginated results
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Errorf("failed to list S3 objects: %w", err)
		}

		for _, obj := range page.Contents {
			matchedFiles = append(matchedFiles, *obj.Key)
		}
	}

	return matchedFiles, nil
}

// Write uploads data to an S3 bucket with a given key
func (s *s3Storage) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
		Body:   io.NopCloser(bytes.NewReader(data)),
		ACL:    types.ObjectCannedACLPrivate,
	})
	return err
}

// Read downloads data from an S3 bucket for a given key
func (s *s3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, ErrDoesNotExist
		}
		return nil, errors.Wrap(err, "failed to get object")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "can not read object body")
	}
	return data, nil
}
