// utils/storage.go
package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var storageClient *s3.Client
var presignClient *s3.PresignClient
var storageBucket string
var storageBaseURL string

// InitStorage wires the S3-compatible object store (R2) used for proof
// uploads.
func InitStorage() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	storageBucket = os.Getenv("R2_BUCKET_NAME")
	storageBaseURL = os.Getenv("CDN_BASE_URL")
	if storageBaseURL == "" {
		storageBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load storage config: %w", err)
	}

	storageClient = s3.NewFromConfig(cfg)
	presignClient = s3.NewPresignClient(storageClient)
	return nil
}

// SignedUpload is a presigned PUT the client uploads proof media to
type SignedUpload struct {
	UploadURL  string
	StorageKey string
	ExpiresAt  time.Time
}

// GetSignedUploadURL presigns a PUT for the given key and content type.
func GetSignedUploadURL(key, contentType string, expiresIn time.Duration) (*SignedUpload, error) {
	req, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(storageBucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &SignedUpload{
		UploadURL:  req.URL,
		StorageKey: key,
		ExpiresAt:  time.Now().Add(expiresIn),
	}, nil
}

// ObjectMetadata is the slice of object info the anti-cheat scorer consumes
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified *time.Time
}

// StatObject heads the object; exists=false (with no error) when the key is
// absent.
func StatObject(key string) (*ObjectMetadata, bool, error) {
	out, err := storageClient.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(storageBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to stat object: %w", err)
	}

	meta := &ObjectMetadata{LastModified: out.LastModified}
	if out.ContentLength != nil {
		meta.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		meta.ContentType = *out.ContentType
	}
	return meta, true, nil
}

// ObjectURL returns the public URL for a stored key.
func ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s", storageBaseURL, key)
}
