package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/config"
)

// Asset describes an uploaded media object.
type Asset struct {
	// URL is the public location of the object. Its last path segment is the
	// object's public id; callers derive the delete key from it via
	// PublicIDFromURL.
	URL string
	// DurationSeconds is populated by stores that can probe media length.
	// The S3 store leaves it zero.
	DurationSeconds float64
}

// S3MediaStore uploads and deletes media assets against an S3-compatible
// object store.
type S3MediaStore struct {
	uploader *manager.Uploader
	client   *s3.Client
	bucket   string
	baseURL  string
}

// NewS3MediaStore configures a media store targeting the provided bucket.
func NewS3MediaStore(ctx context.Context, cfg config.ObjectStoreConfig) (*S3MediaStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("media store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3MediaStore{
		uploader: uploader,
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the local file under a fresh public id and returns its public
// location. The object key is the bare public id; the original extension only
// informs the content type.
func (s *S3MediaStore) Upload(ctx context.Context, localPath string) (Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	key := uuid.NewString()
	contentType := mime.TypeByExtension(path.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("upload media %s: %w", key, err)
	}

	url := key
	if s.baseURL != "" {
		url = fmt.Sprintf("%s/%s", s.baseURL, key)
	}

	return Asset{URL: url}, nil
}

// Delete removes the object identified by its public id.
func (s *S3MediaStore) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete media %s: %w", publicID, err)
	}
	return nil
}

// PublicIDFromURL extracts the public id from a stored asset URL: the last
// path segment with any extension stripped. This naming convention is the
// boundary contract with the object store.
func PublicIDFromURL(url string) string {
	segment := path.Base(strings.TrimSuffix(url, "/"))
	if segment == "." || segment == "/" {
		return ""
	}
	return strings.TrimSuffix(segment, path.Ext(segment))
}
