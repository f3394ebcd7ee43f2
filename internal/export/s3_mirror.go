package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Mirror uploads a published archive artifact to object storage.
type Mirror interface {
	MirrorArtifact(ctx context.Context, localPath string, targetDate time.Time) (string, error)
}

// S3Mirror copies published archive artifacts to S3 under
//
//	s3://<bucket>/<prefix>/archive/YYYY/MM/<filename>
//
// keyed by the artifact's target month. Uploads are a best-effort off-site
// copy; the filesystem archive stays the source of truth.
type S3Mirror struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// NewS3Mirror creates an S3Mirror. Region and credentials come from the
// environment (AWS_REGION, AWS_PROFILE, AWS_ACCESS_KEY_ID/SECRET, ...).
func NewS3Mirror(ctx context.Context, bucket, prefix string) (*S3Mirror, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Mirror{
		bucket:   bucket,
		prefix:   prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

// MirrorArtifact uploads the file at localPath and returns the object key.
func (m *S3Mirror) MirrorArtifact(ctx context.Context, localPath string, targetDate time.Time) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	key := path.Join(m.prefix, "archive",
		fmt.Sprintf("%04d", targetDate.Year()),
		fmt.Sprintf("%02d", int(targetDate.Month())),
		filepath.Base(localPath),
	)
	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(m.bucket),
		Key:                  aws.String(key),
		Body:                 f,
		ContentType:          aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return key, nil
}
