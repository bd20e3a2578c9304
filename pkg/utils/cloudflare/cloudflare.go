package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"portfolio_backend/pkg/config"
)

// ObjectPutter is the slice of the S3 API the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes JSON snapshots to an R2 bucket.
type Archiver struct {
	client    ObjectPutter
	bucket    string
	publicURL string
}

func newS3Client(ctx context.Context, cfg config.R2Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})
	return client, nil
}

func NewArchiver(ctx context.Context, cfg config.R2Config) (*Archiver, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewArchiverWithClient(client, cfg.Bucket, cfg.PublicURL), nil
}

func NewArchiverWithClient(client ObjectPutter, bucket, publicURL string) *Archiver {
	return &Archiver{client: client, bucket: bucket, publicURL: publicURL}
}

// ObjectKey lays snapshots out by prefix and UTC day, e.g.
// digests/2026/03/04/<uuid>.json. Each prefix segment is made URL-safe.
func ObjectKey(prefix string, day time.Time) string {
	var folders []string
	for _, segment := range strings.Split(prefix, "/") {
		if s := slug.Make(segment); s != "" {
			folders = append(folders, s)
		}
	}

	day = day.UTC()
	folders = append(folders,
		day.Format("2006"), day.Format("01"), day.Format("02"),
		uuid.New().String()+".json")
	return path.Join(folders...)
}

// PutJSON uploads v and returns a link to it: under the public URL when one
// is configured, otherwise an r2:// reference.
func (a *Archiver) PutJSON(ctx context.Context, prefix string, day time.Time, v any) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := ObjectKey(prefix, day)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload snapshot to R2: %w", err)
	}

	return a.URL(key), nil
}

func (a *Archiver) URL(key string) string {
	if a.publicURL != "" {
		return a.publicURL + "/" + key
	}
	return fmt.Sprintf("r2://%s/%s", a.bucket, key)
}
