package production

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/caarlos0/env/v11"

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// S3Config configures an S3Persister.
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string // optional key prefix
	Endpoint        string // optional; if set enables custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	PathStyle       bool
	HTTPClient      *http.Client // optional
}

// Environment variables read by S3ConfigFromEnv:
//   SUPERSTATE_S3_BUCKET=<bucket> (required)
//   SUPERSTATE_S3_REGION=<region> (default us-east-1)
//   SUPERSTATE_S3_PREFIX=<prefix> (optional)
//   SUPERSTATE_S3_ENDPOINT=<url> (optional, for MinIO)
//   SUPERSTATE_S3_PATH_STYLE=true|false (default false)

// S3Persister stores one JSON object per world at <prefix>/<worldID>.json.
type S3Persister struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Persister creates an S3 persister from cfg.
func NewS3Persister(ctx context.Context, cfg S3Config) (*S3Persister, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3Persister{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

type s3Env struct {
	Bucket    string `env:"SUPERSTATE_S3_BUCKET,notEmpty"`
	Region    string `env:"SUPERSTATE_S3_REGION"`
	Prefix    string `env:"SUPERSTATE_S3_PREFIX"`
	Endpoint  string `env:"SUPERSTATE_S3_ENDPOINT"`
	PathStyle bool   `env:"SUPERSTATE_S3_PATH_STYLE"`
}

// S3ConfigFromEnv reads an S3Config from the process environment.
func S3ConfigFromEnv() (S3Config, error) {
	var e s3Env
	if err := env.Parse(&e); err != nil {
		return S3Config{}, fmt.Errorf("parse s3 env: %w", err)
	}
	return S3Config{
		Bucket:    e.Bucket,
		Region:    e.Region,
		Prefix:    e.Prefix,
		Endpoint:  e.Endpoint,
		PathStyle: e.PathStyle,
	}, nil
}

func (p *S3Persister) key(worldID string) string {
	if p.prefix == "" {
		return worldID + ".json"
	}
	return path.Join(p.prefix, worldID+".json")
}

func (p *S3Persister) Save(ctx context.Context, snap ecs.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	key := p.key(snap.WorldID)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (p *S3Persister) Load(ctx context.Context, worldID string) (ecs.Snapshot, error) {
	key := p.key(worldID)
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &p.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return ecs.Snapshot{}, fmt.Errorf("world %q: %w", worldID, app.ErrSnapshotNotFound)
		}
		return ecs.Snapshot{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return ecs.Snapshot{}, fmt.Errorf("read %s: %w", key, err)
	}
	var snap ecs.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ecs.Snapshot{}, fmt.Errorf("decode %s: %w", key, err)
	}
	snap.WorldID = worldID
	return snap, nil
}

// Delete removes the stored snapshot of worldID.
func (p *S3Persister) Delete(ctx context.Context, worldID string) error {
	key := p.key(worldID)
	if _, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &p.bucket, Key: &key}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
