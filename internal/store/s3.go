package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of the S3 client used by S3Store
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures an S3-backed store
type S3Options struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // custom endpoint for S3-compatible services; enables path-style addressing
}

// S3Store keeps the waveform and spectrum as JSON objects in a bucket
type S3Store struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3Store builds a store from the default AWS credential chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) SaveWaveform(ctx context.Context, rec *WaveformRecord) error {
	return s.put(ctx, waveformFile, rec)
}

func (s *S3Store) LoadWaveform(ctx context.Context) (*WaveformRecord, error) {
	var rec WaveformRecord
	found, err := s.get(ctx, waveformFile, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *S3Store) SaveSpectrum(ctx context.Context, rec *SpectrumRecord) error {
	return s.put(ctx, spectrumFile, rec)
}

func (s *S3Store) LoadSpectrum(ctx context.Context) (*SpectrumRecord, error) {
	var rec SpectrumRecord
	found, err := s.get(ctx, spectrumFile, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *S3Store) put(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", s.key(name), err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, name string, v any) (bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to download %s: %w", s.key(name), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", s.key(name), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", s.key(name), err)
	}
	return true, nil
}
