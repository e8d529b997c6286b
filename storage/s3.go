package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"doc-scout/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store legt Blobs in einem S3-kompatiblen Bucket unterhalb eines
// festen Ordner-Präfixes ab.
type S3Store struct {
	Client *s3.Client
	Bucket string
	Folder string
	// Basis für öffentliche Links, z.B. "https://s3.example.com"
	BaseURL string
}

// NewS3Store erstellt den S3-Client für einen kompatiblen Anbieter
// (eigener Endpoint, statische Credentials).
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if cfg.S3URL == "" || cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 backend selected but S3_URL/S3_BUCKET not configured")
	}
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3URL,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return &S3Store{
		Client:  s3.NewFromConfig(awsCfg),
		Bucket:  cfg.S3Bucket,
		Folder:  cfg.S3Folder,
		BaseURL: fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3URL, "/"), cfg.S3Bucket),
	}, nil
}

// Save lädt eine Datei in den Bucket hoch und gibt den Schlüssel zurück.
// Der Originalname landet nicht im Schlüssel; Eindeutigkeit kommt von
// einer zufälligen UUID.
func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := uuid.NewString() + path.Ext(name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete entfernt einen Blob aus dem Bucket.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return err
}

// URL gibt den öffentlichen Link für einen Schlüssel zurück.
func (s *S3Store) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.BaseURL, s.objectKey(key))
}

// List gibt alle Blobs unterhalb des Ordner-Präfixes zurück.
func (s *S3Store) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	var token *string
	for {
		out, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.Bucket),
			Prefix:            aws.String(s.Folder + "/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			objects = append(objects, Object{
				Key:          strings.TrimPrefix(aws.ToString(obj.Key), s.Folder+"/"),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
		if out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return objects, nil
}

func (s *S3Store) objectKey(key string) string {
	return s.Folder + "/" + key
}
