// Backup-Tool: zieht einen pg_dump der Such-Datenbank, komprimiert ihn
// und legt ihn rotierend in einem separaten Backup-Bucket ab.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type backupConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	Bucket    string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	Endpoint  string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	AccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	Region    string `envconfig:"BACKUP_S3_REGION" required:"true"`

	KeepBackups int `envconfig:"KEEP_BACKUPS" default:"7"`
}

func main() {
	log.Println("Starting database backup...")

	_ = godotenv.Load()
	var cfg backupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}

	dump, err := createDump(cfg)
	if err != nil {
		log.Fatalf("pg_dump failed: %v", err)
	}

	client, err := newS3Client(cfg)
	if err != nil {
		log.Fatalf("s3 client error: %v", err)
	}

	key := fmt.Sprintf("backup-%s.sql.gz", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	_, err = client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(dump),
	})
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	log.Printf("Backup uploaded to s3://%s/%s (%d bytes)", cfg.Bucket, key, len(dump))

	if err := rotate(client, cfg); err != nil {
		log.Fatalf("rotation failed: %v", err)
	}

	log.Println("Backup finished.")
}

func createDump(cfg backupConfig) ([]byte, error) {
	cmd := exec.Command("pg_dump",
		"-h", cfg.DBHost,
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.DBPassword)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, stdout); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newS3Client(cfg backupConfig) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: cfg.Endpoint}, nil
	})
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// rotate behält die jüngsten KeepBackups Dumps und löscht den Rest.
func rotate(client *s3.Client, cfg backupConfig) error {
	out, err := client.ListObjectsV2(context.Background(), &s3.ListObjectsV2Input{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return err
	}
	if len(out.Contents) <= cfg.KeepBackups {
		return nil
	}

	sort.Slice(out.Contents, func(i, j int) bool {
		return out.Contents[i].LastModified.After(*out.Contents[j].LastModified)
	})

	for _, obj := range out.Contents[cfg.KeepBackups:] {
		log.Printf("Deleting old backup: %s", aws.ToString(obj.Key))
		_, err := client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			log.Printf("delete of %s failed: %v", aws.ToString(obj.Key), err)
		}
	}
	return nil
}
