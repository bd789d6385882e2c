package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Client sube respaldos a un bucket S3-compatible (AWS, MinIO, Backblaze).
type S3Client struct {
	client *minio.Client
	bucket string
	prefix string
}

// S3Options credenciales y destino del bucket.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// NewS3Client construye el cliente. No valida el bucket hasta el primer uso.
func NewS3Client(opts S3Options) (*S3Client, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(opts.Endpoint, "https://"), "http://")
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("cliente s3: %w", err)
	}
	return &S3Client{client: cli, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

// Upload sube un archivo local al bucket y devuelve la clave del objeto.
func (c *S3Client) Upload(ctx context.Context, localPath, name string) (string, error) {
	key := name
	if c.prefix != "" {
		key = path.Join(c.prefix, name)
	}
	_, err := c.client.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("subir %s a s3: %w", name, err)
	}
	return key, nil
}

// Download baja un objeto del bucket a un archivo local.
func (c *S3Client) Download(ctx context.Context, name, localPath string) error {
	key := name
	if c.prefix != "" {
		key = path.Join(c.prefix, name)
	}
	if err := c.client.FGetObject(ctx, c.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("bajar %s de s3: %w", name, err)
	}
	return nil
}
