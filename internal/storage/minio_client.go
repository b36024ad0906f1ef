package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"mirfeed/internal/config"
)

// sniffLen is how many leading bytes are inspected to detect the file type.
const sniffLen = 3072

var ErrUnsupportedType = errors.New("неподдерживаемый тип файла")

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Storage interface {
	UploadImage(ctx context.Context, folder string, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

// objectPutter is the part of *minio.Client the storage needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinIOClient struct {
	client    objectPutter
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %s: %w", cfg.MinIO.BucketName, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета %s: %w", cfg.MinIO.BucketName, err)
		}
		log.Info("создан бакет MinIO", zap.String("bucket", cfg.MinIO.BucketName))
	}

	return newMinIOClient(client, cfg.MinIO.BucketName, cfg.MinIO.PublicURL), nil
}

func newMinIOClient(client objectPutter, bucket, publicURL string) *MinIOClient {
	return &MinIOClient{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		now:       time.Now,
	}
}

// UploadImage stores the file under folder/yyyy/mm/<uuid><ext> and returns the
// object name and its public URL. The type is detected from the content, not
// from the file name.
func (m *MinIOClient) UploadImage(ctx context.Context, folder string, fileName string, file io.Reader, size int64) (string, string, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	header = header[:n]

	contentType := mimetype.Detect(header).String()
	fileExt, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	now := m.now()
	objectName := fmt.Sprintf("%s/%d/%02d/%s%s",
		strings.Trim(folder, "/"),
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	body := io.MultiReader(bytes.NewReader(header), file)

	_, err = m.client.PutObject(ctx, m.bucket, objectName, body, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	imageURL := fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName)

	return objectName, imageURL, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
