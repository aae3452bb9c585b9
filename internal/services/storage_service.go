// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Image folders; anything else lands in products.
const (
	FolderProducts = "products"
	FolderFarmers  = "farmers"
)

type StorageService struct {
	s3Client s3iface.S3API
	cfg      config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		// Local disk for development
		return &StorageService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

// NewStorageServiceWithClient is used when the S3 client is built elsewhere.
func NewStorageServiceWithClient(client s3iface.S3API, cfg config.StorageConfig) *StorageService {
	return &StorageService{s3Client: client, cfg: cfg}
}

func (s *StorageService) UsesS3() bool {
	return s.s3Client != nil
}

// Upload checks extension, size and content, then stores the image.
func (s *StorageService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error) {
	if header.Size > MaxImageSize {
		return nil, apperr.Validation("Image is larger than 5 MB").WithKey(i18n.KeyFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	expected, ok := allowedImageTypes[ext]
	if !ok {
		return nil, invalidImage()
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, apperr.Dependency("File upload failed", fmt.Errorf("failed to read file: %w", err)).WithKey(i18n.KeyFileUploadFailed)
	}
	if len(fileBytes) > MaxImageSize {
		return nil, apperr.Validation("Image is larger than 5 MB").WithKey(i18n.KeyFileTooLarge)
	}

	mimeType := http.DetectContentType(fileBytes)
	if mimeType != expected {
		return nil, invalidImage()
	}

	key := s.generateFileName(ext, folder)

	var result *UploadResult
	if s.s3Client != nil {
		result, err = s.uploadToS3(ctx, fileBytes, key, mimeType)
	} else {
		result, err = s.uploadToLocal(fileBytes, key, mimeType)
	}
	if err != nil {
		return nil, apperr.Dependency("File upload failed", err).WithKey(i18n.KeyFileUploadFailed)
	}

	logrus.WithFields(logrus.Fields{
		"key":  result.Key,
		"size": result.Size,
		"s3":   s.s3Client != nil,
	}).Info("Image uploaded")
	return result, nil
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	dest := filepath.Join(s.cfg.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(dest, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/uploads/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) generateFileName(ext, folder string) string {
	if folder != FolderFarmers {
		folder = FolderProducts
	}

	timestamp := time.Now().UTC().Format("20060102")
	return path.Join(folder, fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String(), ext))
}

func (s *StorageService) getS3URL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

func invalidImage() error {
	return apperr.Validation("Only JPG, PNG and WEBP images are allowed").WithKey(i18n.KeyFileInvalidType)
}
