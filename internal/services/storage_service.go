// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/utils"
)

const MaxImageSize = 10 * 1024 * 1024 // 10MB

var (
	ErrNoFiles       = errors.New("no files provided")
	ErrInvalidFolder = errors.New("invalid folder slug")
	ErrInvalidImage  = errors.New("invalid image file")
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)

type StorageService struct {
	s3Client s3iface.S3API
	config   *config.Config
}

type UploadedImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type FailedUpload struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type UploadResult struct {
	UploadedImages []UploadedImage `json:"uploadedImages"`
	Failed         []FailedUpload  `json:"failed,omitempty"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" || config.AWS.S3Bucket == "" {
		// Local disk under the public uploads directory
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadImages stores every file under folderSlug. A file that fails is
// reported in Failed and does not stop the others.
func (s *StorageService) UploadImages(ctx context.Context, folderSlug, productSlug string, files []*multipart.FileHeader) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if !utils.IsSlug(folderSlug) {
		return nil, ErrInvalidFolder
	}
	if productSlug == "" || !utils.IsSlug(productSlug) {
		productSlug = folderSlug
	}

	result := &UploadResult{UploadedImages: []UploadedImage{}}
	for _, header := range files {
		image, err := s.uploadImage(ctx, folderSlug, productSlug, header)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"file":   header.Filename,
				"folder": folderSlug,
				"error":  err,
			}).Warn("Image upload failed")
			result.Failed = append(result.Failed, FailedUpload{Filename: header.Filename, Reason: err.Error()})
			continue
		}
		result.UploadedImages = append(result.UploadedImages, *image)
	}
	return result, nil
}

func (s *StorageService) uploadImage(ctx context.Context, folder, prefix string, header *multipart.FileHeader) (*UploadedImage, error) {
	if header.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, header.Size)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext, err := ValidateImage(fileBytes)
	if err != nil {
		return nil, err
	}

	filename := s.generateFileName(prefix, ext)
	if s.s3Client != nil {
		return s.uploadToS3(ctx, fileBytes, folder, filename)
	}
	return s.uploadToLocal(fileBytes, folder, filename)
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, folder, filename string) (*UploadedImage, error) {
	key := path.Join(folder, filename)
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(http.DetectContentType(fileBytes)),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadedImage{URL: s.getS3URL(key), Filename: filename}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, folder, filename string) (*UploadedImage, error) {
	dir := filepath.Join(s.config.Storage.UploadsDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadedImage{
		URL:      path.Join(s.config.Storage.UploadsURL, folder, filename),
		Filename: filename,
	}, nil
}

func (s *StorageService) generateFileName(prefix, ext string) string {
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s-%s-%s%s", prefix, timestamp, uuid.New().String()[:8], ext)
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

// ValidateImage checks the file signature and returns the matching extension.
func ValidateImage(buffer []byte) (string, error) {
	switch {
	case len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF:
		return ".jpg", nil
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return ".png", nil
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return ".gif", nil
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return ".webp", nil
	}
	return "", ErrInvalidImage
}
