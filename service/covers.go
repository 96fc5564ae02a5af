package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base32"
	"mime/multipart"
	"path/filepath"
	"strings"

	"booklister/clients"
	"booklister/data"
	"booklister/data/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

var coverMediaTypes = []string{
	"image/jpeg",
	"image/png",
}

// UpdateBookCover uploads a cover image to object storage and records the
// resulting URL on the book via a partial update of the coverImage field.
func (s *service) UpdateBookCover(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (*data.Book, error) {
	buffer, mtype, err := detectCoverMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.uploadCoverToS3(ctx, s3Client, buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	return s.UpdateBook(ctx, id, dto.UpdateBookInput{CoverImage: &coverURL})
}

// detectCoverMimeType reads the multipart file into memory and checks its
// sniffed content type against the supported cover image types.
func detectCoverMimeType(file multipart.File, fileHeader *multipart.FileHeader) ([]byte, *mimetype.MIME, error) {
	buffer := make([]byte, fileHeader.Size)
	_, err := file.Read(buffer)
	if err != nil {
		return nil, nil, err
	}
	mtype := mimetype.Detect(buffer)
	for _, supported := range coverMediaTypes {
		if mtype.Is(supported) {
			return buffer, mtype, nil
		}
	}
	return nil, nil, failedValidation(map[string]string{"cover": "must be a JPEG or PNG image"})
}

// uploadCoverToS3 saves a cover image to the S3 bucket under a random key
// and returns the public URL of the uploaded object.
func (s *service) uploadCoverToS3(ctx context.Context, client *s3.Client, buffer []byte, mtype *mimetype.MIME, fileHeader *multipart.FileHeader) (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	key := "bookcovers/" + strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + filepath.Ext(fileHeader.Filename)
	uploader := manager.NewUploader(client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer),
		ContentType: aws.String(mtype.String()),
	})
	if err != nil {
		return "", err
	}
	return "https://" + s.config.S3.Bucket + ".s3." + s.config.S3.Region + ".amazonaws.com/" + key, nil
}
