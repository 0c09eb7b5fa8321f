package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/storage"
	"github.com/templui/lifeos/internal/validation"
)

var ErrStorageDisabled = errors.New("file storage is not configured")

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

// NewFileService accepts a nil storage; uploads then fail with ErrStorageDisabled.
func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

func (s *FileService) Enabled() bool {
	return s.storage != nil
}

// Upload validates an image, stores it and records it. ownerType may be empty
// for images not yet attached to an article or inspiration.
func (s *FileService) Upload(ctx context.Context, ownerType, ownerID string, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	switch ownerType {
	case "", model.FileOwnerArticle, model.FileOwnerInspiration:
	default:
		return nil, validation.Field("owner_type", fmt.Sprintf("invalid value %q", ownerType))
	}

	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return nil, validation.Field("file", err.Error())
	}

	mimeType, err := sniff(file)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("public", "images", filename)

	err = s.storage.Save(ctx, storagePath, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	record := &model.File{
		ID:           uuid.New().String(),
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		Type:         model.FileTypeImage,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		Public:       true,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.fileRepo.Create(record)
	if err != nil {
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	record.URL = s.storage.URL(storagePath)
	return record, nil
}

func sniff(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	_, err = file.Seek(0, 0)
	if err != nil {
		return "", fmt.Errorf("failed to reset file: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}

func (s *FileService) Files(ownerType, ownerID string) ([]*model.File, error) {
	var files []*model.File
	var err error
	if ownerType == "" {
		files, err = s.fileRepo.AllFiles()
	} else {
		files, err = s.fileRepo.Files(ownerType, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	for _, f := range files {
		f.URL = s.URL(f)
	}
	return nonNil(files), nil
}

func (s *FileService) URL(file *model.File) string {
	if file == nil || s.storage == nil {
		return ""
	}
	return s.storage.URL(file.StoragePath)
}

// Delete removes the record. Removing the stored object is best effort.
func (s *FileService) Delete(ctx context.Context, fileID string) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return err
	}

	if s.storage != nil {
		delErr := s.storage.Delete(ctx, file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
		}
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}
