package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fleetdeck/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// StorageService writes document attachments to the configured storage root
// under generated per-yacht paths and returns their public URLs.
type StorageService struct {
	root      string
	publicURL string
	log       logger.Logger
}

func NewStorageService(config config.Config) (*StorageService, error) {
	log := logger.New("StorageService")

	if err := os.MkdirAll(config.DocumentStoragePath, 0o755); err != nil {
		return nil, log.Err("failed to create document storage root", err,
			"path", config.DocumentStoragePath)
	}

	return &StorageService{
		root:      config.DocumentStoragePath,
		publicURL: strings.TrimSuffix(config.DocumentPublicURL, "/"),
		log:       log,
	}, nil
}

// Store writes the file under a generated path and returns (storagePath,
// publicURL). The generated name keeps the original extension only, so
// uploads cannot collide or traverse directories.
func (s *StorageService) Store(
	yachtID uuid.UUID,
	originalName string,
	content io.Reader,
) (string, string, error) {
	log := s.log.Function("Store")

	ext := filepath.Ext(originalName)
	relative := filepath.Join(yachtID.String(), uuid.New().String()+ext)
	absolute := filepath.Join(s.root, relative)

	if err := os.MkdirAll(filepath.Dir(absolute), 0o755); err != nil {
		return "", "", log.Err("failed to create yacht storage directory", err, "path", absolute)
	}

	file, err := os.Create(absolute)
	if err != nil {
		return "", "", log.Err("failed to create document file", err, "path", absolute)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(absolute)
		return "", "", log.Err("failed to write document file", err, "path", absolute)
	}

	return relative, fmt.Sprintf("%s/%s", s.publicURL, filepath.ToSlash(relative)), nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *StorageService) Remove(storagePath string) error {
	log := s.log.Function("Remove")

	absolute := filepath.Join(s.root, storagePath)
	if err := os.Remove(absolute); err != nil && !os.IsNotExist(err) {
		return log.Err("failed to remove document file", err, "path", absolute)
	}

	return nil
}
