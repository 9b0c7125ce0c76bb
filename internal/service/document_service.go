package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentService stores vehicle registration documents
type DocumentService struct {
	vehicles      *VehicleService
	vehicleRepo   *repository.VehicleRepository
	storage       storage.Storage
	publicBaseURL string
	logger        *zap.Logger
}

func NewDocumentService(
	vehicles *VehicleService,
	vehicleRepo *repository.VehicleRepository,
	store storage.Storage,
	publicBaseURL string,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		vehicles:      vehicles,
		vehicleRepo:   vehicleRepo,
		storage:       store,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Upload stores the document and points the vehicle's image_url at it
func (s *DocumentService) Upload(ctx context.Context, vehicleID uuid.UUID, filename, contentType string, data io.Reader) (*domain.VehicleDTO, error) {
	if _, err := s.vehicles.exists(ctx, vehicleID); err != nil {
		return nil, err
	}

	storagePath, size, err := s.storage.Upload(ctx, "vehicles/"+vehicleID.String(), filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.VehicleDocument{
		VehicleID:   vehicleID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
	}
	if err := s.vehicleRepo.CreateDocument(ctx, doc); err != nil {
		s.discard(ctx, storagePath)
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	url := storage.PublicURL(s.publicBaseURL, storagePath)
	if err := s.vehicleRepo.Update(ctx, vehicleID, map[string]interface{}{"image_url": url}); err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}

	s.logger.Info("vehicle document stored",
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("path", storagePath),
		zap.Int64("size", size))
	return s.vehicles.GetByID(ctx, vehicleID)
}

// Latest opens the most recent document of a vehicle. The caller closes the reader.
func (s *DocumentService) Latest(ctx context.Context, vehicleID uuid.UUID) (*domain.VehicleDocumentDTO, io.ReadCloser, error) {
	doc, err := s.vehicleRepo.LatestDocument(ctx, vehicleID)
	if err != nil {
		return s.notFound(err)
	}
	return s.open(ctx, doc)
}

// Open serves the document behind an image_url. Only paths recorded for a
// vehicle are readable.
func (s *DocumentService) Open(ctx context.Context, storagePath string) (*domain.VehicleDocumentDTO, io.ReadCloser, error) {
	storagePath = strings.TrimLeft(storagePath, "/")
	if storagePath == "" {
		return nil, nil, newError(ErrNotFound, "Document not found")
	}
	doc, err := s.vehicleRepo.DocumentByPath(ctx, storagePath)
	if err != nil {
		return s.notFound(err)
	}
	return s.open(ctx, doc)
}

func (s *DocumentService) open(ctx context.Context, doc *domain.VehicleDocument) (*domain.VehicleDocumentDTO, io.ReadCloser, error) {
	rc, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, newError(ErrNotFound, "Document not found")
		}
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	dto := mapper.ToVehicleDocumentDTO(doc, storage.PublicURL(s.publicBaseURL, doc.StoragePath))
	return &dto, rc, nil
}

func (s *DocumentService) notFound(err error) (*domain.VehicleDocumentDTO, io.ReadCloser, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, newError(ErrNotFound, "Document not found")
	}
	return nil, nil, err
}

func (s *DocumentService) discard(ctx context.Context, storagePath string) {
	if err := s.storage.Delete(ctx, storagePath); err != nil {
		s.logger.Warn("failed to remove orphaned document", zap.String("path", storagePath), zap.Error(err))
	}
}
