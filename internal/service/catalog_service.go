package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"
	apperrors "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/errors"
)

type CatalogService struct {
	catalog CatalogStore
	log     *zap.Logger
}

func NewCatalogService(catalog CatalogStore, log *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, log: log}
}

// ListServices returns the active catalog. The default catalog is seeded by a
// migration at deploy time, so a read never writes.
func (s *CatalogService) ListServices(ctx context.Context) ([]db.Service, error) {
	services, err := s.catalog.GetActiveServices(ctx)
	if err != nil {
		s.log.Error("failed to list services", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch services")
	}
	if services == nil {
		services = []db.Service{}
	}
	return services, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*db.Service, error) {
	svc, err := s.catalog.GetServiceByID(ctx, id)
	if err != nil {
		s.log.Error("failed to fetch service", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch service")
	}
	if svc == nil {
		return nil, apperrors.NotFound("Service not found")
	}
	return svc, nil
}
