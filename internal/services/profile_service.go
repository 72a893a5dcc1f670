package services

import (
	"context"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/bnetpineda/PawScan-sub001/internal/repository"
)

type OwnerProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateOwnerProfileInput) (*models.OwnerProfile, error)
}

type VetProfileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateVetProfileInput) (*models.VetProfile, error)
}

type ProfileService struct {
	ownerProfileRepo OwnerProfileUpdater
	vetProfileRepo   VetProfileUpdater
}

func NewProfileService(ownerProfileRepo OwnerProfileUpdater, vetProfileRepo VetProfileUpdater) *ProfileService {
	return &ProfileService{
		ownerProfileRepo: ownerProfileRepo,
		vetProfileRepo:   vetProfileRepo,
	}
}

func (s *ProfileService) UpdateOwnerProfile(ctx context.Context, userID int64, req repository.UpdateOwnerProfileInput) (*models.OwnerProfile, error) {
	return s.ownerProfileRepo.UpdatePartial(ctx, userID, req)
}

func (s *ProfileService) UpdateVetProfile(ctx context.Context, userID int64, req repository.UpdateVetProfileInput) (*models.VetProfile, error) {
	return s.vetProfileRepo.UpdatePartial(ctx, userID, req)
}
