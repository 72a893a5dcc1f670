package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/bnetpineda/PawScan-sub001/internal/repository"
	"github.com/bnetpineda/PawScan-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type ProfileHandler struct {
	profileService   *services.ProfileService
	ownerProfileRepo ownerProfileStore
	vetProfileRepo   vetProfileStore
	storageService   services.StorageService
}

type ownerProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.OwnerProfile, error)
}

type vetProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.VetProfile, error)
}

func NewProfileHandler(
	profileService *services.ProfileService,
	ownerProfileRepo ownerProfileStore,
	vetProfileRepo vetProfileStore,
	storageService services.StorageService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:   profileService,
		ownerProfileRepo: ownerProfileRepo,
		vetProfileRepo:   vetProfileRepo,
		storageService:   storageService,
	}
}

type updateOwnerProfileRequest struct {
	FullName   *string `json:"full_name"`
	PetName    *string `json:"pet_name"`
	PetSpecies *string `json:"pet_species"`
	PetBreed   *string `json:"pet_breed"`
	PetAge     *int    `json:"pet_age"`
}

type updateVetProfileRequest struct {
	FullName      *string   `json:"full_name"`
	ClinicName    *string   `json:"clinic_name"`
	Bio           *string   `json:"bio"`
	Specialties   *[]string `json:"specialties"`
	LicenseNumber *string   `json:"license_number"`
}

func (h *ProfileHandler) GetOwnerProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.ownerProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) GetVetProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "vet" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.vetProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateOwnerProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateOwnerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateOwnerProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateOwnerProfile(c.Context(), userID, repository.UpdateOwnerProfileInput{
		FullName:   req.FullName,
		PetName:    req.PetName,
		PetSpecies: req.PetSpecies,
		PetBreed:   req.PetBreed,
		PetAge:     req.PetAge,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateVetProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "vet" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateVetProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateVetProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateVetProfile(c.Context(), userID, repository.UpdateVetProfileInput{
		FullName:      req.FullName,
		ClinicName:    req.ClinicName,
		Bio:           req.Bio,
		Specialties:   req.Specialties,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadOwnerAvatar(c *fiber.Ctx) error {
	return h.uploadAvatar(c, "owner")
}

func (h *ProfileHandler) UploadVetAvatar(c *fiber.Ctx) error {
	return h.uploadAvatar(c, "vet")
}

func (h *ProfileHandler) uploadAvatar(c *fiber.Ctx, expectedRole string) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != expectedRole {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	filename := uuid.NewString() + ext
	folder := expectedRole + "s/avatars"
	avatarURL, err := h.storageService.UploadFile(c.Context(), file, filename, folder)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload avatar"})
	}

	var profile any
	if expectedRole == "owner" {
		currentProfile, err := h.ownerProfileRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		if currentProfile.AvatarURL != nil && *currentProfile.AvatarURL != "" && *currentProfile.AvatarURL != avatarURL {
			_ = h.storageService.DeleteFile(c.Context(), *currentProfile.AvatarURL)
		}
		profile, err = h.profileService.UpdateOwnerProfile(c.Context(), userID, repository.UpdateOwnerProfileInput{
			AvatarURL: &avatarURL,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
	} else {
		currentProfile, err := h.vetProfileRepo.GetByUserID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		if currentProfile.AvatarURL != nil && *currentProfile.AvatarURL != "" && *currentProfile.AvatarURL != avatarURL {
			_ = h.storageService.DeleteFile(c.Context(), *currentProfile.AvatarURL)
		}
		profile, err = h.profileService.UpdateVetProfile(c.Context(), userID, repository.UpdateVetProfileInput{
			AvatarURL: &avatarURL,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDValue, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	userID, err := strconv.ParseInt(userIDValue, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid user id")
	}
	return userID, nil
}
