package repository

import (
	"context"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
)

type VetProfileRepository struct {
	db DBTX
}

func NewVetProfileRepository(db DBTX) *VetProfileRepository {
	return &VetProfileRepository{db: db}
}

type UpdateVetProfileInput struct {
	FullName      *string
	AvatarURL     *string
	ClinicName    *string
	Bio           *string
	Specialties   *[]string
	LicenseNumber *string
}

func (r *VetProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO vet_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *VetProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.VetProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, clinic_name, bio, specialties,
			   license_number, is_verified, created_at, updated_at
		FROM vet_profiles
		WHERE user_id = $1
	`
	var profile models.VetProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.ClinicName,
		&profile.Bio,
		&profile.Specialties,
		&profile.LicenseNumber,
		&profile.IsVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *VetProfileRepository) GetSummaries(
	ctx context.Context,
	userIDs []int64,
) (map[int64]models.ProfileSummary, error) {
	summaries := make(map[int64]models.ProfileSummary, len(userIDs))
	if len(userIDs) == 0 {
		return summaries, nil
	}

	query := `
		SELECT user_id, full_name, avatar_url
		FROM vet_profiles
		WHERE user_id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var summary models.ProfileSummary
		if err := rows.Scan(&summary.UserID, &summary.FullName, &summary.AvatarURL); err != nil {
			return nil, err
		}
		summaries[summary.UserID] = summary
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *VetProfileRepository) ListAll(ctx context.Context) ([]models.VetProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, clinic_name, bio, specialties,
			   license_number, is_verified, created_at, updated_at
		FROM vet_profiles
		ORDER BY full_name NULLS LAST, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.VetProfile, 0)
	for rows.Next() {
		var profile models.VetProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.AvatarURL,
			&profile.ClinicName,
			&profile.Bio,
			&profile.Specialties,
			&profile.LicenseNumber,
			&profile.IsVerified,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *VetProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	req UpdateVetProfileInput,
) (*models.VetProfile, error) {
	query := `
		UPDATE vet_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			clinic_name = COALESCE($3, clinic_name),
			bio = COALESCE($4, bio),
			specialties = COALESCE($5, specialties),
			license_number = COALESCE($6, license_number),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, full_name, avatar_url, clinic_name, bio, specialties,
				  license_number, is_verified, created_at, updated_at
	`
	var profile models.VetProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.ClinicName,
		req.Bio,
		req.Specialties,
		req.LicenseNumber,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.ClinicName,
		&profile.Bio,
		&profile.Specialties,
		&profile.LicenseNumber,
		&profile.IsVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
