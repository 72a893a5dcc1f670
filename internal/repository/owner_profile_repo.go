package repository

import (
	"context"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
)

type OwnerProfileRepository struct {
	db DBTX
}

func NewOwnerProfileRepository(db DBTX) *OwnerProfileRepository {
	return &OwnerProfileRepository{db: db}
}

type UpdateOwnerProfileInput struct {
	FullName   *string
	AvatarURL  *string
	PetName    *string
	PetSpecies *string
	PetBreed   *string
	PetAge     *int
}

func (r *OwnerProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO owner_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *OwnerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.OwnerProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, pet_name, pet_species, pet_breed, pet_age,
			   created_at, updated_at
		FROM owner_profiles
		WHERE user_id = $1
	`
	var profile models.OwnerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.PetName,
		&profile.PetSpecies,
		&profile.PetBreed,
		&profile.PetAge,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetSummaries batch-fetches display data for a set of owners. Missing rows
// are simply absent from the result, never an error.
func (r *OwnerProfileRepository) GetSummaries(
	ctx context.Context,
	userIDs []int64,
) (map[int64]models.ProfileSummary, error) {
	summaries := make(map[int64]models.ProfileSummary, len(userIDs))
	if len(userIDs) == 0 {
		return summaries, nil
	}

	query := `
		SELECT user_id, full_name, avatar_url
		FROM owner_profiles
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

func (r *OwnerProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	req UpdateOwnerProfileInput,
) (*models.OwnerProfile, error) {
	query := `
		UPDATE owner_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			pet_name = COALESCE($3, pet_name),
			pet_species = COALESCE($4, pet_species),
			pet_breed = COALESCE($5, pet_breed),
			pet_age = COALESCE($6, pet_age),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, full_name, avatar_url, pet_name, pet_species, pet_breed, pet_age,
				  created_at, updated_at
	`
	var profile models.OwnerProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.PetName,
		req.PetSpecies,
		req.PetBreed,
		req.PetAge,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.PetName,
		&profile.PetSpecies,
		&profile.PetBreed,
		&profile.PetAge,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
