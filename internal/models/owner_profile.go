package models

import "time"

type OwnerProfile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FullName   *string   `json:"full_name"`
	AvatarURL  *string   `json:"avatar_url"`
	PetName    *string   `json:"pet_name"`
	PetSpecies *string   `json:"pet_species"`
	PetBreed   *string   `json:"pet_breed"`
	PetAge     *int      `json:"pet_age"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
