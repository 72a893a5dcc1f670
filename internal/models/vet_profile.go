package models

import "time"

type VetProfile struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FullName      *string   `json:"full_name"`
	AvatarURL     *string   `json:"avatar_url"`
	ClinicName    *string   `json:"clinic_name"`
	Bio           *string   `json:"bio"`
	Specialties   *[]string `json:"specialties"`
	LicenseNumber *string   `json:"license_number"`
	IsVerified    *bool     `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VetDirectoryEntry is a vet profile annotated for the directory screen.
type VetDirectoryEntry struct {
	VetProfile
	Online bool `json:"online"`
}
