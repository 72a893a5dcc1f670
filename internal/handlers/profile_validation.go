package handlers

import (
	"strings"
)

var allowedPetSpecies = map[string]struct{}{
	"dog":     {},
	"cat":     {},
	"bird":    {},
	"rabbit":  {},
	"reptile": {},
	"other":   {},
}

func validateOwnerProfileUpdateRequest(req updateOwnerProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.PetName != nil && strings.TrimSpace(*req.PetName) == "" {
		return "pet_name must not be empty"
	}
	if req.PetSpecies != nil {
		if _, ok := allowedPetSpecies[strings.ToLower(strings.TrimSpace(*req.PetSpecies))]; !ok {
			return "pet_species must be one of: dog, cat, bird, rabbit, reptile, other"
		}
	}
	if req.PetBreed != nil && strings.TrimSpace(*req.PetBreed) == "" {
		return "pet_breed must not be empty"
	}
	if req.PetAge != nil && *req.PetAge < 0 {
		return "pet_age must be 0 or greater"
	}
	return ""
}

func validateVetProfileUpdateRequest(req updateVetProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.ClinicName != nil && strings.TrimSpace(*req.ClinicName) == "" {
		return "clinic_name must not be empty"
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) == "" {
		return "bio must not be empty"
	}
	if req.Specialties != nil {
		for _, specialty := range *req.Specialties {
			if strings.TrimSpace(specialty) == "" {
				return "specialties must not contain empty values"
			}
		}
	}
	if req.LicenseNumber != nil && strings.TrimSpace(*req.LicenseNumber) == "" {
		return "license_number must not be empty"
	}
	return ""
}
