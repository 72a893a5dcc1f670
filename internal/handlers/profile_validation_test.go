package handlers

import "testing"

func TestValidateOwnerProfileUpdateRequest(t *testing.T) {
	name := "Jane"
	empty := "   "
	badSpecies := "dinosaur"
	goodSpecies := "Cat"
	negativeAge := -1

	if msg := validateOwnerProfileUpdateRequest(updateOwnerProfileRequest{FullName: &name, PetSpecies: &goodSpecies}); msg != "" {
		t.Fatalf("valid request rejected: %q", msg)
	}
	if msg := validateOwnerProfileUpdateRequest(updateOwnerProfileRequest{FullName: &empty}); msg == "" {
		t.Fatalf("blank full_name accepted")
	}
	if msg := validateOwnerProfileUpdateRequest(updateOwnerProfileRequest{PetSpecies: &badSpecies}); msg == "" {
		t.Fatalf("unknown pet_species accepted")
	}
	if msg := validateOwnerProfileUpdateRequest(updateOwnerProfileRequest{PetAge: &negativeAge}); msg == "" {
		t.Fatalf("negative pet_age accepted")
	}
}

func TestValidateVetProfileUpdateRequest(t *testing.T) {
	clinic := "Happy Paws"
	empty := ""
	specialties := []string{"surgery", " "}

	if msg := validateVetProfileUpdateRequest(updateVetProfileRequest{ClinicName: &clinic}); msg != "" {
		t.Fatalf("valid request rejected: %q", msg)
	}
	if msg := validateVetProfileUpdateRequest(updateVetProfileRequest{LicenseNumber: &empty}); msg == "" {
		t.Fatalf("blank license_number accepted")
	}
	if msg := validateVetProfileUpdateRequest(updateVetProfileRequest{Specialties: &specialties}); msg == "" {
		t.Fatalf("blank specialty accepted")
	}
}
