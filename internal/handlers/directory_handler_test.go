package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/gofiber/fiber/v2"
)

type stubVetDirectory struct {
	result          []models.VetDirectoryEntry
	err             error
	lastOwnerID     int64
	lastQuery       string
	lastExcludeFlag bool
}

func (s *stubVetDirectory) ListVets(_ context.Context, ownerID int64, query string, excludeExisting bool) ([]models.VetDirectoryEntry, error) {
	s.lastOwnerID = ownerID
	s.lastQuery = query
	s.lastExcludeFlag = excludeExisting
	return s.result, s.err
}

func directoryTestApp(directory *stubVetDirectory, role string, userID string) *fiber.App {
	handler := NewDirectoryHandler(directory)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/api/v1/vets", handler.ListVets)
	return app
}

func TestListVetsForwardsQueryAndFlag(t *testing.T) {
	fullName := "Dr. Smith"
	directory := &stubVetDirectory{
		result: []models.VetDirectoryEntry{
			{VetProfile: models.VetProfile{UserID: 101, FullName: &fullName}, Online: true},
		},
	}
	app := directoryTestApp(directory, "owner", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vets?q=smith&for_new_chat=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if directory.lastOwnerID != 42 || directory.lastQuery != "smith" || !directory.lastExcludeFlag {
		t.Fatalf("unexpected forwarding: owner=%d query=%q exclude=%v", directory.lastOwnerID, directory.lastQuery, directory.lastExcludeFlag)
	}

	var body struct {
		Vets []models.VetDirectoryEntry `json:"vets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Vets) != 1 || !body.Vets[0].Online {
		t.Fatalf("unexpected response: %+v", body.Vets)
	}
}

func TestListVetsForbiddenForVets(t *testing.T) {
	app := directoryTestApp(&stubVetDirectory{}, "vet", "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vets", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
