package services

import (
	"context"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
)

type vetLister interface {
	ListAll(ctx context.Context) ([]models.VetProfile, error)
}

type ownerConversationLister interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Conversation, error)
}

type presenceChecker interface {
	OnlineStatuses(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

// DirectoryService backs the vet directory and the "start new chat" picker.
type DirectoryService struct {
	vets          vetLister
	conversations ownerConversationLister
	presence      presenceChecker
}

func NewDirectoryService(
	vets vetLister,
	conversations ownerConversationLister,
	presence presenceChecker,
) *DirectoryService {
	return &DirectoryService{
		vets:          vets,
		conversations: conversations,
		presence:      presence,
	}
}

// ListVets returns the vet directory for an owner. With excludeExisting set
// (the new-chat flow), vets who already share a conversation with the owner
// are removed before the text filter runs, so a duplicate conversation can
// never be started from the picker.
func (s *DirectoryService) ListVets(
	ctx context.Context,
	ownerID int64,
	query string,
	excludeExisting bool,
) ([]models.VetDirectoryEntry, error) {
	if ownerID <= 0 {
		return nil, ErrNotAuthenticated
	}

	vets, err := s.vets.ListAll(ctx)
	if err != nil {
		return nil, &FetchError{Op: "list vets", Err: err}
	}

	if excludeExisting {
		conversations, err := s.conversations.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, &FetchError{Op: "list conversations", Err: err}
		}
		existing := make(map[int64]struct{}, len(conversations))
		for _, conversation := range conversations {
			existing[conversation.VetID] = struct{}{}
		}

		remaining := make([]models.VetProfile, 0, len(vets))
		for _, vet := range vets {
			if _, ok := existing[vet.UserID]; !ok {
				remaining = append(remaining, vet)
			}
		}
		vets = remaining
	}

	vets = FilterByFields(vets, query, func(vet models.VetProfile) []string {
		fields := make([]string, 0, 2)
		if vet.FullName != nil {
			fields = append(fields, *vet.FullName)
		}
		if vet.ClinicName != nil {
			fields = append(fields, *vet.ClinicName)
		}
		return fields
	})

	online := map[int64]bool{}
	if s.presence != nil && len(vets) > 0 {
		userIDs := make([]int64, 0, len(vets))
		for _, vet := range vets {
			userIDs = append(userIDs, vet.UserID)
		}
		statuses, err := s.presence.OnlineStatuses(ctx, userIDs)
		if err == nil {
			online = statuses
		}
	}

	entries := make([]models.VetDirectoryEntry, 0, len(vets))
	for _, vet := range vets {
		entries = append(entries, models.VetDirectoryEntry{
			VetProfile: vet,
			Online:     online[vet.UserID],
		})
	}

	return entries, nil
}
