package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/jackc/pgx/v5"
)

type stubConversationStore struct {
	listResult  []models.Conversation
	listErr     error
	listCalls   int
	createdConv *models.Conversation
	getResult   *models.Conversation
	getErr      error
}

func (s *stubConversationStore) ListByOwner(_ context.Context, _ int64) ([]models.Conversation, error) {
	s.listCalls++
	return s.listResult, s.listErr
}

func (s *stubConversationStore) ListByVet(_ context.Context, _ int64) ([]models.Conversation, error) {
	s.listCalls++
	return s.listResult, s.listErr
}

func (s *stubConversationStore) CreateOrGet(_ context.Context, ownerID int64, vetID int64) (*models.Conversation, error) {
	if s.createdConv != nil {
		return s.createdConv, nil
	}
	return &models.Conversation{ID: 1, OwnerID: ownerID, VetID: vetID}, nil
}

func (s *stubConversationStore) GetByIDForParticipant(_ context.Context, _ int64, _ int64) (*models.Conversation, error) {
	return s.getResult, s.getErr
}

type stubMessageStore struct {
	latest        map[int64]models.ChatMessage
	latestErr     error
	latestCalls   int
	unread        map[int64]int
	unreadErr     error
	unreadCalls   int
	markReadErr   error
	markReadCalls int
}

func (s *stubMessageStore) LatestByConversationIDs(_ context.Context, _ []int64) (map[int64]models.ChatMessage, error) {
	s.latestCalls++
	return s.latest, s.latestErr
}

func (s *stubMessageStore) UnreadCounts(_ context.Context, _ []int64, _ int64) (map[int64]int, error) {
	s.unreadCalls++
	return s.unread, s.unreadErr
}

func (s *stubMessageStore) MarkConversationRead(_ context.Context, _ int64, _ int64) error {
	s.markReadCalls++
	return s.markReadErr
}

type stubProfileDirectory struct {
	summaries map[int64]models.ProfileSummary
	err       error
	calls     int
}

func (s *stubProfileDirectory) GetSummaries(_ context.Context, _ []int64) (map[int64]models.ProfileSummary, error) {
	s.calls++
	return s.summaries, s.err
}

type stubUserReader struct {
	user *models.User
	err  error
}

func (s *stubUserReader) GetByID(_ context.Context, _ int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func strPtr(value string) *string { return &value }

func buildChatService(
	conversations *stubConversationStore,
	messages *stubMessageStore,
	ownerProfiles *stubProfileDirectory,
	vetProfiles *stubProfileDirectory,
) *ChatService {
	return NewChatService(nil, conversations, messages, ownerProfiles, vetProfiles, &stubUserReader{})
}

func TestListConversationsRequiresIdentity(t *testing.T) {
	service := buildChatService(&stubConversationStore{}, &stubMessageStore{}, &stubProfileDirectory{}, &stubProfileDirectory{})

	if _, err := service.ListConversations(context.Background(), 0, "owner"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := service.ListConversations(context.Background(), 42, "admin"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListConversationsPreservesOrderAndCompleteness(t *testing.T) {
	now := time.Now().UTC()
	conversations := &stubConversationStore{
		listResult: []models.Conversation{
			{ID: 30, OwnerID: 42, VetID: 9, UpdatedAt: now},
			{ID: 20, OwnerID: 42, VetID: 8, UpdatedAt: now.Add(-time.Hour)},
			{ID: 10, OwnerID: 42, VetID: 7, UpdatedAt: now.Add(-2 * time.Hour)},
		},
	}
	messages := &stubMessageStore{
		latest: map[int64]models.ChatMessage{
			20: {ID: 5, ConversationID: 20, SenderID: 8, Content: "See you soon", CreatedAt: now.Add(-time.Hour)},
		},
		unread: map[int64]int{20: 4},
	}
	vetProfiles := &stubProfileDirectory{
		summaries: map[int64]models.ProfileSummary{
			7: {UserID: 7, FullName: strPtr("Dr. Cruz")},
			8: {UserID: 8, FullName: strPtr("Dr. Reyes")},
			9: {UserID: 9, FullName: strPtr("Dr. Santos")},
		},
	}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, vetProfiles)

	views, err := service.ListConversations(context.Background(), 42, "owner")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	for i, wantID := range []int64{30, 20, 10} {
		if views[i].ConversationID != wantID {
			t.Fatalf("expected conversation %d at index %d, got %d", wantID, i, views[i].ConversationID)
		}
	}
	for i := 1; i < len(views); i++ {
		if views[i-1].LastActivity.Before(views[i].LastActivity) {
			t.Fatalf("list not ordered by last activity at index %d", i)
		}
	}

	if views[0].LastMessage != nil || views[0].UnreadCount != 0 {
		t.Fatalf("conversation without messages should have nil last message and zero unread, got %+v", views[0])
	}
	if views[1].LastMessage == nil || views[1].LastMessage.Content != "See you soon" {
		t.Fatalf("unexpected last message: %+v", views[1].LastMessage)
	}
	if views[1].UnreadCount != 4 {
		t.Fatalf("expected 4 unread, got %d", views[1].UnreadCount)
	}
	if views[0].CounterpartName != "Dr. Santos" {
		t.Fatalf("expected counterpart name Dr. Santos, got %q", views[0].CounterpartName)
	}
}

func TestListConversationsIssuesConstantQueryCount(t *testing.T) {
	now := time.Now().UTC()
	listResult := make([]models.Conversation, 0, 25)
	for i := int64(1); i <= 25; i++ {
		listResult = append(listResult, models.Conversation{
			ID:        i,
			OwnerID:   42,
			VetID:     100 + i,
			UpdatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	conversations := &stubConversationStore{listResult: listResult}
	messages := &stubMessageStore{}
	vetProfiles := &stubProfileDirectory{}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, vetProfiles)

	if _, err := service.ListConversations(context.Background(), 42, "owner"); err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	if conversations.listCalls != 1 || messages.latestCalls != 1 || messages.unreadCalls != 1 || vetProfiles.calls != 1 {
		t.Fatalf(
			"expected exactly one call per batch, got list=%d latest=%d unread=%d profiles=%d",
			conversations.listCalls, messages.latestCalls, messages.unreadCalls, vetProfiles.calls,
		)
	}
}

func TestListConversationsDegradesMissingProfiles(t *testing.T) {
	conversations := &stubConversationStore{
		listResult: []models.Conversation{
			{ID: 1, OwnerID: 42, VetID: 7, UpdatedAt: time.Now().UTC()},
		},
	}
	vetProfiles := &stubProfileDirectory{summaries: map[int64]models.ProfileSummary{}}
	service := buildChatService(conversations, &stubMessageStore{}, &stubProfileDirectory{}, vetProfiles)

	views, err := service.ListConversations(context.Background(), 42, "owner")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("degraded profile must not drop the row, got %d views", len(views))
	}
	if views[0].CounterpartName != PlaceholderVetName {
		t.Fatalf("expected placeholder %q, got %q", PlaceholderVetName, views[0].CounterpartName)
	}
	if views[0].CounterpartAvatarURL != nil {
		t.Fatalf("expected nil avatar for missing profile")
	}
}

func TestListConversationsSurvivesProfileBatchFailure(t *testing.T) {
	conversations := &stubConversationStore{
		listResult: []models.Conversation{
			{ID: 1, OwnerID: 5, VetID: 42, UpdatedAt: time.Now().UTC()},
		},
	}
	ownerProfiles := &stubProfileDirectory{err: errors.New("permission denied")}
	service := buildChatService(conversations, &stubMessageStore{}, ownerProfiles, &stubProfileDirectory{})

	views, err := service.ListConversations(context.Background(), 42, "vet")
	if err != nil {
		t.Fatalf("profile batch failure must not fail the listing: %v", err)
	}
	if len(views) != 1 || views[0].CounterpartName != PlaceholderOwnerName {
		t.Fatalf("expected placeholder %q row, got %+v", PlaceholderOwnerName, views)
	}
}

func TestListConversationsWrapsBatchFailure(t *testing.T) {
	cause := errors.New("connection reset")
	conversations := &stubConversationStore{
		listResult: []models.Conversation{
			{ID: 1, OwnerID: 42, VetID: 7, UpdatedAt: time.Now().UTC()},
		},
	}
	messages := &stubMessageStore{latestErr: cause}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, &stubProfileDirectory{})

	_, err := service.ListConversations(context.Background(), 42, "owner")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestListConversationsScenario(t *testing.T) {
	now := time.Now().UTC()
	// Vet C updated just now with no profile row, B an hour ago, A three
	// days ago with two unread.
	conversations := &stubConversationStore{
		listResult: []models.Conversation{
			{ID: 3, OwnerID: 42, VetID: 103, UpdatedAt: now},
			{ID: 2, OwnerID: 42, VetID: 102, UpdatedAt: now.Add(-time.Hour)},
			{ID: 1, OwnerID: 42, VetID: 101, UpdatedAt: now.Add(-72 * time.Hour)},
		},
	}
	messages := &stubMessageStore{
		latest: map[int64]models.ChatMessage{
			1: {ID: 11, ConversationID: 1, SenderID: 101, Content: "How is Bella?", CreatedAt: now.Add(-72 * time.Hour)},
			2: {ID: 12, ConversationID: 2, SenderID: 42, Content: "Thanks doc", CreatedAt: now.Add(-time.Hour)},
			3: {ID: 13, ConversationID: 3, SenderID: 103, Content: "Send a photo", CreatedAt: now},
		},
		unread: map[int64]int{1: 2, 3: 1},
	}
	vetProfiles := &stubProfileDirectory{
		summaries: map[int64]models.ProfileSummary{
			101: {UserID: 101, FullName: strPtr("Dr. Aquino")},
			102: {UserID: 102, FullName: strPtr("Dr. Bautista")},
		},
	}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, vetProfiles)

	views, err := service.ListConversations(context.Background(), 42, "owner")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	for i, wantID := range []int64{3, 2, 1} {
		if views[i].ConversationID != wantID {
			t.Fatalf("expected conversation %d at index %d, got %d", wantID, i, views[i].ConversationID)
		}
	}
	if views[0].CounterpartName != PlaceholderVetName {
		t.Fatalf("expected placeholder for missing vet profile, got %q", views[0].CounterpartName)
	}
	totalUnread := 0
	for _, view := range views {
		totalUnread += view.UnreadCount
	}
	if totalUnread != 3 {
		t.Fatalf("expected 3 unread across the list, got %d", totalUnread)
	}
}

func TestCreateConversationValidatesVet(t *testing.T) {
	conversations := &stubConversationStore{}
	service := NewChatService(nil, conversations, &stubMessageStore{}, &stubProfileDirectory{}, &stubProfileDirectory{}, &stubUserReader{err: pgx.ErrNoRows})

	if _, err := service.CreateConversation(context.Background(), 42, "vet", 7); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for vet initiator, got %v", err)
	}
	if _, err := service.CreateConversation(context.Background(), 42, "owner", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.CreateConversation(context.Background(), 42, "owner", 7); !errors.Is(err, ErrVetNotFound) {
		t.Fatalf("expected ErrVetNotFound, got %v", err)
	}
}

func TestCreateConversationRejectsNonVetTarget(t *testing.T) {
	service := NewChatService(
		nil,
		&stubConversationStore{},
		&stubMessageStore{},
		&stubProfileDirectory{},
		&stubProfileDirectory{},
		&stubUserReader{user: &models.User{ID: 7, Role: "owner"}},
	)

	if _, err := service.CreateConversation(context.Background(), 42, "owner", 7); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-vet target, got %v", err)
	}
}

func TestCreateConversationReturnsExisting(t *testing.T) {
	existing := &models.Conversation{ID: 99, OwnerID: 42, VetID: 7}
	service := NewChatService(
		nil,
		&stubConversationStore{createdConv: existing},
		&stubMessageStore{},
		&stubProfileDirectory{},
		&stubProfileDirectory{},
		&stubUserReader{user: &models.User{ID: 7, Role: "vet"}},
	)

	conversation, err := service.CreateConversation(context.Background(), 42, "owner", 7)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if conversation.ID != 99 {
		t.Fatalf("expected existing conversation 99, got %d", conversation.ID)
	}
}

func TestMarkConversationReadChecksMembership(t *testing.T) {
	conversations := &stubConversationStore{getErr: pgx.ErrNoRows}
	messages := &stubMessageStore{}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, &stubProfileDirectory{})

	if err := service.MarkConversationRead(context.Background(), 42, "owner", 9); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for non-participant, got %v", err)
	}
	if messages.markReadCalls != 0 {
		t.Fatalf("mark-read must not run without membership, got %d calls", messages.markReadCalls)
	}
}

func TestMarkConversationReadWrapsMutationFailure(t *testing.T) {
	conversations := &stubConversationStore{getResult: &models.Conversation{ID: 9, OwnerID: 42, VetID: 7}}
	messages := &stubMessageStore{markReadErr: errors.New("deadlock detected")}
	service := buildChatService(conversations, messages, &stubProfileDirectory{}, &stubProfileDirectory{})

	err := service.MarkConversationRead(context.Background(), 42, "owner", 9)
	var mutationErr *MutationError
	if !errors.As(err, &mutationErr) {
		t.Fatalf("expected MutationError, got %v", err)
	}
}
