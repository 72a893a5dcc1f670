package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/bnetpineda/PawScan-sub001/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrVetNotFound      = errors.New("vet not found")
)

// FetchError wraps a failed listing query. The whole listing is retried;
// partial results are never returned.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a failed delete or update after the caller may have
// already applied the change locally.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *MutationError) Unwrap() error { return e.Err }

const (
	PlaceholderOwnerName = "Pet Owner"
	PlaceholderVetName   = "Veterinarian"
)

type conversationStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Conversation, error)
	ListByVet(ctx context.Context, vetID int64) ([]models.Conversation, error)
	CreateOrGet(ctx context.Context, ownerID int64, vetID int64) (*models.Conversation, error)
	GetByIDForParticipant(ctx context.Context, conversationID int64, participantID int64) (*models.Conversation, error)
}

type messageStore interface {
	LatestByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64]models.ChatMessage, error)
	UnreadCounts(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error)
	MarkConversationRead(ctx context.Context, conversationID int64, readerID int64) error
}

type profileDirectory interface {
	GetSummaries(ctx context.Context, userIDs []int64) (map[int64]models.ProfileSummary, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type ChatService struct {
	db            *pgxpool.Pool
	conversations conversationStore
	messages      messageStore
	ownerProfiles profileDirectory
	vetProfiles   profileDirectory
	userRepo      userReader
}

type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	RecipientID  int64
}

func NewChatService(
	db *pgxpool.Pool,
	conversations conversationStore,
	messages messageStore,
	ownerProfiles profileDirectory,
	vetProfiles profileDirectory,
	userRepo userReader,
) *ChatService {
	return &ChatService{
		db:            db,
		conversations: conversations,
		messages:      messages,
		ownerProfiles: ownerProfiles,
		vetProfiles:   vetProfiles,
		userRepo:      userRepo,
	}
}

// ListConversations builds the conversation list for one side of the
// owner/vet relationship. It issues one query for the conversations, then
// three batch fetches (latest message, unread counts, counterpart profiles)
// that run concurrently and are merged in the original order. The query
// count does not grow with the number of conversations.
func (s *ChatService) ListConversations(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.ConversationView, error) {
	if actorID <= 0 {
		return nil, ErrNotAuthenticated
	}
	if role != "owner" && role != "vet" {
		return nil, ErrForbidden
	}

	var conversations []models.Conversation
	var err error
	if role == "owner" {
		conversations, err = s.conversations.ListByOwner(ctx, actorID)
	} else {
		conversations, err = s.conversations.ListByVet(ctx, actorID)
	}
	if err != nil {
		return nil, &FetchError{Op: "list conversations", Err: err}
	}

	views := make([]models.ConversationView, 0, len(conversations))
	if len(conversations) == 0 {
		return views, nil
	}

	conversationIDs := make([]int64, 0, len(conversations))
	counterpartIDs := make([]int64, 0, len(conversations))
	for _, conversation := range conversations {
		conversationIDs = append(conversationIDs, conversation.ID)
		counterpartIDs = append(counterpartIDs, counterpartOf(conversation, role))
	}

	var (
		latest     map[int64]models.ChatMessage
		unread     map[int64]int
		profiles   map[int64]models.ProfileSummary
		profileErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		latest, err = s.messages.LatestByConversationIDs(gctx, conversationIDs)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = s.messages.UnreadCounts(gctx, conversationIDs, actorID)
		return err
	})
	g.Go(func() error {
		// A broken profile join degrades to placeholders instead of
		// failing the listing.
		profiles, profileErr = s.counterpartProfiles(gctx, role, counterpartIDs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &FetchError{Op: "aggregate conversations", Err: err}
	}
	if profileErr != nil {
		log.Printf("chat: counterpart profile lookup degraded: %v", profileErr)
		profiles = nil
	}

	for _, conversation := range conversations {
		counterpartID := counterpartOf(conversation, role)
		view := models.ConversationView{
			ConversationID:  conversation.ID,
			CounterpartID:   counterpartID,
			CounterpartName: placeholderName(role),
			UnreadCount:     unread[conversation.ID],
			LastActivity:    conversation.UpdatedAt,
		}

		if profile, ok := profiles[counterpartID]; ok {
			if profile.FullName != nil && strings.TrimSpace(*profile.FullName) != "" {
				view.CounterpartName = *profile.FullName
			}
			view.CounterpartAvatarURL = profile.AvatarURL
		}

		if message, ok := latest[conversation.ID]; ok {
			latestMessage := message
			view.LastMessage = &latestMessage
		}

		views = append(views, view)
	}

	return views, nil
}

func (s *ChatService) counterpartProfiles(
	ctx context.Context,
	role string,
	counterpartIDs []int64,
) (map[int64]models.ProfileSummary, error) {
	if role == "owner" {
		return s.vetProfiles.GetSummaries(ctx, counterpartIDs)
	}
	return s.ownerProfiles.GetSummaries(ctx, counterpartIDs)
}

func counterpartOf(conversation models.Conversation, role string) int64 {
	if role == "owner" {
		return conversation.VetID
	}
	return conversation.OwnerID
}

func placeholderName(role string) string {
	if role == "owner" {
		return PlaceholderVetName
	}
	return PlaceholderOwnerName
}

func (s *ChatService) CreateConversation(
	ctx context.Context,
	actorID int64,
	role string,
	vetID int64,
) (*models.Conversation, error) {
	if role != "owner" {
		return nil, ErrForbidden
	}
	if vetID <= 0 || vetID == actorID {
		return nil, ErrInvalidInput
	}

	vet, err := s.userRepo.GetByID(ctx, vetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVetNotFound
		}
		return nil, err
	}
	if vet.Role != "vet" {
		return nil, ErrInvalidInput
	}

	return s.conversations.CreateOrGet(ctx, actorID, vetID)
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if role != "owner" && role != "vet" {
		return nil, 0, ErrForbidden
	}
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	_, err := s.conversations.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		return nil, 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	messages, total, err := txMessageRepo.ListByConversation(
		ctx,
		conversationID,
		limit,
		(page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}

	messageIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		messageIDs = append(messageIDs, message.ID)
	}

	if err := txMessageRepo.MarkMessagesRead(ctx, messageIDs, actorID); err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if messages[i].SenderID != actorID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkConversationRead persists the read state the list screen already
// applied locally when the conversation was opened.
func (s *ChatService) MarkConversationRead(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
) error {
	if role != "owner" && role != "vet" {
		return ErrForbidden
	}
	if conversationID <= 0 {
		return ErrInvalidInput
	}

	if _, err := s.conversations.GetByIDForParticipant(ctx, conversationID, actorID); err != nil {
		return err
	}

	if err := s.messages.MarkConversationRead(ctx, conversationID, actorID); err != nil {
		return &MutationError{Op: "mark conversation read", Err: err}
	}
	return nil
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	content string,
) (*ChatDelivery, error) {
	if role != "owner" && role != "vet" {
		return nil, ErrForbidden
	}
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversations.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	recipientID := conversation.OwnerID
	if actorID == conversation.OwnerID {
		recipientID = conversation.VetID
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, conversationID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  recipientID,
	}, nil
}

// DeleteConversation removes a conversation and its messages. Messages go
// first, then the conversation row, inside one transaction.
func (s *ChatService) DeleteConversation(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
) error {
	if role != "owner" && role != "vet" {
		return ErrForbidden
	}
	if conversationID <= 0 {
		return ErrInvalidInput
	}

	if _, err := s.conversations.GetByIDForParticipant(ctx, conversationID, actorID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &MutationError{Op: "delete conversation", Err: err}
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	if err := txMessageRepo.DeleteByConversation(ctx, conversationID); err != nil {
		return &MutationError{Op: "delete conversation", Err: err}
	}
	if err := txConversationRepo.Delete(ctx, conversationID); err != nil {
		return &MutationError{Op: "delete conversation", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &MutationError{Op: "delete conversation", Err: err}
	}

	return nil
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
