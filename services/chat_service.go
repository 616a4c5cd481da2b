package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"network_server/models"

	"github.com/google/uuid"
)

// PlaceholderRecentMessage is returned for connections with no history yet.
const PlaceholderRecentMessage = "Start the conversation now..."

// MessageStore is the durable message log the chat layer runs on. The
// recent-summary fan-out goes through Latest so a single aggregate query can
// be substituted behind the same interface at larger connection counts.
type MessageStore interface {
	Insert(ctx context.Context, message models.Message) error
	Conversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	Latest(ctx context.Context, userA, userB string) (*models.Message, error)
}

// ConnectionLister resolves a user's peer ids for the recent-summary fan-out.
type ConnectionLister interface {
	GetConnections(ctx context.Context, userID string) ([]string, bool, error)
}

// RecentSummary is the most recent exchange with one connection. Time is nil
// when the pair has never messaged.
type RecentSummary struct {
	ConnectionID  string  `json:"connectionId"`
	RecentMessage string  `json:"recentMessage"`
	Time          *string `json:"time"`
}

// ChatService handles the durable side of messaging; the live fan-out happens
// in the socket relay after the durable write succeeds.
type ChatService struct {
	Messages    MessageStore
	Connections ConnectionLister
}

// SendMessage validates, stamps and persists a message.
func (cs *ChatService) SendMessage(ctx context.Context, sender, receiver, content string) (models.Message, error) {
	if sender == "" || receiver == "" || content == "" {
		return models.Message{}, fmt.Errorf("%w: sender, receiver and content are required", ErrValidation)
	}

	message := models.Message{
		MessageID:      uuid.NewString(),
		ConversationID: models.ConversationID(sender, receiver),
		Sender:         sender,
		Receiver:       receiver,
		Content:        content,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := cs.Messages.Insert(ctx, message); err != nil {
		return models.Message{}, err
	}
	return message, nil
}

// History returns the full conversation between two users, oldest first.
func (cs *ChatService) History(ctx context.Context, sender, receiver string) ([]models.Message, error) {
	if sender == "" || receiver == "" {
		return nil, fmt.Errorf("%w: sender and receiver are required", ErrValidation)
	}
	return cs.Messages.Conversation(ctx, sender, receiver)
}

// RecentMessages resolves the latest message with each of the user's
// connections. One query per peer; a peer whose lookup fails is reported
// with the placeholder rather than failing the whole summary.
func (cs *ChatService) RecentMessages(ctx context.Context, userID string) ([]RecentSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	peers, _, err := cs.Connections.GetConnections(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecentSummary, 0, len(peers))
	for _, peer := range peers {
		summary := RecentSummary{ConnectionID: peer, RecentMessage: PlaceholderRecentMessage}

		latest, err := cs.Messages.Latest(ctx, userID, peer)
		if err != nil {
			log.Printf("Failed to fetch recent message with %s: %v", peer, err)
		} else if latest != nil {
			summary.RecentMessage = latest.Content
			t := latest.CreatedAt
			summary.Time = &t
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
