package services

import (
	"context"
	"fmt"

	"network_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MessageService is the durable message log, backed by the conversation GSI.
type MessageService struct {
	Dynamo *DynamoService
}

// Insert persists one message. Single put, atomic.
func (ms *MessageService) Insert(ctx context.Context, message models.Message) error {
	if err := ms.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// Conversation returns the symmetric union of messages between two users,
// sorted by timestamp ascending. Full history, no pagination.
func (ms *MessageService) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return ms.query(ctx, userA, userB, 0, true)
}

// Latest returns the most recent message between two users, or nil when the
// pair has no history.
func (ms *MessageService) Latest(ctx context.Context, userA, userB string) (*models.Message, error) {
	messages, err := ms.query(ctx, userA, userB, 1, false)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

func (ms *MessageService) query(ctx context.Context, userA, userB string, limit int32, ascending bool) ([]models.Message, error) {
	items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable,
		models.MessagesByConversationIndex,
		"conversationId = :conversationId",
		map[string]types.AttributeValue{
			":conversationId": &types.AttributeValueMemberS{Value: models.ConversationID(userA, userB)},
		},
		limit, ascending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}
