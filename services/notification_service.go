package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"network_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// NotificationService is the append-only ledger of connection-request events.
type NotificationService struct {
	Dynamo *DynamoService
}

// Record appends an unviewed notification with a random id. No dedup at this
// layer.
func (ns *NotificationService) Record(ctx context.Context, recipientID, senderID, message, tag string) (models.Notification, error) {
	notification := models.Notification{
		NotificationID: uuid.NewString(),
		UserID:         recipientID,
		ConnectID:      senderID,
		Message:        message,
		Tag:            tag,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := ns.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

// RecordRequest writes a request notification under the deterministic id
// <tag>#<sender>#<recipient>. The conditional expression admits the write
// only when no record exists or the previous one was already actioned, which
// enforces at-most-one pending request per (sender, recipient, tag) pair
// without a read-then-write race. A lost condition is ErrDuplicateNotification.
func (ns *NotificationService) RecordRequest(ctx context.Context, recipientID, senderID, message, tag string) (models.Notification, error) {
	notification := models.Notification{
		NotificationID: requestID(recipientID, senderID, tag),
		UserID:         recipientID,
		ConnectID:      senderID,
		Message:        message,
		Tag:            tag,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	err := ns.Dynamo.PutItemConditional(ctx, models.NotificationsTable, notification,
		"attribute_not_exists(notificationId) OR viewed = :viewed",
		map[string]types.AttributeValue{
			":viewed": &types.AttributeValueMemberBOOL{Value: true},
		},
	)
	if err == ErrConditionFailed {
		return models.Notification{}, ErrDuplicateNotification
	}
	if err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

// ListUnviewed returns the recipient's pending notifications, oldest first.
func (ns *NotificationService) ListUnviewed(ctx context.Context, userID string) ([]models.Notification, error) {
	items, err := ns.Dynamo.QueryItemsWithIndex(ctx, models.NotificationsTable,
		models.NotificationsByUserIndex,
		"userId = :userId",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
		0, true,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	var all []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &all); err != nil {
		return nil, fmt.Errorf("failed to parse notifications: %w", err)
	}

	unviewed := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if !n.Viewed {
			unviewed = append(unviewed, n)
		}
	}
	return unviewed, nil
}

// Get loads one notification by id.
func (ns *NotificationService) Get(ctx context.Context, notificationID string) (models.Notification, error) {
	item, err := ns.Dynamo.GetItem(ctx, models.NotificationsTable, map[string]types.AttributeValue{
		"notificationId": &types.AttributeValueMemberS{Value: notificationID},
	})
	if err != nil {
		return models.Notification{}, err
	}

	var notification models.Notification
	if err := attributevalue.UnmarshalMap(item, &notification); err != nil {
		return models.Notification{}, fmt.Errorf("failed to parse notification: %w", err)
	}
	return notification, nil
}

// MarkViewed flips viewed to true and returns the updated record. Setting an
// already-viewed record again is a no-op in effect; the flag is never reset
// to false here.
func (ns *NotificationService) MarkViewed(ctx context.Context, notificationID string) (models.Notification, error) {
	attrs, err := ns.Dynamo.UpdateItem(ctx, models.NotificationsTable,
		"SET viewed = :viewed",
		map[string]types.AttributeValue{
			"notificationId": &types.AttributeValueMemberS{Value: notificationID},
		},
		map[string]types.AttributeValue{
			":viewed": &types.AttributeValueMemberBOOL{Value: true},
		},
		nil,
		"notificationId",
	)
	if err != nil {
		return models.Notification{}, err
	}

	var notification models.Notification
	if err := attributevalue.UnmarshalMap(attrs, &notification); err != nil {
		return models.Notification{}, fmt.Errorf("failed to parse notification: %w", err)
	}
	return notification, nil
}

func requestID(recipientID, senderID, tag string) string {
	return strings.ToLower(tag) + "#" + senderID + "#" + recipientID
}
