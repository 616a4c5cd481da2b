package services

import (
	"context"
	"fmt"

	"network_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConnectionService maintains the per-user connection records.
type ConnectionService struct {
	Dynamo *DynamoService
}

// AddConnection appends peerID to userID's connection list with find-or-create
// semantics. Returns false when the edge already exists; the write is skipped
// so duplicates are never stored.
func (cs *ConnectionService) AddConnection(ctx context.Context, userID, peerID string) (bool, error) {
	record, found, err := cs.getRecord(ctx, userID)
	if err != nil {
		return false, err
	}
	if !found {
		record = models.Connection{UserID: userID}
	}

	for _, id := range record.UserConnection {
		if id == peerID {
			return false, nil
		}
	}

	record.UserConnection = append(record.UserConnection, peerID)
	if err := cs.Dynamo.PutItem(ctx, models.ConnectionsTable, record); err != nil {
		return false, fmt.Errorf("failed to persist connection for %s: %w", userID, err)
	}
	return true, nil
}

// GetConnections returns the peer ids for a user. The found flag
// distinguishes "no record" from an existing record with an empty list;
// callers treat both as zero connections.
func (cs *ConnectionService) GetConnections(ctx context.Context, userID string) ([]string, bool, error) {
	record, found, err := cs.getRecord(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return record.UserConnection, found, nil
}

func (cs *ConnectionService) getRecord(ctx context.Context, userID string) (models.Connection, bool, error) {
	item, err := cs.Dynamo.GetItem(ctx, models.ConnectionsTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err == ErrNotFound {
		return models.Connection{}, false, nil
	}
	if err != nil {
		return models.Connection{}, false, err
	}

	var record models.Connection
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return models.Connection{}, false, fmt.Errorf("failed to parse connection record: %w", err)
	}
	return record, true, nil
}
