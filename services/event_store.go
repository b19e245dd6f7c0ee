package services

import (
	"context"
	"errors"
	"fmt"

	"pairplan_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EventStore is the document-store surface for calendar events.
type EventStore interface {
	Get(ctx context.Context, eventID string) (*models.Event, error)
	Put(ctx context.Context, event models.Event) error
	// UpdateStatus transitions an event out of pending. A non-pending
	// current status fails with ErrTerminal so concurrent responses cannot
	// overwrite each other.
	UpdateStatus(ctx context.Context, eventID, status string) (*models.Event, error)
	Delete(ctx context.Context, eventID string) error
	ListByOwner(ctx context.Context, userID string) ([]models.Event, error)
	ListPendingForRecipient(ctx context.Context, userID string) ([]models.Event, error)
}

// DynamoEventStore persists events in the Events table. Owner and recipient
// lookups go through GSIs; the pending list is the recipient index filtered
// on status.
type DynamoEventStore struct {
	Dynamo *DynamoService
}

func (s *DynamoEventStore) Get(ctx context.Context, eventID string) (*models.Event, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.Event{}.TableName(), key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
		}
		return nil, err
	}

	var event models.Event
	if err := attributevalue.UnmarshalMap(item, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}

func (s *DynamoEventStore) Put(ctx context.Context, event models.Event) error {
	return s.Dynamo.PutItem(ctx, models.Event{}.TableName(), event)
}

func (s *DynamoEventStore) UpdateStatus(ctx context.Context, eventID, status string) (*models.Event, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	updateExpression := "SET #s = :status"
	conditionExpression := "#s = :pending"
	expressionValues := map[string]types.AttributeValue{
		":status":  &types.AttributeValueMemberS{Value: status},
		":pending": &types.AttributeValueMemberS{Value: models.EventStatusPending},
	}
	expressionNames := map[string]string{
		"#s": "status",
	}

	updated, err := s.Dynamo.UpdateItemWithCondition(ctx, models.Event{}.TableName(), updateExpression, conditionExpression, key, expressionValues, expressionNames)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrTerminal)
		}
		return nil, err
	}

	var event models.Event
	if err := attributevalue.UnmarshalMap(updated, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated event: %w", err)
	}
	return &event, nil
}

func (s *DynamoEventStore) Delete(ctx context.Context, eventID string) error {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	return s.Dynamo.DeleteItem(ctx, models.Event{}.TableName(), key)
}

func (s *DynamoEventStore) ListByOwner(ctx context.Context, userID string) ([]models.Event, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.Event{}.TableName(), models.EventOwnerIndex,
		"userId = :u",
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		}, nil, "")
	if err != nil {
		return nil, err
	}
	return unmarshalEvents(items)
}

func (s *DynamoEventStore) ListPendingForRecipient(ctx context.Context, userID string) ([]models.Event, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.Event{}.TableName(), models.EventRecipientIndex,
		"recipientId = :r",
		map[string]types.AttributeValue{
			":r": &types.AttributeValueMemberS{Value: userID},
			":p": &types.AttributeValueMemberS{Value: models.EventStatusPending},
		},
		map[string]string{"#s": "status"},
		"#s = :p")
	if err != nil {
		return nil, err
	}
	return unmarshalEvents(items)
}

func unmarshalEvents(items []map[string]types.AttributeValue) ([]models.Event, error) {
	var events []models.Event
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}
