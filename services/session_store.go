package services

import (
	"context"
	"errors"
	"fmt"

	"pairplan_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SessionStore persists login sessions.
type SessionStore interface {
	Put(ctx context.Context, session models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// DynamoSessionStore keeps sessions in the Sessions table, keyed by token.
type DynamoSessionStore struct {
	Dynamo *DynamoService
}

func (s *DynamoSessionStore) Put(ctx context.Context, session models.Session) error {
	return s.Dynamo.PutItem(ctx, models.SessionsTable, session)
}

func (s *DynamoSessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	key := map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: token},
	}

	item, err := s.Dynamo.GetItem(ctx, models.SessionsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, err
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *DynamoSessionStore) Delete(ctx context.Context, token string) error {
	key := map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: token},
	}
	return s.Dynamo.DeleteItem(ctx, models.SessionsTable, key)
}
