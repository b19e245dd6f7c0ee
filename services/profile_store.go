package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pairplan_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileStore is the document-store surface the account, linker and event
// flows need. DynamoProfileStore is the production implementation; tests use
// in-memory fakes.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, emailID string) (*models.UserProfile, error)
	GetByShareCode(ctx context.Context, shareCode string) (*models.UserProfile, error)
	Put(ctx context.Context, profile models.UserProfile) error
	// Update applies a partial update. String and bool values map to SET;
	// nil values map to REMOVE.
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error)
	// ListLinked returns every profile currently flagged as connected.
	ListLinked(ctx context.Context) ([]models.UserProfile, error)
}

// DynamoProfileStore persists user profiles in the UserProfiles table.
type DynamoProfileStore struct {
	Dynamo *DynamoService
}

func (s *DynamoProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *DynamoProfileStore) GetByEmail(ctx context.Context, emailID string) (*models.UserProfile, error) {
	return s.queryOne(ctx, models.EmailIndex, "emailId = :v",
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: emailID},
		})
}

func (s *DynamoProfileStore) GetByShareCode(ctx context.Context, shareCode string) (*models.UserProfile, error) {
	return s.queryOne(ctx, models.ShareCodeIndex, "shareCode = :v",
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: shareCode},
		})
}

func (s *DynamoProfileStore) queryOne(ctx context.Context, index, keyCondition string, values map[string]types.AttributeValue) (*models.UserProfile, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, index, keyCondition, values, nil, "")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *DynamoProfileStore) Put(ctx context.Context, profile models.UserProfile) error {
	return s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
}

func (s *DynamoProfileStore) Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	var sets, removes []string
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		attributeName := "#" + k
		expressionAttributeNames[attributeName] = k

		if v == nil {
			removes = append(removes, attributeName)
			continue
		}

		placeholder := ":" + k
		switch val := v.(type) {
		case string:
			expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: val}
		case bool:
			expressionAttributeValues[placeholder] = &types.AttributeValueMemberBOOL{Value: val}
		default:
			return nil, fmt.Errorf("unsupported update value for '%s'", k)
		}
		sets = append(sets, attributeName+" = "+placeholder)
	}

	var parts []string
	if len(sets) > 0 {
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(removes, ", "))
	}
	updateExpression := strings.Join(parts, " ")

	updated, err := s.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(updated, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &profile, nil
}

func (s *DynamoProfileStore) ListLinked(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable,
		"isConnected = :c",
		map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberBOOL{Value: true},
		}, nil, &profiles)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
