package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_api/internal/common"
	"user_api/internal/domain/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserRepository interface {
	// Create writes the user with a conditional put. The condition is
	// the authoritative uniqueness guard; a conditional failure is
	// returned as common.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmailPrefix queries the email index. An empty prefix
	// matches every user; limit bounds the result count.
	FindByEmailPrefix(ctx context.Context, prefix string, limit int32) ([]model.User, error)
	Update(ctx context.Context, id string, fields UpdateFields) error
	Delete(ctx context.Context, id string) error
}

// UpdateFields is the typed set of attributes applied by Update. A nil
// VerifiedDate leaves the stored attribute untouched.
type UpdateFields struct {
	Fullname     string
	Verified     bool
	VerifiedDate *time.Time
	UpdatedAt    time.Time
}

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type dynamoUserRepository struct {
	client DynamoDBAPI
	table  string
	index  string
}

func NewDynamoUserRepository(client DynamoDBAPI, table, index string) UserRepository {
	return &dynamoUserRepository{client: client, table: table, index: index}
}

// userItem is the storage shape of a user record.
type userItem struct {
	PK           string   `dynamodbav:"pk"`
	SK           string   `dynamodbav:"sk"`
	GS1SK        string   `dynamodbav:"gs1sk"`
	Email        string   `dynamodbav:"email"`
	Fullname     string   `dynamodbav:"fullname"`
	Roles        []string `dynamodbav:"roles,stringset"`
	Verified     bool     `dynamodbav:"verified"`
	VerifiedDate string   `dynamodbav:"verified_date,omitempty"`
	CreatedAt    string   `dynamodbav:"created_at"`
	UpdatedAt    string   `dynamodbav:"updated_at"`
}

func userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: id},
		"sk": &types.AttributeValueMemberS{Value: model.CategoryUser},
	}
}

func toItem(u *model.User) userItem {
	item := userItem{
		PK:        u.ID,
		SK:        model.CategoryUser,
		GS1SK:     u.EmailSortValue(),
		Email:     u.Email,
		Fullname:  u.Fullname,
		Roles:     u.Roles,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u.VerifiedDate != nil {
		item.VerifiedDate = u.VerifiedDate.UTC().Format(time.RFC3339)
	}
	return item
}

func toModel(item userItem) (*model.User, error) {
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	u := &model.User{
		ID:        item.PK,
		Email:     item.Email,
		Fullname:  item.Fullname,
		Roles:     item.Roles,
		Verified:  item.Verified,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if item.VerifiedDate != "" {
		verifiedDate, err := time.Parse(time.RFC3339, item.VerifiedDate)
		if err != nil {
			return nil, fmt.Errorf("parse verified_date: %w", err)
		}
		u.VerifiedDate = &verifiedDate
	}
	return u, nil
}

func (r *dynamoUserRepository) Create(ctx context.Context, user *model.User) error {
	av, err := attributevalue.MarshalMap(toItem(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return common.ErrConflict
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (r *dynamoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       userKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if result.Item == nil {
		return nil, common.ErrNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return toModel(item)
}

func (r *dynamoUserRepository) FindByEmailPrefix(ctx context.Context, prefix string, limit int32) ([]model.User, error) {
	keyCond := "sk = :sk"
	values := map[string]types.AttributeValue{
		":sk": &types.AttributeValueMemberS{Value: model.CategoryUser},
	}
	if prefix != "" {
		keyCond += " AND begins_with(gs1sk, :prefix)"
		values[":prefix"] = &types.AttributeValueMemberS{Value: prefix}
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.index),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users := make([]model.User, 0, len(result.Items))
	for _, raw := range result.Items {
		var item userItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		u, err := toModel(item)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *dynamoUserRepository) Update(ctx context.Context, id string, fields UpdateFields) error {
	b := newUpdateBuilder()
	b.Set("fullname", &types.AttributeValueMemberS{Value: fields.Fullname})
	b.Set("verified", &types.AttributeValueMemberBOOL{Value: fields.Verified})
	if fields.VerifiedDate != nil {
		b.Set("verified_date", &types.AttributeValueMemberS{Value: fields.VerifiedDate.UTC().Format(time.RFC3339)})
	}
	b.Set("updated_at", &types.AttributeValueMemberS{Value: fields.UpdatedAt.UTC().Format(time.RFC3339)})

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       userKey(id),
		UpdateExpression:          aws.String(b.Expression()),
		ConditionExpression:       aws.String("attribute_exists(pk)"),
		ExpressionAttributeNames:  b.Names(),
		ExpressionAttributeValues: b.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return common.ErrNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *dynamoUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 userKey(id),
		ConditionExpression: aws.String("attribute_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return common.ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
