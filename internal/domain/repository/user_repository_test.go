package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"user_api/internal/common"
	"user_api/internal/domain/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamoClient struct {
	getItem    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItem    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	updateItem func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	deleteItem func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	query      func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getItem(params)
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(params)
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.updateItem(params)
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return f.deleteItem(params)
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.query(params)
}

func testUser() *model.User {
	createdAt, _ := time.Parse(time.RFC3339, "2024-03-01T10:00:00Z")
	return &model.User{
		ID:        "user-1",
		Email:     "a@b.com",
		Fullname:  "A B",
		Roles:     []string{model.RoleUser},
		Verified:  false,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreate_ConditionalPut(t *testing.T) {
	var captured *dynamodb.PutItemInput
	client := &fakeDynamoClient{
		putItem: func(input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			captured = input
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	if err := repo.Create(context.Background(), testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *captured.TableName != "users" {
		t.Errorf("expected table 'users', got %q", *captured.TableName)
	}
	if *captured.ConditionExpression != "attribute_not_exists(pk)" {
		t.Errorf("expected conditional put, got %q", *captured.ConditionExpression)
	}
	if v, ok := captured.Item["gs1sk"].(*types.AttributeValueMemberS); !ok || v.Value != "a@b.com#2024-03-01" {
		t.Errorf("expected gs1sk 'a@b.com#2024-03-01', got %v", captured.Item["gs1sk"])
	}
	if v, ok := captured.Item["sk"].(*types.AttributeValueMemberS); !ok || v.Value != "user" {
		t.Errorf("expected sk 'user', got %v", captured.Item["sk"])
	}
}

func TestCreate_ConditionFailedIsConflict(t *testing.T) {
	client := &fakeDynamoClient{
		putItem: func(input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	err := repo.Create(context.Background(), testUser())
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	client := &fakeDynamoClient{
		getItem: func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: nil}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByID_RoundTrip(t *testing.T) {
	raw, err := attributevalue.MarshalMap(toItem(testUser()))
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var captured *dynamodb.GetItemInput
	client := &fakeDynamoClient{
		getItem: func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			captured = input
			return &dynamodb.GetItemOutput{Item: raw}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	user, err := repo.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := captured.Key["pk"].(*types.AttributeValueMemberS); !ok || v.Value != "user-1" {
		t.Errorf("expected pk 'user-1', got %v", captured.Key["pk"])
	}
	if v, ok := captured.Key["sk"].(*types.AttributeValueMemberS); !ok || v.Value != "user" {
		t.Errorf("expected sk 'user', got %v", captured.Key["sk"])
	}
	if user.Email != "a@b.com" || user.Fullname != "A B" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.Verified || user.VerifiedDate != nil {
		t.Errorf("expected unverified user with no verified_date, got %+v", user)
	}
	if !user.CreatedAt.Equal(testUser().CreatedAt) {
		t.Errorf("expected created_at %v, got %v", testUser().CreatedAt, user.CreatedAt)
	}
}

func TestFindByEmailPrefix_QueryShape(t *testing.T) {
	var captured *dynamodb.QueryInput
	client := &fakeDynamoClient{
		query: func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			captured = input
			return &dynamodb.QueryOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	users, err := repo.FindByEmailPrefix(context.Background(), "a@b.com#", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected empty result, got %d users", len(users))
	}

	if *captured.IndexName != "gs1" {
		t.Errorf("expected index 'gs1', got %q", *captured.IndexName)
	}
	expectedCond := "sk = :sk AND begins_with(gs1sk, :prefix)"
	if *captured.KeyConditionExpression != expectedCond {
		t.Errorf("expected key condition %q, got %q", expectedCond, *captured.KeyConditionExpression)
	}
	if *captured.Limit != 1 {
		t.Errorf("expected limit 1, got %d", *captured.Limit)
	}
	if v, ok := captured.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS); !ok || v.Value != "a@b.com#" {
		t.Errorf("expected :prefix 'a@b.com#', got %v", captured.ExpressionAttributeValues[":prefix"])
	}
}

func TestFindByEmailPrefix_NoPrefix(t *testing.T) {
	var captured *dynamodb.QueryInput
	client := &fakeDynamoClient{
		query: func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			captured = input
			return &dynamodb.QueryOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	if _, err := repo.FindByEmailPrefix(context.Background(), "", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *captured.KeyConditionExpression != "sk = :sk" {
		t.Errorf("expected partition-only key condition, got %q", *captured.KeyConditionExpression)
	}
	if _, ok := captured.ExpressionAttributeValues[":prefix"]; ok {
		t.Error("expected no :prefix value for empty prefix")
	}
	if *captured.Limit != 50 {
		t.Errorf("expected limit 50, got %d", *captured.Limit)
	}
}

func TestUpdate_ExpressionFields(t *testing.T) {
	var captured *dynamodb.UpdateItemInput
	client := &fakeDynamoClient{
		updateItem: func(input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			captured = input
			return &dynamodb.UpdateItemOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	verifiedDate, _ := time.Parse(time.RFC3339, "2024-03-02T09:00:00Z")
	fields := UpdateFields{
		Fullname:     "New Name",
		Verified:     true,
		VerifiedDate: &verifiedDate,
		UpdatedAt:    verifiedDate,
	}
	if err := repo.Update(context.Background(), "user-1", fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *captured.ConditionExpression != "attribute_exists(pk)" {
		t.Errorf("expected existence condition, got %q", *captured.ConditionExpression)
	}

	// Every attribute must go through a generated placeholder.
	attrs := make(map[string]bool)
	for _, attr := range captured.ExpressionAttributeNames {
		attrs[attr] = true
	}
	for _, want := range []string{"fullname", "verified", "verified_date", "updated_at"} {
		if !attrs[want] {
			t.Errorf("expected %q in expression attribute names, got %v", want, captured.ExpressionAttributeNames)
		}
	}
}

func TestUpdate_NoVerifiedDate(t *testing.T) {
	var captured *dynamodb.UpdateItemInput
	client := &fakeDynamoClient{
		updateItem: func(input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			captured = input
			return &dynamodb.UpdateItemOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	fields := UpdateFields{Fullname: "A B", Verified: false, UpdatedAt: time.Now()}
	if err := repo.Update(context.Background(), "user-1", fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, attr := range captured.ExpressionAttributeNames {
		if attr == "verified_date" {
			t.Error("expected verified_date to be omitted when nil")
		}
	}
}

func TestUpdate_ConditionFailedIsNotFound(t *testing.T) {
	client := &fakeDynamoClient{
		updateItem: func(input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	err := repo.Update(context.Background(), "missing", UpdateFields{UpdatedAt: time.Now()})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ConditionFailedIsNotFound(t *testing.T) {
	client := &fakeDynamoClient{
		deleteItem: func(input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_OK(t *testing.T) {
	var captured *dynamodb.DeleteItemInput
	client := &fakeDynamoClient{
		deleteItem: func(input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
			captured = input
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}
	repo := NewDynamoUserRepository(client, "users", "gs1")

	if err := repo.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := captured.Key["pk"].(*types.AttributeValueMemberS); !ok || v.Value != "user-1" {
		t.Errorf("expected pk 'user-1', got %v", captured.Key["pk"])
	}
}
