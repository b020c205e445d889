package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/jsphweid/kalimbatab/model"
)

var ErrNotFound = errors.New("conversion not found")

// Store keeps rendered conversions in a DynamoDB table keyed by "PK".
type Store struct {
	API   dynamodbiface.DynamoDBAPI
	Table string
}

// NewStore connects to DynamoDB at endpoint, typically a local instance
// such as http://localhost:8000.
func NewStore(endpoint, region, table string) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB session: %w", err)
	}
	return &Store{API: dynamodb.New(sess), Table: table}, nil
}

func (s *Store) Put(ctx context.Context, c model.Conversion) error {
	item, err := dynamodbattribute.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshalling conversion %s: %w", c.ID, err)
	}
	_, err = s.API.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("storing conversion %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Conversion, error) {
	var c model.Conversion
	out, err := s.API.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return c, fmt.Errorf("loading conversion %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return c, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := dynamodbattribute.UnmarshalMap(out.Item, &c); err != nil {
		return c, fmt.Errorf("decoding conversion %s: %w", id, err)
	}
	return c, nil
}
