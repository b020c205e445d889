package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/kalimbatab/model"
)

// fakeDynamo keeps items in memory, keyed by the PK string attribute.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func TestPutThenGet(t *testing.T) {
	store := &Store{API: newFakeDynamo(), Table: "conversions"}
	c := model.Conversion{
		ID:        "abc",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Source:    "e|-0--|",
		Lines:     []string{"(113573.)", "3. 0"},
	}

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, c))
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestGetMissing(t *testing.T) {
	store := &Store{API: newFakeDynamo(), Table: "conversions"}
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = errors.New("throttled")
	store := &Store{API: fake, Table: "conversions"}

	err := store.Put(context.Background(), model.Conversion{ID: "x"})
	assert.ErrorIs(t, err, fake.err)

	_, err = store.Get(context.Background(), "x")
	assert.ErrorIs(t, err, fake.err)
}
