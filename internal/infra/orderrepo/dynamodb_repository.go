package orderrepo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/yanqian/shopbot/internal/domain/dialog"
)

// DynamoRepository reads the Orders table keyed by OrderID.
type DynamoRepository struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// NewDynamoRepository constructs the repository.
func NewDynamoRepository(client dynamodbiface.DynamoDBAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

// GetByID implements dialog.OrderRepository.
func (r *DynamoRepository) GetByID(ctx context.Context, orderID string) (dialog.Order, bool, error) {
	out, err := r.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			"OrderID": {S: aws.String(orderID)},
		},
	})
	if err != nil {
		return dialog.Order{}, false, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if len(out.Item) == 0 {
		return dialog.Order{}, false, nil
	}
	var order dialog.Order
	if err := dynamodbattribute.UnmarshalMap(out.Item, &order); err != nil {
		return dialog.Order{}, false, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return order, true, nil
}

var _ dialog.OrderRepository = (*DynamoRepository)(nil)
