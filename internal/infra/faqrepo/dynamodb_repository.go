package faqrepo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

// DynamoRepository scans a DynamoDB table holding one item per FAQ entry with
// attributes question, question2..question16 and answer. The cursor is the
// LastEvaluatedKey of the previous page, JSON encoded and base64 wrapped.
type DynamoRepository struct {
	client   dynamodbiface.DynamoDBAPI
	table    string
	pageSize int64
}

// NewDynamoRepository constructs the repository. A zero pageSize lets
// DynamoDB cut pages at its 1 MB limit.
func NewDynamoRepository(client dynamodbiface.DynamoDBAPI, table string, pageSize int) *DynamoRepository {
	return &DynamoRepository{client: client, table: table, pageSize: int64(pageSize)}
}

// Scan implements faq.KnowledgeBase.
func (r *DynamoRepository) Scan(ctx context.Context, cursor string) (faq.Page, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if r.pageSize > 0 {
		input.Limit = aws.Int64(r.pageSize)
	}
	if cursor != "" {
		key, err := decodeCursor(cursor)
		if err != nil {
			return faq.Page{}, err
		}
		input.ExclusiveStartKey = key
	}

	out, err := r.client.ScanWithContext(ctx, input)
	if err != nil {
		return faq.Page{}, fmt.Errorf("scan %s: %w", r.table, err)
	}

	page := faq.Page{Entries: make([]faq.Entry, 0, len(out.Items))}
	for _, item := range out.Items {
		var attrs map[string]any
		if err := dynamodbattribute.UnmarshalMap(item, &attrs); err != nil {
			return faq.Page{}, fmt.Errorf("decode item: %w", err)
		}
		page.Entries = append(page.Entries, faq.EntryFromAttributes(attrs))
	}
	if len(out.LastEvaluatedKey) > 0 {
		next, err := encodeCursor(out.LastEvaluatedKey)
		if err != nil {
			return faq.Page{}, err
		}
		page.Next = next
	}
	return page, nil
}

func encodeCursor(key map[string]*dynamodb.AttributeValue) (string, error) {
	raw, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]*dynamodb.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var key map[string]*dynamodb.AttributeValue
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	return key, nil
}

var _ faq.KnowledgeBase = (*DynamoRepository)(nil)
