package faqrepo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

func drain(t *testing.T, kb faq.KnowledgeBase) []faq.Entry {
	t.Helper()
	var (
		all    []faq.Entry
		cursor string
	)
	for i := 0; i < 100; i++ {
		page, err := kb.Scan(context.Background(), cursor)
		require.NoError(t, err)
		all = append(all, page.Entries...)
		if page.Next == "" {
			return all
		}
		cursor = page.Next
	}
	t.Fatal("scan did not terminate")
	return nil
}

func TestMemoryRepositoryPages(t *testing.T) {
	repo := NewSeededMemoryRepository(2)

	first, err := repo.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	require.Equal(t, "2", first.Next)

	all := drain(t, repo)
	require.Len(t, all, len(SeedEntries()))
	require.Equal(t, "hours", all[0].ID)
	require.Equal(t, "track", all[len(all)-1].ID)
}

func TestMemoryRepositoryEmptyAndInvalidCursor(t *testing.T) {
	repo := NewMemoryRepository(0)

	page, err := repo.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, page.Entries)
	require.Empty(t, page.Next)

	_, err = repo.Scan(context.Background(), "abc")
	require.Error(t, err)

	repo.Add(faq.Entry{Question: "q", Answer: "a"})
	require.Len(t, drain(t, repo), 1)
}

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	pages  []*dynamodb.ScanOutput
	inputs []*dynamodb.ScanInput
	err    error
}

func (f *fakeDynamo) ScanWithContext(_ aws.Context, input *dynamodb.ScanInput, _ ...request.Option) (*dynamodb.ScanOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[len(f.inputs)-1], nil
}

func faqItem(id, question, answer string, alternates ...string) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"id":       {S: aws.String(id)},
		"question": {S: aws.String(question)},
		"answer":   {S: aws.String(answer)},
	}
	for i, alt := range alternates {
		item[faq.AlternateAttr(i+2)] = &dynamodb.AttributeValue{S: aws.String(alt)}
	}
	return item
}

func TestDynamoRepositoryFollowsLastEvaluatedKey(t *testing.T) {
	lastKey := map[string]*dynamodb.AttributeValue{"id": {S: aws.String("2")}}
	fake := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]*dynamodb.AttributeValue{
			faqItem("1", "Do you deliver?", "Yes.", "delivery"),
			faqItem("2", "Returns?", "30 days."),
		}, LastEvaluatedKey: lastKey},
		{Items: []map[string]*dynamodb.AttributeValue{
			{"id": {N: aws.String("3")}, "question": {S: aws.String("Parking?")}, "answer": {S: aws.String("Free.")}},
		}},
	}}
	repo := NewDynamoRepository(fake, "faq", 2)

	entries := drain(t, repo)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"delivery"}, entries[0].Alternates)
	require.Equal(t, "3", entries[2].ID)

	require.Len(t, fake.inputs, 2)
	require.Equal(t, "faq", aws.StringValue(fake.inputs[0].TableName))
	require.Equal(t, int64(2), aws.Int64Value(fake.inputs[0].Limit))
	require.Nil(t, fake.inputs[0].ExclusiveStartKey)
	require.Equal(t, "2", aws.StringValue(fake.inputs[1].ExclusiveStartKey["id"].S))
}

func TestDynamoRepositoryErrors(t *testing.T) {
	repo := NewDynamoRepository(&fakeDynamo{err: errors.New("throttled")}, "faq", 0)
	_, err := repo.Scan(context.Background(), "")
	require.ErrorContains(t, err, "throttled")

	_, err = repo.Scan(context.Background(), "!!not base64!!")
	require.Error(t, err)
}

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]*dynamodb.AttributeValue{
		"id":      {S: aws.String("abc")},
		"version": {N: aws.String("7")},
	}
	encoded, err := encodeCursor(key)
	require.NoError(t, err)
	require.NotContains(t, encoded, "=")

	decoded, err := decodeCursor(encoded)
	require.NoError(t, err)
	require.Equal(t, "abc", aws.StringValue(decoded["id"].S))
	require.Equal(t, "7", aws.StringValue(decoded["version"].N))
}

func TestObjectPageDecoding(t *testing.T) {
	entry := faq.Entry{ID: "d1", Question: "Do you deliver?", Alternates: []string{"delivery", "shipping"}, Answer: "Yes."}
	item := entryAttributes(entry)
	require.Equal(t, "delivery", item["question2"])
	require.Equal(t, "shipping", item["question3"])

	payload := `[{"id":"d1","question":"Do you deliver?","question2":"delivery","question3":"shipping","answer":"Yes."},{"question":"","answer":"orphan"}]`
	entries, err := decodeEntries(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry, entries[0])
	require.Empty(t, entries[1].Question)

	_, err = decodeEntries(strings.NewReader(`{"not":"an array"}`))
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "minio:9000", sanitizeEndpoint(" http://minio:9000/bucket "))
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com"))
	require.Empty(t, sanitizeEndpoint(""))
}
