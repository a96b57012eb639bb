package faqrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

// ObjectRepository reads a knowledge base exported to S3-compatible storage.
// Every .json object under the prefix is one page holding an array of items
// in the table's attribute layout. Objects are read in key order and the
// cursor is the key of the last object read.
type ObjectRepository struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// ObjectStoreOptions configures the S3-compatible endpoint.
type ObjectStoreOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// NewObjectRepository constructs the adapter.
func NewObjectRepository(opts ObjectStoreOptions, logger *slog.Logger) (*ObjectRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectRepository{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		logger: logger.With("component", "faqrepo.object"),
	}, nil
}

// Scan implements faq.KnowledgeBase.
func (r *ObjectRepository) Scan(ctx context.Context, cursor string) (faq.Page, error) {
	key, err := r.nextKey(ctx, cursor)
	if err != nil {
		return faq.Page{}, err
	}
	if key == "" {
		return faq.Page{}, nil
	}

	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return faq.Page{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	entries, err := decodeEntries(obj)
	if err != nil {
		return faq.Page{}, fmt.Errorf("decode %s: %w", key, err)
	}
	r.logger.Debug("object page read", "key", key, "entries", len(entries))
	return faq.Page{Entries: entries, Next: key}, nil
}

// Export writes entries as one page object, creating the bucket if needed.
func (r *ObjectRepository) Export(ctx context.Context, name string, entries []faq.Entry) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}
	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryAttributes(entry))
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	key := r.prefix + name
	if !strings.HasSuffix(key, ".json") {
		key += ".json"
	}
	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// nextKey returns the first .json key after cursor, or "" at the end.
func (r *ObjectRepository) nextKey(ctx context.Context, cursor string) (string, error) {
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for info := range r.client.ListObjects(listCtx, r.bucket, minio.ListObjectsOptions{
		Prefix:     r.prefix,
		StartAfter: cursor,
		Recursive:  true,
	}) {
		if info.Err != nil {
			return "", fmt.Errorf("list %s/%s: %w", r.bucket, r.prefix, info.Err)
		}
		if strings.HasSuffix(info.Key, ".json") {
			return info.Key, nil
		}
	}
	return "", nil
}

func (r *ObjectRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err == nil && exists {
		return nil
	}
	err = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func decodeEntries(r io.Reader) ([]faq.Entry, error) {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	entries := make([]faq.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, faq.EntryFromAttributes(item))
	}
	return entries, nil
}

func entryAttributes(entry faq.Entry) map[string]any {
	item := map[string]any{
		faq.AttrQuestion: entry.Question,
		faq.AttrAnswer:   entry.Answer,
	}
	if entry.ID != "" {
		item[faq.AttrID] = entry.ID
	}
	for i, alt := range entry.Alternates {
		if i+2 > faq.MaxPhrasings {
			break
		}
		item[faq.AlternateAttr(i+2)] = alt
	}
	return item
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ faq.KnowledgeBase = (*ObjectRepository)(nil)
