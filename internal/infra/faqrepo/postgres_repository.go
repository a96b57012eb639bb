package faqrepo

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/shopbot/internal/domain/faq"
)

// PostgresRepository implements faq.KnowledgeBase using pgx. Pages are
// keyset paginated on the id column and the cursor is the last id seen.
type PostgresRepository struct {
	pool     *pgxpool.Pool
	pageSize int
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool, pageSize int) *PostgresRepository {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PostgresRepository{pool: pool, pageSize: pageSize}
}

// Scan fetches the next page of faq_entries ordered by id.
func (r *PostgresRepository) Scan(ctx context.Context, cursor string) (faq.Page, error) {
	var after int64
	if cursor != "" {
		n, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return faq.Page{}, err
		}
		after = n
	}

	// One extra row tells us whether another page exists.
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, alternates, answer
		FROM faq_entries
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, after, r.pageSize+1)
	if err != nil {
		return faq.Page{}, err
	}
	defer rows.Close()

	var (
		page   faq.Page
		lastID int64
	)
	for rows.Next() {
		if len(page.Entries) == r.pageSize {
			page.Next = strconv.FormatInt(lastID, 10)
			break
		}
		entry, id, err := scanEntry(rows)
		if err != nil {
			return faq.Page{}, err
		}
		page.Entries = append(page.Entries, entry)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return faq.Page{}, err
	}
	return page, nil
}

func scanEntry(row pgx.Row) (faq.Entry, int64, error) {
	var (
		id         int64
		question   sql.NullString
		alternates []string
		answer     sql.NullString
	)
	if err := row.Scan(&id, &question, &alternates, &answer); err != nil {
		return faq.Entry{}, 0, err
	}
	if len(alternates) > faq.MaxPhrasings-1 {
		alternates = alternates[:faq.MaxPhrasings-1]
	}
	return faq.Entry{
		ID:         strconv.FormatInt(id, 10),
		Question:   question.String,
		Alternates: alternates,
		Answer:     answer.String,
	}, id, nil
}

var _ faq.KnowledgeBase = (*PostgresRepository)(nil)
