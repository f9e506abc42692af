package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/linkstash/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用した保存リンクリポジトリ。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

// Create はコンテンツを作成する。
func (r *PostgresContentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contents (id, user_id, link, content_type, title, tags,
		                       preview_title, preview_description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.OwnerID, item.Link, string(item.Type), item.Title, item.Tags,
		item.PreviewTitle, item.PreviewDescription, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}

	return nil
}

// ListByOwner は指定ユーザーが所有する全コンテンツを作成日時降順で返す。
// 0件の場合は空スライスを返す。
func (r *PostgresContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, link, content_type, title, tags,
		        preview_title, preview_description, created_at
		 FROM contents WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	items := []model.ContentItem{}
	for rows.Next() {
		var item model.ContentItem
		var contentType string
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Link, &contentType,
			&item.Title, &item.Tags, &item.PreviewTitle, &item.PreviewDescription,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		item.Type = model.ContentType(contentType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	return items, nil
}

// DeleteOwned は指定IDかつ指定ユーザー所有のコンテンツを削除し、削除した行を返す。
// WHERE句に所有者条件を含めることで、他ユーザー所有の行は見つからない扱いになる。
func (r *PostgresContentRepo) DeleteOwned(ctx context.Context, id, ownerID string) (*model.ContentItem, error) {
	item := &model.ContentItem{}
	var contentType string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM contents WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, link, content_type, title, tags,
		           preview_title, preview_description, created_at`,
		id, ownerID,
	).Scan(&item.ID, &item.OwnerID, &item.Link, &contentType,
		&item.Title, &item.Tags, &item.PreviewTitle, &item.PreviewDescription,
		&item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete content: %w", err)
	}

	item.Type = model.ContentType(contentType)
	return item, nil
}

// compile-time interface check
var _ ContentRepository = (*PostgresContentRepo)(nil)
