package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/linkstash/internal/model"
)

// PostgresShareRepo はPostgreSQLを使用した共有ケイパビリティリポジトリ。
type PostgresShareRepo struct {
	db *sql.DB
}

// NewPostgresShareRepo はPostgresShareRepoを生成する。
func NewPostgresShareRepo(db *sql.DB) *PostgresShareRepo {
	return &PostgresShareRepo{db: db}
}

// Upsert はユーザーの共有ケイパビリティを単一ステートメントで挿入または置換する。
// user_idのユニーク制約を衝突キーとしたON CONFLICT句により、
// 旧トークンの無効化と新トークンの有効化がアトミックに行われる。
// 並行するDisableとの競合でもケイパビリティが0件と1件の間で揺れることはない。
func (r *PostgresShareRepo) Upsert(ctx context.Context, cap *model.ShareCapability) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO share_links (id, user_id, token, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id)
		 DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at`,
		cap.ID, cap.OwnerID, cap.Token, cap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert share link: %w", err)
	}

	return nil
}

// DeleteByOwner は指定ユーザーの共有ケイパビリティを削除する。
// 削除対象が存在しない場合も成功として扱う（冪等）。
func (r *PostgresShareRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM share_links WHERE user_id = $1`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete share link: %w", err)
	}

	return nil
}

// FindByToken は指定トークンのケイパビリティを取得する。見つからない場合はnilを返す。
// トークンは匿名アクセスの唯一の検索キー。ログには出力しないこと。
func (r *PostgresShareRepo) FindByToken(ctx context.Context, token string) (*model.ShareCapability, error) {
	cap := &model.ShareCapability{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token, created_at FROM share_links WHERE token = $1`,
		token,
	).Scan(&cap.ID, &cap.OwnerID, &cap.Token, &cap.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find share link by token: %w", err)
	}

	return cap, nil
}

// compile-time interface check
var _ ShareRepository = (*PostgresShareRepo)(nil)
