// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/linkstash/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスのユニーク制約違反の場合はmodel.APIError（EMAIL_TAKEN）を返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ContentRepository は保存リンクデータの永続化インターフェース。
type ContentRepository interface {
	// Create はコンテンツを作成する。
	Create(ctx context.Context, item *model.ContentItem) error

	// ListByOwner は指定ユーザーが所有する全コンテンツを作成日時降順で返す。
	// 0件の場合は空スライスを返す（エラーではない）。
	ListByOwner(ctx context.Context, ownerID string) ([]model.ContentItem, error)

	// DeleteOwned は指定IDかつ指定ユーザー所有のコンテンツを削除し、削除した行を返す。
	// 所有する一致行がない場合はnilを返す。他ユーザー所有の行は削除しない。
	DeleteOwned(ctx context.Context, id, ownerID string) (*model.ContentItem, error)
}

// ShareRepository は共有ケイパビリティの永続化インターフェース。
type ShareRepository interface {
	// Upsert はユーザーの共有ケイパビリティを単一ステートメントで挿入または置換する。
	// 既存のケイパビリティがある場合はトークンを新しい値に置き換える。
	// delete-then-createの間にケイパビリティが存在しない瞬間を作らないため、
	// 条件付き置換（ON CONFLICT）で実装すること。
	Upsert(ctx context.Context, cap *model.ShareCapability) error

	// DeleteByOwner は指定ユーザーの共有ケイパビリティを削除する。
	// 存在しない場合もエラーを返さない（冪等）。
	DeleteByOwner(ctx context.Context, ownerID string) error

	// FindByToken は指定トークンのケイパビリティを取得する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.ShareCapability, error)
}
