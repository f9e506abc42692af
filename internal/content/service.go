// Package content は保存リンク管理のドメインロジックを提供する。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/linkstash/internal/model"
	"github.com/hitoshi/linkstash/internal/preview"
	"github.com/hitoshi/linkstash/internal/repository"
)

const (
	titleMinLen = 3
	tagsMinLen  = 3
)

// PreviewFetcher はリンク先ページからプレビュー情報を取得するインターフェース。
// preview.Fetcherを抽象化してテスタビリティを向上させる。
type PreviewFetcher interface {
	Fetch(ctx context.Context, rawURL string) (preview.Metadata, error)
}

// CreateParams はコンテンツ作成の入力。
type CreateParams struct {
	Link  string
	Type  string
	Title string
	Tags  string
}

// Validate は入力契約を検証し、失敗した全フィールドを返す。
func (p CreateParams) Validate() []model.FieldViolation {
	var violations []model.FieldViolation

	if p.Link == "" {
		violations = append(violations, model.FieldViolation{
			Field:   "link",
			Message: "リンクを入力してください。",
		})
	}

	// 未指定はRandomにフォールバックするため許容する
	if p.Type != "" && !model.ContentType(p.Type).IsValid() {
		violations = append(violations, model.FieldViolation{
			Field:   "types",
			Message: "種別はInstagram、Youtube、Whatsapp、Facebook、Randomのいずれかを指定してください。",
		})
	}

	if utf8.RuneCountInString(p.Title) < titleMinLen {
		violations = append(violations, model.FieldViolation{
			Field:   "title",
			Message: "タイトルは3文字以上で入力してください。",
		})
	}

	if utf8.RuneCountInString(p.Tags) < tagsMinLen {
		violations = append(violations, model.FieldViolation{
			Field:   "tags",
			Message: "タグは3文字以上で入力してください。",
		})
	}

	return violations
}

// contentType は入力値をContentTypeに解決する。未指定はRandom。
func (p CreateParams) contentType() model.ContentType {
	if p.Type == "" {
		return model.ContentTypeRandom
	}
	return model.ContentType(p.Type)
}

// Service は保存リンク管理のビジネスロジックを提供する。
type Service struct {
	contents       repository.ContentRepository
	previews       PreviewFetcher
	storeTimeout   time.Duration
	previewTimeout time.Duration
}

// NewService はServiceを生成する。
// previewsがnilの場合、プレビュー取得は行わない。
func NewService(contents repository.ContentRepository, previews PreviewFetcher, storeTimeout, previewTimeout time.Duration) *Service {
	return &Service{
		contents:       contents,
		previews:       previews,
		storeTimeout:   storeTimeout,
		previewTimeout: previewTimeout,
	}
}

// Create は認証済みプリンシパルを所有者としてコンテンツを作成する。
// リンクURLは静的検証を通過する必要がある。
// プレビュー取得はベストエフォートで、失敗しても作成は成立する。
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*model.ContentItem, error) {
	if violations := params.Validate(); len(violations) > 0 {
		return nil, model.NewValidationError(violations)
	}

	if err := preview.ValidateURL(params.Link); err != nil {
		return nil, model.NewInvalidLinkError(err.Error())
	}

	item := &model.ContentItem{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Link:      params.Link,
		Type:      params.contentType(),
		Title:     params.Title,
		Tags:      params.Tags,
		CreatedAt: time.Now(),
	}

	if s.previews != nil {
		previewCtx, cancel := context.WithTimeout(ctx, s.previewTimeout)
		meta, err := s.previews.Fetch(previewCtx, params.Link)
		cancel()
		if err != nil {
			// プレビューは補助情報のため、取得失敗で作成を妨げない
			slog.Warn("preview fetch failed",
				slog.String("content_id", item.ID),
				slog.String("error", err.Error()),
			)
		} else {
			item.PreviewTitle = meta.Title
			item.PreviewDescription = meta.Description
		}
	}

	createCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.contents.Create(createCtx, item); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	slog.Info("content created",
		slog.String("content_id", item.ID),
		slog.String("user_id", ownerID),
	)

	return item, nil
}

// List は指定プリンシパルが所有する全コンテンツを返す。
// 0件は正常な結果であり、空スライスを返す（エラーではない）。
func (s *Service) List(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	items, err := s.contents.ListByOwner(listCtx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}

	return items, nil
}

// Delete は指定プリンシパル所有のコンテンツを削除し、削除した行を返す。
// 削除は所有者スコープで行われ、他ユーザーのコンテンツIDを指定しても
// 存在しないIDと同じ「見つかりません」で応答する。
func (s *Service) Delete(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error) {
	// UUIDとして不正なIDはどの行にも一致しない
	if _, err := uuid.Parse(contentID); err != nil {
		return nil, model.NewContentNotFoundError(contentID)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	deleted, err := s.contents.DeleteOwned(deleteCtx, contentID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete content: %w", err)
	}
	if deleted == nil {
		return nil, model.NewContentNotFoundError(contentID)
	}

	slog.Info("content deleted",
		slog.String("content_id", contentID),
		slog.String("user_id", ownerID),
	)

	return deleted, nil
}
