// Package share は共有ケイパビリティ管理のドメインロジックを提供する。
//
// 共有トークンはログイン不要で保存リンク一覧を閲覧できる
// ケイパビリティであり、システム全体で唯一の匿名アクセス経路となる。
// トークンの所持だけが認可の根拠であり、公開するユーザー情報は
// usernameのみの固定投影に限定する。
package share

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/linkstash/internal/model"
	"github.com/hitoshi/linkstash/internal/repository"
)

// MetricsRecorder は共有サービスが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordShareResolve(found bool)
}

// ResolveResult は共有トークンの解決結果。
// 所有者の公開プロフィール（usernameのみ）とコンテンツ一覧を含む。
type ResolveResult struct {
	Username string
	Items    []model.ContentItem
}

// Service は共有ケイパビリティのビジネスロジックを提供する。
type Service struct {
	shares       repository.ShareRepository
	users        repository.UserRepository
	contents     repository.ContentRepository
	metrics      MetricsRecorder
	storeTimeout time.Duration
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(shares repository.ShareRepository, users repository.UserRepository, contents repository.ContentRepository, metrics MetricsRecorder, storeTimeout time.Duration) *Service {
	return &Service{
		shares:       shares,
		users:        users,
		contents:     contents,
		metrics:      metrics,
		storeTimeout: storeTimeout,
	}
}

// Enable は共有を有効化し、公開パス（/share/<token>）を返す。
// トークンは128ビット級のランダムUUIDを毎回新規生成する。
// 既に有効な共有がある場合はUPSERTで置き換え、旧トークンは即座に無効となる。
// トークンはレスポンス以外（ログ等）には出力しない。
func (s *Service) Enable(ctx context.Context, ownerID string) (string, error) {
	cap := &model.ShareCapability{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Token:     uuid.New().String(),
		CreatedAt: time.Now(),
	}

	upsertCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.shares.Upsert(upsertCtx, cap); err != nil {
		return "", fmt.Errorf("failed to enable sharing: %w", err)
	}

	slog.Info("sharing enabled", slog.String("user_id", ownerID))

	return cap.SharePath(), nil
}

// Disable は共有を無効化する。
// 共有が存在しない状態での無効化も成功として扱う（冪等）。
func (s *Service) Disable(ctx context.Context, ownerID string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.shares.DeleteByOwner(deleteCtx, ownerID); err != nil {
		return fmt.Errorf("failed to disable sharing: %w", err)
	}

	slog.Info("sharing disabled", slog.String("user_id", ownerID))

	return nil
}

// Resolve は共有トークンを解決し、所有者のusernameとコンテンツ一覧を返す。
// トークンが存在しない（または無効化済みの）場合はSHARE_NOT_FOUNDを返し、
// コンテンツもusernameも一切返さない。
func (s *Service) Resolve(ctx context.Context, token string) (*ResolveResult, error) {
	findCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	cap, err := s.shares.FindByToken(findCtx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find share link: %w", err)
	}
	if cap == nil {
		if s.metrics != nil {
			s.metrics.RecordShareResolve(false)
		}
		return nil, model.NewShareNotFoundError()
	}

	userCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.users.FindByID(userCtx, cap.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find share owner: %w", err)
	}
	if user == nil {
		// 所有者が消えた共有リンクは存在しない扱いにする
		if s.metrics != nil {
			s.metrics.RecordShareResolve(false)
		}
		return nil, model.NewShareNotFoundError()
	}

	listCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	items, err := s.contents.ListByOwner(listCtx, cap.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared contents: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordShareResolve(true)
	}

	return &ResolveResult{
		Username: user.Public().Username,
		Items:    items,
	}, nil
}
