package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/linkstash/internal/model"
	"github.com/hitoshi/linkstash/internal/repository"
)

// MetricsRecorder は認証サービスが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordSignup()
	RecordLoginFailure()
}

// Service はサインアップ・ログインのビジネスロジックを提供する。
type Service struct {
	users        repository.UserRepository
	tokens       *TokenManager
	metrics      MetricsRecorder
	storeTimeout time.Duration

	// dummyHash はログイン時にメールアドレスが未登録でも
	// パスワード検証と同等のコストを消費するための固定ハッシュ。
	// 未登録メールと誤パスワードの応答時間差によるユーザー列挙を防ぐ。
	dummyHash string
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(users repository.UserRepository, tokens *TokenManager, metrics MetricsRecorder, storeTimeout time.Duration) (*Service, error) {
	dummyHash, err := HashPassword("linkstash-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		users:        users,
		tokens:       tokens,
		metrics:      metrics,
		storeTimeout: storeTimeout,
		dummyHash:    dummyHash,
	}, nil
}

// Signup はユーザーを登録し、セッショントークンを発行する。
// 入力検証 → 重複チェック → ハッシュ化 → 永続化 → トークン発行の順に行う。
// 重複チェックと挿入の競合はリポジトリのユニーク制約が最終防衛線となる。
func (s *Service) Signup(ctx context.Context, params SignupParams) (string, error) {
	if violations := params.Validate(); len(violations) > 0 {
		return "", model.NewValidationError(violations)
	}

	findCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	existing, err := s.users.FindByEmail(findCtx, params.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return "", model.NewEmailTakenError()
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	createCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.users.Create(createCtx, user); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
	slog.Info("user signed up", slog.String("user_id", user.ID))

	return token, nil
}

// Login は認証情報を検証し、セッショントークンを発行する。
// メールアドレス未登録とパスワード不一致は同一のエラーで応答する。
// 未登録の場合もダミーハッシュとの比較を行い、応答時間を揃える。
func (s *Service) Login(ctx context.Context, params LoginParams) (string, error) {
	if violations := params.Validate(); len(violations) > 0 {
		return "", model.NewValidationError(violations)
	}

	findCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(findCtx, params.Email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		VerifyPassword(params.Password, s.dummyHash)
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return "", model.NewInvalidCredentialsError()
	}

	if !VerifyPassword(params.Password, user.PasswordHash) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return token, nil
}
