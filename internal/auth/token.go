package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークン検証失敗を表す。
// 形式不正・署名不正・期限切れ・サブジェクト欠落のいずれでもこのエラーを返し、
// どの検証に失敗したかを呼び出し元（ひいてはクライアント）に区別させない。
var ErrInvalidToken = errors.New("invalid token")

// sessionClaims はセッショントークンのクレーム。
// 標準クレームに加えてサブジェクトのユーザーIDを持つ。
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenManager はHMAC署名付きセッショントークンの発行・検証を行う。
// トークンは自己完結（ステートレス）であり、ストアへの照会は行わない。
// 失効リストは持たないため、サーバー側からの早期無効化はできない。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager はTokenManagerを生成する。
// secretは起動時に1回読み込まれるプロセス全体の設定から渡すこと。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue は指定ユーザーを主体とする署名付きトークンを発行する。
// 有効期限は発行時刻からTTL（既定で1時間）後の絶対時刻。
func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、主体のユーザーIDを返す。
// fail-closed: 検証に失敗する理由が何であれErrInvalidTokenを返す。
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// 署名アルゴリズムの差し替え（alg=none等）を拒否する
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
