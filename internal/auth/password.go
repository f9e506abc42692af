// Package auth はパスワード認証、セッショントークンの発行・検証を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost はbcryptのワークファクター。
// 登録済みハッシュとの互換性があるため変更しないこと。
const hashCost = 10

// HashPassword は平文パスワードをbcryptでハッシュ化する。
// ソルトはbcryptがハッシュごとにランダム生成する。
// ハッシュ化の失敗はサインアップ処理全体の失敗として扱う。
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードとハッシュの一致を検証する。
// 不一致は通常の否定結果でありエラーではない。
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
