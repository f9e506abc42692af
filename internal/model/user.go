// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュであり、APIレスポンスには決して含めない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile は共有リンク経由で公開されるユーザー情報の最小投影。
// username以外のフィールド（email、パスワードハッシュ）は決して含めない。
type PublicProfile struct {
	Username string
}

// Public はユーザーの公開プロフィールを返す。
func (u *User) Public() PublicProfile {
	return PublicProfile{Username: u.Username}
}
