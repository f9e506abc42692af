package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/hitoshi/linkstash/internal/model"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 6
)

// SignupParams はサインアップの入力。
type SignupParams struct {
	Username string
	Email    string
	Password string
}

// Validate は入力契約を検証し、失敗した全フィールドを返す。
// 最初の失敗で打ち切らず、全フィールドを検査する。
func (p SignupParams) Validate() []model.FieldViolation {
	var violations []model.FieldViolation

	if n := utf8.RuneCountInString(p.Username); n < usernameMinLen || n > usernameMaxLen {
		violations = append(violations, model.FieldViolation{
			Field:   "username",
			Message: "ユーザー名は3文字以上20文字以下で入力してください。",
		})
	}

	if !isValidEmail(p.Email) {
		violations = append(violations, model.FieldViolation{
			Field:   "email",
			Message: "メールアドレスの形式が正しくありません。",
		})
	}

	if utf8.RuneCountInString(p.Password) < passwordMinLen {
		violations = append(violations, model.FieldViolation{
			Field:   "password",
			Message: "パスワードは6文字以上で入力してください。",
		})
	}

	return violations
}

// LoginParams はログインの入力。
type LoginParams struct {
	Email    string
	Password string
}

// Validate は入力契約を検証し、失敗した全フィールドを返す。
func (p LoginParams) Validate() []model.FieldViolation {
	var violations []model.FieldViolation

	if !isValidEmail(p.Email) {
		violations = append(violations, model.FieldViolation{
			Field:   "email",
			Message: "メールアドレスの形式が正しくありません。",
		})
	}

	if utf8.RuneCountInString(p.Password) < passwordMinLen {
		violations = append(violations, model.FieldViolation{
			Field:   "password",
			Message: "パスワードは6文字以上で入力してください。",
		})
	}

	return violations
}

// isValidEmail はメールアドレスの構文を検証する。
// mail.ParseAddressは表示名付きアドレスも受理するため、
// パース結果が入力と一致することも確認する。
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
