// Package model はドメインモデルを定義する。
package model

import "fmt"

// FieldViolation は入力検証で失敗した1フィールドの内容を表す。
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// Fieldsは検証エラー時のみ設定され、失敗した全フィールドを列挙する。
type APIError struct {
	Code     string           // エラーコード
	Message  string           // エラーメッセージ
	Category string           // カテゴリ: auth, validation, content, share, system
	Action   string           // ユーザー向け対処方法
	Fields   []FieldViolation // 検証エラーの詳細（検証エラー時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeContentNotFound    = "CONTENT_NOT_FOUND"
	ErrCodeShareNotFound      = "SHARE_NOT_FOUND"
	ErrCodeInvalidLink        = "INVALID_LINK"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
// 失敗した全フィールドをFieldsに含める（先頭のフィールドだけではない）。
func NewValidationError(fields []FieldViolation) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "入力内容に誤りがあります。",
		Category: "validation",
		Action:   "各フィールドのエラー内容を確認して修正してください。",
		Fields:   fields,
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスで登録するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス未登録とパスワード不一致を区別しない。
// ユーザー列挙攻撃を防ぐため、両ケースで完全に同一のレスポンスを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
// トークン欠落・不正・期限切れのいずれでも同一メッセージを返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインして有効なトークンを取得してください。",
	}
}

// NewContentNotFoundError はコンテンツ未検出エラーを生成する。
// 存在しないIDと他ユーザー所有のIDを区別しない。
func NewContentNotFoundError(contentID string) *APIError {
	return &APIError{
		Code:     ErrCodeContentNotFound,
		Message:  fmt.Sprintf("指定されたコンテンツが見つかりません: %s", contentID),
		Category: "content",
		Action:   "コンテンツIDを確認してください。",
	}
}

// NewShareNotFoundError は共有リンク未検出エラーを生成する。
func NewShareNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeShareNotFound,
		Message:  "共有リンクが見つかりません。",
		Category: "share",
		Action:   "共有リンクのURLを確認してください。",
	}
}

// NewInvalidLinkError は無効なリンクURLエラーを生成する。
func NewInvalidLinkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLink,
		Message:  fmt.Sprintf("無効なリンクです: %s", reason),
		Category: "validation",
		Action:   "http:// または https:// で始まる正しいURLを入力してください。",
	}
}

// NewInternalError は内部エラーを生成する。
// 内部事情（ストア・暗号処理の失敗内容）はクライアントに漏らさない。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
