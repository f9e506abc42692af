package preview

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizePolicy は全タグを除去するポリシー。
// プレビューのタイトル・説明文はプレーンテキストとして保存するため、
// マークアップは一切通さない。
var sanitizePolicy = bluemonday.StrictPolicy()

// maxFieldLen はプレビューフィールドの保存上限（rune数）。
const maxFieldLen = 300

// SanitizeText は抽出したテキストからマークアップを除去し、
// エンティティを復元したプレーンテキストを返す。
// 保存前の正規化として長さも上限に切り詰める。
func SanitizeText(raw string) string {
	s := sanitizePolicy.Sanitize(raw)
	s = stdhtml.UnescapeString(s)
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > maxFieldLen {
		s = string(runes[:maxFieldLen])
	}
	return s
}
