package middleware

import "strings"

// shareResolvePrefix は匿名共有解決エンドポイントのパス接頭辞。
const shareResolvePrefix = "/api/v1/share/"

// redactSharePath は共有トークンを含むパスからトークン部分を伏せる。
// 共有トークンは所持のみで閲覧を許可するケイパビリティのため、
// アクセスログに平文で残してはならない。
func redactSharePath(path string) string {
	if strings.HasPrefix(path, shareResolvePrefix) && len(path) > len(shareResolvePrefix) {
		return shareResolvePrefix + "[redacted]"
	}
	return path
}
