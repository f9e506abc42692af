package preview

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Fetcher は保存リンクのページを取得してプレビュー情報を抽出する。
// 取得はベストエフォートであり、失敗してもコンテンツ登録は成立する。
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// NewFetcher はFetcherを生成する。
// クライアントはSSRF防止機能付き（NewSafeClient）を使用する。
func NewFetcher(timeout time.Duration, maxSize int64) *Fetcher {
	return &Fetcher{
		client:  NewSafeClient(timeout),
		maxSize: maxSize,
	}
}

// Fetch は指定URLのページを取得し、サニタイズ済みのプレビュー情報を返す。
// HTML以外のレスポンス、非2xxレスポンスはエラーとする。
// レスポンスボディはmaxSizeまでしか読み込まない。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to build preview request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Metadata{}, fmt.Errorf("unexpected status fetching preview: %d", resp.StatusCode)
	}

	if !isHTMLContentType(resp.Header.Get("Content-Type")) {
		return Metadata{}, fmt.Errorf("not an HTML page: %s", resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read preview body: %w", err)
	}

	meta := ExtractMetadata(body)
	meta.Title = SanitizeText(meta.Title)
	meta.Description = SanitizeText(meta.Description)

	return meta, nil
}

// isHTMLContentType はContent-TypeがHTMLページを示すかを判定する。
func isHTMLContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)

	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
