package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/linkstash/internal/middleware"
	"github.com/hitoshi/linkstash/internal/model"
	"github.com/hitoshi/linkstash/internal/share"
)

// ShareServiceInterface は共有ハンドラーが必要とするサービスインターフェース。
type ShareServiceInterface interface {
	// Enable は共有を有効化し、公開パス（/share/<token>）を返す。
	Enable(ctx context.Context, ownerID string) (string, error)
	// Disable は共有を無効化する。共有が存在しなくても成功する（冪等）。
	Disable(ctx context.Context, ownerID string) error
	// Resolve は共有トークンを解決し、所有者のusernameとコンテンツ一覧を返す。
	Resolve(ctx context.Context, token string) (*share.ResolveResult, error)
}

// ShareHandler は共有ケイパビリティ管理のHTTPハンドラー。
type ShareHandler struct {
	service ShareServiceInterface
}

// NewShareHandler はShareHandlerを生成する。
func NewShareHandler(service ShareServiceInterface) *ShareHandler {
	return &ShareHandler{
		service: service,
	}
}

// --- リクエスト/レスポンス型 ---

// shareRequest は共有設定リクエストのボディ。
type shareRequest struct {
	Share bool `json:"share"`
}

// shareEnabledResponse は共有有効化のレスポンス。
type shareEnabledResponse struct {
	Message    string `json:"message"`
	SharedLink string `json:"sharedLink"`
}

// messageResponse はメッセージのみのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// sharedContentResponse は共有トークン解決のレスポンス。
// 公開するユーザー情報はusernameのみ（email・パスワードハッシュは決して含めない）。
type sharedContentResponse struct {
	Message  string            `json:"message"`
	Username string            `json:"username"`
	Content  []contentResponse `json:"content"`
}

// Update は共有の有効化・無効化を切り替える。
// POST /api/v1/share
func (h *ShareHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	if req.Share {
		sharedLink, err := h.service.Enable(r.Context(), userID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, shareEnabledResponse{
			Message:    "共有リンクを作成しました。",
			SharedLink: sharedLink,
		})
		return
	}

	if err := h.service.Disable(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "共有リンクを削除しました。",
	})
}

// Resolve は共有トークンから所有者のコンテンツ一覧を返す。
// 認証不要の唯一のデータ公開エンドポイント。トークンの所持が唯一の認可となる。
// GET /api/v1/share/{token}
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShareNotFoundError())
		return
	}

	result, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sharedContentResponse{
		Message:  "共有コンテンツを取得しました。",
		Username: result.Username,
		Content:  toContentResponses(result.Items),
	})
}
