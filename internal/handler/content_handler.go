package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/linkstash/internal/content"
	"github.com/hitoshi/linkstash/internal/middleware"
	"github.com/hitoshi/linkstash/internal/model"
)

// ContentServiceInterface はコンテンツハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	// Create は認証済みプリンシパルを所有者としてコンテンツを作成する。
	Create(ctx context.Context, ownerID string, params content.CreateParams) (*model.ContentItem, error)
	// List は指定プリンシパルが所有する全コンテンツを返す。空スライスは正常。
	List(ctx context.Context, ownerID string) ([]model.ContentItem, error)
	// Delete は指定プリンシパル所有のコンテンツを削除し、削除した行を返す。
	Delete(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error)
}

// ContentHandler は保存リンク管理のHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		service: service,
	}
}

// --- リクエスト/レスポンス型 ---

// contentRequest はコンテンツ作成リクエストのボディ。
// typesフィールド名は既存クライアントとの互換のため複数形。
type contentRequest struct {
	Link  string `json:"link"`
	Types string `json:"types"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

// contentResponse はコンテンツのレスポンス。
type contentResponse struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"userId"`
	Link               string    `json:"link"`
	Types              string    `json:"types"`
	Title              string    `json:"title"`
	Tags               string    `json:"tags"`
	PreviewTitle       string    `json:"preview_title,omitempty"`
	PreviewDescription string    `json:"preview_description,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// contentCreatedResponse はコンテンツ作成のレスポンス。
type contentCreatedResponse struct {
	Message string          `json:"message"`
	Content contentResponse `json:"content"`
}

// contentListResponse はコンテンツ一覧のレスポンス。
type contentListResponse struct {
	Message string            `json:"message"`
	Content []contentResponse `json:"content"`
}

// contentDeletedResponse はコンテンツ削除のレスポンス。
type contentDeletedResponse struct {
	Message        string          `json:"message"`
	DeletedContent contentResponse `json:"deletedContent"`
}

// Create はコンテンツを作成する。
// POST /api/v1/content
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	item, err := h.service.Create(r.Context(), userID, content.CreateParams{
		Link:  req.Link,
		Type:  req.Types,
		Title: req.Title,
		Tags:  req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contentCreatedResponse{
		Message: "コンテンツを作成しました。",
		Content: toContentResponse(item),
	})
}

// List は認証済みユーザーのコンテンツ一覧を返す。
// 0件でも200と空配列を返す（404にはしない）。
// GET /api/v1/content
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contentListResponse{
		Message: "コンテンツ一覧を取得しました。",
		Content: toContentResponses(items),
	})
}

// Delete は認証済みユーザー所有のコンテンツを削除する。
// DELETE /api/v1/delete/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contentID := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), userID, contentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contentDeletedResponse{
		Message:        "コンテンツを削除しました。",
		DeletedContent: toContentResponse(deleted),
	})
}

// --- ヘルパー関数 ---

// toContentResponse はmodel.ContentItemからAPIレスポンスに変換する。
func toContentResponse(item *model.ContentItem) contentResponse {
	return contentResponse{
		ID:                 item.ID,
		OwnerID:            item.OwnerID,
		Link:               item.Link,
		Types:              string(item.Type),
		Title:              item.Title,
		Tags:               item.Tags,
		PreviewTitle:       item.PreviewTitle,
		PreviewDescription: item.PreviewDescription,
		CreatedAt:          item.CreatedAt,
	}
}

// toContentResponses はコンテンツ一覧をAPIレスポンスに変換する。
// 入力が空でもnilではなく空スライスを返す（JSONでは[]になる）。
func toContentResponses(items []model.ContentItem) []contentResponse {
	responses := make([]contentResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toContentResponse(&items[i]))
	}
	return responses
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	// ストア・暗号処理の失敗内容はログにのみ記録する
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidLink:
		return http.StatusBadRequest
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeContentNotFound, model.ErrCodeShareNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
