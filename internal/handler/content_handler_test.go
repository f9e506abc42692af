package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/linkstash/internal/content"
	"github.com/hitoshi/linkstash/internal/middleware"
	"github.com/hitoshi/linkstash/internal/model"
)

// --- モック定義 ---

type mockContentService struct {
	createFn func(ctx context.Context, ownerID string, params content.CreateParams) (*model.ContentItem, error)
	listFn   func(ctx context.Context, ownerID string) ([]model.ContentItem, error)
	deleteFn func(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error)
}

func (m *mockContentService) Create(ctx context.Context, ownerID string, params content.CreateParams) (*model.ContentItem, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, params)
	}
	return nil, errors.New("create not configured")
}

func (m *mockContentService) List(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return []model.ContentItem{}, nil
}

func (m *mockContentService) Delete(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, contentID)
	}
	return nil, errors.New("delete not configured")
}

var _ ContentServiceInterface = (*mockContentService)(nil)

// 認証済みユーザーIDをコンテキストに載せたリクエストを作るヘルパー
func authedRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// --- テスト ---

func TestContentCreate_Success_Returns201(t *testing.T) {
	svc := &mockContentService{
		createFn: func(ctx context.Context, ownerID string, params content.CreateParams) (*model.ContentItem, error) {
			if ownerID != "user-1" {
				t.Errorf("ownerID = %q, want %q", ownerID, "user-1")
			}
			if params.Type != "Youtube" {
				t.Errorf("params.Type = %q, want %q", params.Type, "Youtube")
			}
			return &model.ContentItem{
				ID:      "content-1",
				OwnerID: ownerID,
				Link:    params.Link,
				Type:    model.ContentTypeYoutube,
				Title:   params.Title,
				Tags:    params.Tags,
			}, nil
		},
	}
	h := NewContentHandler(svc)

	body := `{"link":"https://example.com/v","types":"Youtube","title":"動画","tags":"video"}`
	req := authedRequest(http.MethodPost, "/api/v1/content", body, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp contentCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if resp.Content.ID != "content-1" {
		t.Errorf("content.id = %q, want %q", resp.Content.ID, "content-1")
	}
	if resp.Content.OwnerID != "user-1" {
		t.Errorf("content.userId = %q, want %q", resp.Content.OwnerID, "user-1")
	}
}

func TestContentCreate_WithoutAuthContext_Returns401(t *testing.T) {
	h := NewContentHandler(&mockContentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/content", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestContentCreate_InvalidLink_Returns400(t *testing.T) {
	svc := &mockContentService{
		createFn: func(ctx context.Context, ownerID string, params content.CreateParams) (*model.ContentItem, error) {
			return nil, model.NewInvalidLinkError("blocked host: localhost")
		},
	}
	h := NewContentHandler(svc)

	body := `{"link":"http://localhost/x","title":"タイトル","tags":"tag"}`
	req := authedRequest(http.MethodPost, "/api/v1/content", body, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestContentList_Empty_Returns200WithEmptyArray(t *testing.T) {
	// 0件は404ではなく200と空配列
	svc := &mockContentService{
		listFn: func(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
			return []model.ContentItem{}, nil
		},
	}
	h := NewContentHandler(svc)

	req := authedRequest(http.MethodGet, "/api/v1/content", "", "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"content":[]`) {
		t.Errorf("body = %s, want empty content array", w.Body.String())
	}
}

func TestContentList_ReturnsItems(t *testing.T) {
	svc := &mockContentService{
		listFn: func(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
			return []model.ContentItem{
				{ID: "c-1", OwnerID: ownerID, Title: "first"},
				{ID: "c-2", OwnerID: ownerID, Title: "second"},
			}, nil
		},
	}
	h := NewContentHandler(svc)

	req := authedRequest(http.MethodGet, "/api/v1/content", "", "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	var resp contentListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if len(resp.Content) != 2 {
		t.Errorf("len(content) = %d, want 2", len(resp.Content))
	}
}

func TestContentDelete_Success_ReturnsDeletedContent(t *testing.T) {
	svc := &mockContentService{
		deleteFn: func(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error) {
			if contentID != "content-9" {
				t.Errorf("contentID = %q, want %q", contentID, "content-9")
			}
			return &model.ContentItem{ID: contentID, OwnerID: ownerID, Title: "gone"}, nil
		},
	}
	h := NewContentHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/v1/delete/content-9", "", "user-1")

	// chiのURLパラメータを注入
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "content-9")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.Delete(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp contentDeletedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if resp.DeletedContent.ID != "content-9" {
		t.Errorf("deletedContent.id = %q, want %q", resp.DeletedContent.ID, "content-9")
	}
}

func TestContentDelete_NotFound_Returns404(t *testing.T) {
	svc := &mockContentService{
		deleteFn: func(ctx context.Context, ownerID, contentID string) (*model.ContentItem, error) {
			return nil, model.NewContentNotFoundError(contentID)
		},
	}
	h := NewContentHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/v1/delete/missing", "", "user-1")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.Delete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
