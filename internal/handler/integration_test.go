package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/linkstash/internal/auth"
	"github.com/hitoshi/linkstash/internal/content"
	"github.com/hitoshi/linkstash/internal/model"
	"github.com/hitoshi/linkstash/internal/repository"
	"github.com/hitoshi/linkstash/internal/share"
)

// --- インメモリリポジトリ ---
//
// DBなしでサービス層とハンドラー層を通しで検証するための実装。
// repositoryパッケージのインターフェース契約（見つからない場合はnil、
// 共有のUpsertは置換、等）に従う。

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // id -> user
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*model.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return model.NewEmailTakenError()
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

type memoryContentRepo struct {
	mu    sync.Mutex
	items []model.ContentItem
}

func (r *memoryContentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *item)
	return nil
}

func (r *memoryContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []model.ContentItem{}
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *memoryContentRepo) DeleteOwned(ctx context.Context, id, ownerID string) (*model.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == id && item.OwnerID == ownerID {
			deleted := item
			r.items = append(r.items[:i], r.items[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, nil
}

type memoryShareRepo struct {
	mu   sync.Mutex
	caps map[string]*model.ShareCapability // ownerID -> capability
}

func newMemoryShareRepo() *memoryShareRepo {
	return &memoryShareRepo{caps: make(map[string]*model.ShareCapability)}
}

func (r *memoryShareRepo) Upsert(ctx context.Context, cap *model.ShareCapability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cap
	r.caps[cap.OwnerID] = &copied
	return nil
}

func (r *memoryShareRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caps, ownerID)
	return nil
}

func (r *memoryShareRepo) FindByToken(ctx context.Context, token string) (*model.ShareCapability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caps {
		if c.Token == token {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

var (
	_ repository.UserRepository    = (*memoryUserRepo)(nil)
	_ repository.ContentRepository = (*memoryContentRepo)(nil)
	_ repository.ShareRepository   = (*memoryShareRepo)(nil)
)

// --- ヘルパー ---

// newIntegrationRouter は本物のサービス層とインメモリリポジトリで
// ルーターを組み立てる。プレビュー取得は無効（fetcherなし）。
func newIntegrationRouter(t *testing.T) http.Handler {
	t.Helper()

	userRepo := newMemoryUserRepo()
	contentRepo := &memoryContentRepo{}
	shareRepo := newMemoryShareRepo()

	tokenManager := auth.NewTokenManager("integration-test-secret", time.Hour)

	authService, err := auth.NewService(userRepo, tokenManager, nil, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to build auth service: %v", err)
	}
	contentService := content.NewService(contentRepo, nil, 5*time.Second, 3*time.Second)
	shareService := share.NewService(shareRepo, userRepo, contentRepo, nil, 5*time.Second)

	return NewRouter(&RouterDeps{
		TokenVerifier:  tokenManager,
		Logger:         slog.Default(),
		AuthService:    authService,
		ContentService: contentService,
		ShareService:   shareService,
	})
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupAndGetToken(t *testing.T, router http.Handler, username, email string) string {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + email + `","password":"secret-password"}`
	w := doRequest(router, http.MethodPost, "/api/v1/signup", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse signup response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("signup returned empty token")
	}
	return resp.Token
}

// --- テスト ---

// TestScenario_SignupToShareAndRevoke はサインアップから共有・取り消しまでの
// 一連の流れをルーター経由で検証する。
func TestScenario_SignupToShareAndRevoke(t *testing.T) {
	router := newIntegrationRouter(t)

	// 1. サインアップ
	token := signupAndGetToken(t, router, "alice", "alice@example.com")

	// 2. ログインでも同じ資格情報でトークンが取れること
	w := doRequest(router, http.MethodPost, "/api/v1/login", `{"email":"alice@example.com","password":"secret-password"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	// 3. コンテンツを2件登録（2件目はtypes省略でデフォルトのRandomになること）
	w = doRequest(router, http.MethodPost, "/api/v1/content",
		`{"link":"https://example.com/video","types":"Youtube","title":"面白い動画","tags":"video,funny"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("content create status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/v1/content",
		`{"link":"https://example.com/article","title":"技術記事","tags":"go,web"}`, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("content create status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var defaulted contentCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &defaulted); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}
	if defaulted.Content.Types != string(model.ContentTypeRandom) {
		t.Errorf("types = %q, want %q", defaulted.Content.Types, model.ContentTypeRandom)
	}

	// 4. 一覧に2件入っていること
	w = doRequest(router, http.MethodGet, "/api/v1/content", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("content list status = %d: %s", w.Code, w.Body.String())
	}
	var listResp contentListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to parse list response: %v", err)
	}
	if len(listResp.Content) != 2 {
		t.Fatalf("len(content) = %d, want 2", len(listResp.Content))
	}

	// 5. 共有を有効化して公開パスを得る
	w = doRequest(router, http.MethodPost, "/api/v1/share", `{"share":true}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("share enable status = %d: %s", w.Code, w.Body.String())
	}
	var enableResp shareEnabledResponse
	if err := json.Unmarshal(w.Body.Bytes(), &enableResp); err != nil {
		t.Fatalf("failed to parse share response: %v", err)
	}
	shareToken := strings.TrimPrefix(enableResp.SharedLink, "/share/")
	if shareToken == "" || shareToken == enableResp.SharedLink {
		t.Fatalf("unexpected sharedLink: %q", enableResp.SharedLink)
	}

	// 6. 匿名アクセスで共有コンテンツが見えること
	w = doRequest(router, http.MethodGet, "/api/v1/share/"+shareToken, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("share resolve status = %d: %s", w.Code, w.Body.String())
	}
	var resolved sharedContentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resolved); err != nil {
		t.Fatalf("failed to parse resolved response: %v", err)
	}
	if resolved.Username != "alice" {
		t.Errorf("username = %q, want %q", resolved.Username, "alice")
	}
	if len(resolved.Content) != 2 {
		t.Errorf("len(shared content) = %d, want 2", len(resolved.Content))
	}

	// 7. 共有を取り消すと同じトークンが無効になること
	w = doRequest(router, http.MethodPost, "/api/v1/share", `{"share":false}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("share disable status = %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/v1/share/"+shareToken, "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("revoked share resolve status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestScenario_ShareReEnableRotatesToken は共有の再有効化で
// 古いトークンが無効化され新しいトークンに置き換わることを検証する。
func TestScenario_ShareReEnableRotatesToken(t *testing.T) {
	router := newIntegrationRouter(t)
	token := signupAndGetToken(t, router, "alice", "alice@example.com")

	w := doRequest(router, http.MethodPost, "/api/v1/share", `{"share":true}`, token)
	var first shareEnabledResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to parse first share response: %v", err)
	}

	w = doRequest(router, http.MethodPost, "/api/v1/share", `{"share":true}`, token)
	var second shareEnabledResponse
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to parse second share response: %v", err)
	}

	if first.SharedLink == second.SharedLink {
		t.Errorf("re-enable returned same sharedLink: %q", first.SharedLink)
	}

	// 古いトークンは無効
	oldToken := strings.TrimPrefix(first.SharedLink, "/share/")
	w = doRequest(router, http.MethodGet, "/api/v1/share/"+oldToken, "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("old token resolve status = %d, want %d", w.Code, http.StatusNotFound)
	}

	// 新しいトークンは有効
	newToken := strings.TrimPrefix(second.SharedLink, "/share/")
	w = doRequest(router, http.MethodGet, "/api/v1/share/"+newToken, "", "")
	if w.Code != http.StatusOK {
		t.Errorf("new token resolve status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestScenario_CrossUserDeleteIsolation は他ユーザーのコンテンツを
// 削除できないことをルーター経由で検証する。
func TestScenario_CrossUserDeleteIsolation(t *testing.T) {
	router := newIntegrationRouter(t)

	aliceToken := signupAndGetToken(t, router, "alice", "alice@example.com")
	bobToken := signupAndGetToken(t, router, "bobby", "bob@example.com")

	// aliceがコンテンツを1件登録
	body := `{"link":"https://example.com/secret","title":"aliceのメモ","tags":"private"}`
	w := doRequest(router, http.MethodPost, "/api/v1/content", body, aliceToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("content create status = %d: %s", w.Code, w.Body.String())
	}
	var created contentCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}

	// bobがaliceのコンテンツIDで削除を試みる → 404（存在は明かさない）
	w = doRequest(router, http.MethodDelete, "/api/v1/delete/"+created.Content.ID, "", bobToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want %d", w.Code, http.StatusNotFound)
	}

	// aliceのコンテンツは残っている
	w = doRequest(router, http.MethodGet, "/api/v1/content", "", aliceToken)
	var listResp contentListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to parse list response: %v", err)
	}
	if len(listResp.Content) != 1 {
		t.Errorf("alice content count = %d, want 1", len(listResp.Content))
	}

	// 本人なら削除できる
	w = doRequest(router, http.MethodDelete, "/api/v1/delete/"+created.Content.ID, "", aliceToken)
	if w.Code != http.StatusOK {
		t.Errorf("owner delete status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestScenario_DuplicateSignup は同一メールアドレスでの再登録が409になることを検証する。
func TestScenario_DuplicateSignup(t *testing.T) {
	router := newIntegrationRouter(t)
	signupAndGetToken(t, router, "alice", "alice@example.com")

	body := `{"username":"alice2","email":"alice@example.com","password":"another-password"}`
	w := doRequest(router, http.MethodPost, "/api/v1/signup", body, "")
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want %d", w.Code, http.StatusConflict)
	}
}
