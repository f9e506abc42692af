// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/linkstash/internal/auth"
	"github.com/hitoshi/linkstash/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup はユーザーを登録し、セッショントークンを返す。
	Signup(ctx context.Context, params auth.SignupParams) (string, error)
	// Login は認証情報を検証し、セッショントークンを返す。
	Login(ctx context.Context, params auth.LoginParams) (string, error)
}

// AuthHandler はサインアップ・ログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// --- リクエスト/レスポンス型 ---

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse はトークン発行のレスポンス。
// サインアップとログインで同一の形を返す。
type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Signup はユーザーを登録する。
// POST /api/v1/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	token, err := h.service.Signup(r.Context(), auth.SignupParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		Message: "ユーザー登録が完了しました。",
		Token:   token,
	})
}

// Login は認証情報を検証してトークンを発行する。
// POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	token, err := h.service.Login(r.Context(), auth.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Message: "ログインしました。",
		Token:   token,
	})
}

// invalidBodyError はJSONボディの解析失敗エラーを生成する。
func invalidBodyError() *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeValidationFailed,
		Message:  "リクエストボディをJSONとして解析できません。",
		Category: "validation",
		Action:   "リクエストボディの形式を確認してください。",
	}
}
