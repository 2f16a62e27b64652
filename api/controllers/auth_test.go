package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/parkline-app/parkline-backend/internal/auth"
	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
)

type stubAuthService struct {
	response *auth.AuthResponse
	me       *users.UserDTO
	err      error
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.me, nil
}

func TestAuthRegisterSuccess(t *testing.T) {
	response := &auth.AuthResponse{
		Token: "signed-token",
		User: &users.UserDTO{
			ID:    uuid.New(),
			Email: "rider@example.com",
			Role:  enums.RoleUser,
		},
	}
	handler := AuthRegister(stubAuthService{response: response}, testLogger())

	payload, _ := json.Marshal(map[string]string{
		"name":     "Demo Rider",
		"email":    "rider@example.com",
		"password": "super-secret-pw",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", jsonBody(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data auth.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("expected token in response, got %q", envelope.Data.Token)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "rider@example.com" {
		t.Fatalf("unexpected user payload %+v", envelope.Data.User)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	handler := AuthRegister(stubAuthService{}, testLogger())

	payload, _ := json.Marshal(map[string]string{
		"name":     "Demo Rider",
		"email":    "rider@example.com",
		"password": "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", jsonBody(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected validation failure got %d", rec.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	handler := AuthLogin(stubAuthService{
		err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password"),
	}, testLogger())

	payload, _ := json.Marshal(map[string]string{
		"email":    "rider@example.com",
		"password": "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid email or password" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestAuthMeRequiresAuthContext(t *testing.T) {
	handler := AuthMe(stubAuthService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthMeSuccess(t *testing.T) {
	me := &users.UserDTO{ID: uuid.New(), Email: "rider@example.com", Role: enums.RoleUser}
	handler := AuthMe(stubAuthService{me: me}, testLogger())

	req := authedRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != me.ID {
		t.Fatalf("expected id %s got %s", me.ID, envelope.Data.ID)
	}
}
