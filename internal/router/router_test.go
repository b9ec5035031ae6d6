package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duccv/user-auth-service/internal/handler"
	"github.com/duccv/user-auth-service/internal/middleware"
	"github.com/duccv/user-auth-service/internal/repository"
	"github.com/duccv/user-auth-service/internal/service"
	"github.com/duccv/user-auth-service/pkg/password"
	"github.com/duccv/user-auth-service/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t       *testing.T
	engine  *gin.Engine
	reasons []string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	tokens, err := token.NewService([]byte("router-test-secret"))
	require.NoError(t, err)
	repo := repository.NewMemoryUserRepository()
	hasher := password.NewBcryptHasher(password.WithCost(bcrypt.MinCost))

	api := &testAPI{t: t, engine: gin.New()}
	Register(api.engine, Handlers{
		Auth:  handler.NewAuthHandler(service.NewAuthService(repo, hasher, tokens, token.DefaultTTL)),
		Users: handler.NewUserHandler(service.NewUserService(repo, hasher)),
	}, tokens, middleware.WithRejectHook(func(reason string) {
		api.reasons = append(api.reasons, reason)
	}))
	return api
}

func (a *testAPI) do(method, path, body, bearer string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (a *testAPI) login(email, pass string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, pass), "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(decode(a.t, w).Data, &data))
	return data.Token
}

func (a *testAPI) registerAndLogin() string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login("alice@example.com", "secret1")
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Status)
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = api.do(http.MethodPost, "/api/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"email already registered"}`, w.Body.String())
}

func TestRegister_ValidationFailure(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/register", `{"name":"a","email":"not-an-email","password":"123"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t,
		`{"status":false,"message":"validation failed","data":{"name":["name must be at least 3 characters"],"email":["email is not valid"],"password":["password must be at least 6 characters"]}}`,
		w.Body.String())
}

func TestLogin_SameEnvelopeForUnknownEmailAndWrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin()

	wrong := api.do(http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"wrongpw"}`, "")
	unknown := api.do(http.MethodPost, "/api/login", `{"email":"bob@example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.JSONEq(t, `{"status":false,"message":"invalid email or password"}`, wrong.Body.String())
}

func TestLogin_LongerPasswordSharingPrefix(t *testing.T) {
	api := newTestAPI(t)
	secret := strings.Repeat("a", password.MaxSecretBytes)
	w := api.do(http.MethodPost, "/api/register", fmt.Sprintf(`{"name":"Alice","email":"alice@example.com","password":%q}`, secret), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/login", fmt.Sprintf(`{"email":"alice@example.com","password":%q}`, secret+"-not-my-password"), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"validation failed","data":{"password":["password must be at most 72 bytes"]}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "token")

	assert.NotEmpty(t, api.login("alice@example.com", secret))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"token not found"}`, w.Body.String())

	w = api.do(http.MethodGet, "/api/users", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"invalid token"}`, w.Body.String())

	// the gate runs before body validation
	w = api.do(http.MethodPost, "/api/users", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, []string{"missing_token", "malformed", "missing_token"}, api.reasons)
}

func TestUserCRUD(t *testing.T) {
	api := newTestAPI(t)
	tok := api.registerAndLogin()

	w := api.do(http.MethodPost, "/api/users", `{"name":"Bob","email":"bob@example.com","password":"secret1"}`, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bob struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &bob))

	w = api.do(http.MethodGet, "/api/users", "", tok)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "bob@example.com", list[0].Email, "newest first")

	path := fmt.Sprintf("/api/users/%d", bob.ID)

	w = api.do(http.MethodGet, path, "", tok)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = api.do(http.MethodGet, path, "", tok, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	w = api.do(http.MethodPut, path, `{"name":"Bob","email":"alice@example.com"}`, tok)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPut, path, `{"name":"Robert","email":"bob@example.com"}`, tok)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.login("bob@example.com", "secret1")

	w = api.do(http.MethodPut, path, `{"name":"Robert","email":"bob@example.com","password":"newsecret"}`, tok)
	assert.Equal(t, http.StatusOK, w.Code)
	api.login("bob@example.com", "newsecret")

	w = api.do(http.MethodGet, path, "", tok, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code, "representation changed")

	w = api.do(http.MethodDelete, path, "", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true,"message":"user deleted","data":null}`, w.Body.String())

	w = api.do(http.MethodDelete, path, "", tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"user not found"}`, w.Body.String())

	w = api.do(http.MethodGet, path, "", tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserByID_BadID(t *testing.T) {
	api := newTestAPI(t)
	tok := api.registerAndLogin()

	for _, path := range []string{"/api/users/abc", "/api/users/0"} {
		w := api.do(http.MethodGet, path, "", tok)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := api.do(http.MethodPut, "/api/users/1", `{"name":"x","email":"bad"}`, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodPut, "/api/users/1", `{"name":`, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
