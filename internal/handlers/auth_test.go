package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskflow-api/internal/constants"
	"github.com/yukikurage/taskflow-api/internal/middleware"
	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/repository"
	"github.com/yukikurage/taskflow-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	authService := services.NewAuthService(repository.NewUserRepository(db))
	handler := NewAuthHandler(authService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.LoadSession())
	r.POST("/auth/signup", handler.Signup)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/logout", handler.Logout)
	r.GET("/auth/me", handler.GetCurrentUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env authTestEnv) do(t *testing.T, method, url string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// mergeCookies applies a response's Set-Cookie headers to a simple jar,
// honoring deletions.
func mergeCookies(jar []*http.Cookie, resp *http.Response) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	for _, c := range jar {
		byName[c.Name] = c
	}
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(byName, c.Name)
			continue
		}
		byName[c.Name] = c
	}
	merged := make([]*http.Cookie, 0, len(byName))
	for _, c := range byName {
		merged = append(merged, c)
	}
	return merged
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "John",
		"email":    "john@x.com",
		"password": "pw",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "User registered successfully", response.Message)
	require.NotEmpty(t, response.User.ID)
	require.Equal(t, "john@x.com", response.User.Email)

	// The password hash never appears on the wire.
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), "hash")

	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name": "John", "email": "john@x.com", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name": "John Again", "email": "john@x.com", "password": "pw2",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Email already exists", response.Message)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name: "John", Email: "john@x.com", Password: "pw",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "john@x.com", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message string `json:"message"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Login successful", response.Message)
	require.Equal(t, "john@x.com", response.User.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	// The issued session resolves back to the same user.
	w = env.do(t, http.MethodGet, "/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "john@x.com", me.Email)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name: "John", Email: "john@x.com", Password: "pw",
	})
	require.NoError(t, err)

	var response struct {
		Message string `json:"message"`
	}

	w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "john@x.com", "password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Invalid credentials", response.Message)

	// Unknown email responds identically to a wrong password.
	w = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "ghost@x.com", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Invalid credentials", response.Message)
}

func TestAuthHandler_Me_NotAuthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Not authenticated", response.Message)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name: "John", Email: "john@x.com", Password: "pw",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "john@x.com", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	jar := mergeCookies(nil, w.Result())

	w = env.do(t, http.MethodPost, "/auth/logout", nil, jar)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Logout successful", response.Message)

	// The destroyed session no longer resolves.
	jar = mergeCookies(jar, w.Result())
	w = env.do(t, http.MethodGet, "/auth/me", nil, jar)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
