package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	agentapp "github.com/sopas/backend/internal/application/agent"
	catalogapp "github.com/sopas/backend/internal/application/catalog"
	identityapp "github.com/sopas/backend/internal/application/identity"
	"github.com/sopas/backend/internal/application/importer"
	partyapp "github.com/sopas/backend/internal/application/party"
	storeapp "github.com/sopas/backend/internal/application/store"
	tradeapp "github.com/sopas/backend/internal/application/trade"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/infrastructure/auth"
	"github.com/sopas/backend/internal/infrastructure/config"
	"github.com/sopas/backend/internal/infrastructure/mail"
	"github.com/sopas/backend/internal/infrastructure/otp"
	"github.com/sopas/backend/internal/infrastructure/persistence"
	"github.com/sopas/backend/internal/interfaces/http/middleware"
)

// testEnv wires the full stack over an in-memory database
type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
	otps   *otp.InMemoryOTPStore
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, persistence.AutoMigrate(db))

	logger := zap.NewNop()
	alloc := numbering.NewAllocator(persistence.NewGormSequenceStore(db))
	txm := persistence.NewGormTxManager(db)

	partyRepo := persistence.NewGormPartyRepository(db)
	agentRepo := persistence.NewGormAgentRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	subscriptionRepo := persistence.NewGormSubscriptionOrderRepository(db)
	recordRepo := persistence.NewGormImportRecordRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "sopas-test",
	})
	otps := otp.NewInMemoryOTPStore()
	sender := mail.NewLogSender(logger, config.MailConfig{Enabled: false})

	authService := identityapp.NewAuthService(userRepo, subscriptionRepo, otps, alloc, txm, jwtService, sender, logger)
	uploadCfg := config.UploadConfig{MaxFileSize: 1 << 20, TempDir: t.TempDir()}

	handlers := []interface{ RegisterRoutes(rg *gin.RouterGroup) }{
		NewAuthHandler(authService),
		NewUserHandler(authService),
		NewPartyHandler(partyapp.NewService(partyRepo, alloc, txm, logger)),
		NewAgentHandler(agentapp.NewService(agentRepo, alloc, txm, logger)),
		NewStoreHandler(storeapp.NewService(storeRepo, alloc, txm, logger)),
		NewOrderHandler(tradeapp.NewService(orderRepo, alloc, txm, logger)),
		NewProductHandler(catalogapp.NewService(productRepo, alloc, txm, logger)),
		NewSubscriptionHandler(identityapp.NewSubscriptionService(subscriptionRepo)),
		NewImportHandler(
			importer.NewPartyImporter(partyRepo, alloc, txm, recordRepo, logger),
			importer.NewAgentImporter(agentRepo, alloc, txm, recordRepo, logger),
			importer.NewStoreImporter(storeRepo, alloc, txm, recordRepo, logger),
			importer.NewHistoryService(recordRepo),
			uploadCfg,
		),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuthMiddleware(jwtService))
	api := engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return &testEnv{engine: engine, db: db, jwt: jwtService, otps: otps}
}

// registerAndLogin runs the register / verify / login flow and returns
// a bearer token for the created account
func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	w := e.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"first_name": "Asha",
		"email":      email,
		"password":   "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	code, err := e.otps.Get(t.Context(), email)
	require.NoError(t, err)

	w = e.doJSON(t, http.MethodPost, "/api/v1/auth/verify-otp", "", map[string]any{
		"email": email,
		"otp":   code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Tokens struct {
				AccessToken string `json:"access_token"`
			} `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Tokens.AccessToken)
	return resp.Data.Tokens.AccessToken
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doUpload(t *testing.T, path, token, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
