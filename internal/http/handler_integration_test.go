//go:build integration

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/mocks"
	"github.com/guttosm/rdcredit-service/internal/repository"
	"github.com/guttosm/rdcredit-service/internal/service"
	"github.com/guttosm/rdcredit-service/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestPortal_RedisCacheAndActivityLog drives the portal against Redis and
// MongoDB and checks the activity log records each cache outcome.
func TestPortal_RedisCacheAndActivityLog(t *testing.T) {
	ctx := context.Background()

	db, err := repository.NewMongoDB(testutil.GetSharedContainerURI(), testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })
	logging := service.NewLoggingService(repository.NewLogsRepository(db))

	redisStore := cache.NewRedisStore(cache.RedisConfig{
		Addr:      testutil.GetSharedRedisAddr(),
		KeyPrefix: testutil.SanitizeDBName(t.Name()) + ":",
	})
	manager := cache.NewManager(redisStore, cache.WithSingleFlight())
	t.Cleanup(func() { _ = manager.Close() })

	store := &mocks.MockRecordStore{}
	customer := &model.Customer{ID: "recInt1", Email: "int@acme.io", Name: "Integration"}
	store.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil).Once()

	records := service.NewRecordService(store, manager)
	tokens := service.NewTokenService(service.TokenConfig{SecretKey: "integration", AccessTokenTTL: time.Hour})
	token, _, err := tokens.Issue(customer)
	require.NoError(t, err)

	cfg := DefaultRouterConfig()
	cfg.Cache = manager
	cfg.Records = records
	cfg.AuthService = service.NewAuthService(records, tokens)
	cfg.LoggingService = logging
	router := NewRouter(NewHealthHandler(), cfg)

	var outcomes []string
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/customers/"+customer.ID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		outcomes = append(outcomes, w.Header().Get(middleware.CacheHeader))
	}
	assert.Equal(t, []string{middleware.CacheMiss, middleware.CacheHit, middleware.CacheHit}, outcomes)
	store.AssertExpectations(t)

	opts := model.LogQueryOptions{CustomerID: customer.ID}
	require.Eventually(t, func() bool {
		stats, err := logging.CacheStats(ctx, opts)
		return err == nil && stats.Hits == 2 && stats.Misses == 1
	}, 10*time.Second, 100*time.Millisecond)
}

func TestReadiness_RedisCache(t *testing.T) {
	manager := cache.NewManager(cache.NewRedisStore(cache.RedisConfig{Addr: testutil.GetSharedRedisAddr()}))
	t.Cleanup(func() { _ = manager.Close() })

	h := NewHealthHandler()
	h.RegisterCache(manager)

	router := gin.New()
	h.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"cache":"ok"}}`, w.Body.String())
}
