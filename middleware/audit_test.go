package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuditTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(emailKey, "host@uni.es") })
	router.Use(AuditLogger(gdb))
	return router, mock
}

func TestAuditLoggerRecordsRouteEntityID(t *testing.T) {
	router, mock := newAuditTestRouter(t)
	router.POST("/lobbies/:lobbyId/close", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Lobby closed"})
	})

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WithArgs("host@uni.es", "POST", "lobbies", "42",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"audit_log_id"}).AddRow(1))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/42/close", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-Id"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLoggerUsesLocationHeaderOnCreate(t *testing.T) {
	router, mock := newAuditTestRouter(t)
	router.POST("/lobbies", func(c *gin.Context) {
		c.Header("Location", "/lobbies/5")
		c.JSON(http.StatusCreated, gin.H{"lobbyId": 5})
	})

	// No :lobbyId segment, the created id comes from Location
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WithArgs("host@uni.es", "POST", "lobbies", "5",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"audit_log_id"}).AddRow(1))

	body := []byte(`{"name": "Test Lobby"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLoggerSkipsReads(t *testing.T) {
	router, mock := newAuditTestRouter(t)
	router.GET("/lobbies", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/lobbies", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLoggerKeepsCallerCorrelationID(t *testing.T) {
	router, mock := newAuditTestRouter(t)
	router.POST("/lobbies/:lobbyId/close", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Lobby closed"})
	})

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WithArgs("host@uni.es", "POST", "lobbies", "42",
			sqlmock.AnyArg(), "corr-123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"audit_log_id"}).AddRow(1))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/lobbies/42/close", nil)
	req.Header.Set("X-Correlation-Id", "corr-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "corr-123", w.Header().Get("X-Correlation-Id"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
