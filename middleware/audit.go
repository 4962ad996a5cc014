package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogger records every mutating request on the authenticated
// routes: who did it, to what, with which payload, under which
// correlation id. Reads pass through untouched. A failed insert is
// logged and never fails the request itself.
func AuditLogger(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		correlationID := c.GetHeader("X-Correlation-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Set("correlationId", correlationID)
		c.Header("X-Correlation-Id", correlationID)

		// Buffer the body so the handler can still read it
		var payload []byte
		if c.Request.Body != nil {
			payload, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(payload))
		}

		c.Next()

		if len(payload) == 0 || !json.Valid(payload) {
			payload = []byte("{}")
		}

		email, _ := CallerEmail(c)
		entry := postgres.AuditLog{
			ActorEmail:    email,
			Action:        method,
			EntityType:    entityType(c.FullPath()),
			EntityID:      entityID(c),
			Details:       datatypes.JSON(payload),
			CorrelationID: correlationID,
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Printf("[AUDIT-ERROR] failed to record %s %s: %v", method, c.FullPath(), err)
		}
	}
}

// entityType is the first segment of the route, e.g. "lobbies" for
// /lobbies/:lobbyId/close.
func entityType(fullPath string) string {
	parts := strings.Split(strings.TrimPrefix(fullPath, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// entityID is the lobby route segment: a numeric id on most routes,
// the join code on the join route. Creations have no id in the path,
// so the freshly assigned id comes from the Location header.
func entityID(c *gin.Context) string {
	if id := c.Param("lobbyId"); id != "" {
		return id
	}
	if loc := c.Writer.Header().Get("Location"); loc != "" {
		return path.Base(loc)
	}
	return ""
}
