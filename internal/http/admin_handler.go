package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/catalog"
	"github.com/Sainava/Wiz-Scholar/internal/service"
)

// AdminHandler exposes operator endpoints behind JWT auth.
type AdminHandler struct {
	logger        *zap.Logger
	svc           *service.SortingService
	tokens        *service.AdminTokenService
	questionsPath string
}

// NewAdminHandler builds an AdminHandler. questionsPath is the bank file
// reread on reload.
func NewAdminHandler(logger *zap.Logger, svc *service.SortingService, tokens *service.AdminTokenService, questionsPath string) *AdminHandler {
	return &AdminHandler{logger: logger, svc: svc, tokens: tokens, questionsPath: questionsPath}
}

// AdminAuthMiddleware validates operator bearer tokens.
func AdminAuthMiddleware(tokens *service.AdminTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tokens.Configured() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin endpoints not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		if _, err := tokens.ParseToken(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ReloadCatalog handles POST /api/admin/catalog/reload: rereads the
// question bank and swaps it in atomically. On failure the previous
// catalog stays active.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	cat, err := catalog.LoadFile(h.questionsPath)
	if err != nil {
		h.logger.Error("catalog reload failed", zap.Error(err), zap.String("path", h.questionsPath))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "catalog reload failed"})
		return
	}

	h.svc.ReplaceCatalog(cat)
	h.logger.Info("catalog reloaded", zap.String("path", h.questionsPath), zap.Int("questions", cat.Len()))
	c.JSON(http.StatusOK, gin.H{"reloaded": true, "questions": cat.Len()})
}

// RecentResults handles GET /api/admin/results/:session_id: archived
// outcomes for a session, newest first. 503 when no archive is configured.
func (h *AdminHandler) RecentResults(c *gin.Context) {
	sessionID := c.Param("session_id")
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.svc.RecentResults(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.logger.Warn("recent results lookup failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(statusForError(err), gin.H{"error": "result archive unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"results":    results,
		"count":      len(results),
	})
}
