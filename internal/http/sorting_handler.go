package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
	"github.com/Sainava/Wiz-Scholar/internal/service"
)

// SortingHandler exposes the sorting-hat quiz endpoints.
type SortingHandler struct {
	logger *zap.Logger
	svc    *service.SortingService
}

// NewSortingHandler builds a SortingHandler.
func NewSortingHandler(logger *zap.Logger, svc *service.SortingService) *SortingHandler {
	return &SortingHandler{logger: logger, svc: svc}
}

// statusForError maps the domain error taxonomy to HTTP codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Root handles GET /.
func (h *SortingHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wiz-Scholar AI Server is running!",
		"health":  "/health",
	})
}

// Health handles GET /health.
func (h *SortingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "AI server is running",
		"ai_status": h.svc.AIStatus(),
	})
}

// ListQuestions handles GET /api/sorting-hat/questions.
func (h *SortingHandler) ListQuestions(c *gin.Context) {
	questions, err := h.svc.Questions()
	if err != nil {
		h.logger.Warn("list questions failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "question catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}

// Start handles POST /api/sorting-hat/start.
func (h *SortingHandler) Start(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid start request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.svc.Start(c.Request.Context(), req.SessionID)
	if err != nil {
		h.logger.Warn("start session failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not start sorting session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       result.SessionID,
		"current_question": result.FirstQuestion,
		"prediction":       nil,
		"should_continue":  result.FirstQuestion != nil,
		"questions_asked":  0,
		"game_complete":    result.FirstQuestion == nil,
	})
}

// Answer handles POST /api/sorting-hat/answer.
func (h *SortingHandler) Answer(c *gin.Context) {
	var req struct {
		SessionID   string `json:"session_id" binding:"required"`
		QuestionID  string `json:"question_id" binding:"required"`
		AnswerIndex *int   `json:"answer_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.svc.Answer(c.Request.Context(), req.SessionID, req.QuestionID, *req.AnswerIndex)
	if err != nil {
		h.logger.Warn("answer rejected",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
			zap.String("question_id", req.QuestionID),
		)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_question": result.NextQuestion,
		"prediction":       result.Prediction,
		"should_continue":  result.ShouldContinue,
		"questions_asked":  result.QuestionsAsked,
		"game_complete":    result.GameComplete,
	})
}

// PredictDirect handles POST /api/sorting-hat/predict: a complete trait
// vector in, a prediction out, no session involved.
func (h *SortingHandler) PredictDirect(c *gin.Context) {
	var req struct {
		Bravery  *int `json:"bravery" binding:"required"`
		Loyalty  *int `json:"loyalty" binding:"required"`
		Wisdom   *int `json:"wisdom" binding:"required"`
		Ambition *int `json:"ambition" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid predict request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	prediction := h.svc.PredictDirect(domain.TraitVector{
		Bravery:  *req.Bravery,
		Loyalty:  *req.Loyalty,
		Wisdom:   *req.Wisdom,
		Ambition: *req.Ambition,
	})
	c.JSON(http.StatusOK, gin.H{"prediction": prediction})
}

// End handles POST /api/sorting-hat/end.
func (h *SortingHandler) End(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid end request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.End(c.Request.Context(), req.SessionID); err != nil {
		h.logger.Warn("end session failed", zap.Error(err), zap.String("session_id", req.SessionID))
		c.JSON(statusForError(err), gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ended": true, "session_id": req.SessionID})
}
