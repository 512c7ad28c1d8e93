package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/catalog"
	"github.com/Sainava/Wiz-Scholar/internal/classifier"
	"github.com/Sainava/Wiz-Scholar/internal/domain"
	"github.com/Sainava/Wiz-Scholar/internal/repository"
)

// SortingService orchestrates the quiz lifecycle: start, answer, end and
// direct prediction. After every answer it reruns the scoring engine and
// predictor over the full history.
type SortingService struct {
	logger    *zap.Logger
	catalog   atomic.Pointer[catalog.Catalog]
	store     repository.SessionStore
	scoring   *ScoringEngine
	predictor *Predictor
	results   repository.ResultRepository // optional archive
}

// NewSortingService wires the controller. cat and results may be nil: a
// nil catalog leaves the service not ready, a nil results disables the
// archive.
func NewSortingService(
	logger *zap.Logger,
	cat *catalog.Catalog,
	store repository.SessionStore,
	weights *WeightTable,
	model classifier.Model,
	results repository.ResultRepository,
) *SortingService {
	s := &SortingService{
		logger:    logger,
		store:     store,
		scoring:   NewScoringEngine(weights),
		predictor: NewPredictor(model),
		results:   results,
	}
	if cat != nil {
		s.catalog.Store(cat)
	}
	return s
}

// Ready reports whether the question catalog is loaded.
func (s *SortingService) Ready() bool {
	return s.catalog.Load() != nil
}

// AIStatus summarizes collaborator availability for the health endpoint.
func (s *SortingService) AIStatus() string {
	if !s.Ready() {
		return "no_catalog"
	}
	if !s.predictor.model.Available() {
		return "no_model"
	}
	return "ready"
}

// ReplaceCatalog swaps the question bank. In-flight sessions keep their
// snapshotted answer history; new answers validate against the new bank.
func (s *SortingService) ReplaceCatalog(cat *catalog.Catalog) {
	s.catalog.Store(cat)
}

// Questions returns the catalog in order.
func (s *SortingService) Questions() ([]domain.Question, error) {
	cat := s.catalog.Load()
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrServiceUnavailable)
	}
	return cat.Questions(), nil
}

const (
	defaultRecentResults = 10
	maxRecentResults     = 50
)

// StartResult is the response of Start.
type StartResult struct {
	SessionID     string
	FirstQuestion *domain.Question
}

// AnswerResult is the response of Answer.
type AnswerResult struct {
	NextQuestion   *domain.Question
	Prediction     *domain.Prediction
	ShouldContinue bool
	QuestionsAsked int
	GameComplete   bool
}

// Start creates a fresh session, silently overwriting any existing one
// with the same id, and returns the first catalog question. An empty
// sessionID gets a generated one. Both collaborators must be loaded:
// new sessions refuse to start without a catalog or a classifier model,
// while already-running flows keep working heuristic-only.
func (s *SortingService) Start(ctx context.Context, sessionID string) (StartResult, error) {
	cat := s.catalog.Load()
	if cat == nil {
		return StartResult{}, fmt.Errorf("%w: catalog not loaded", domain.ErrServiceUnavailable)
	}
	if !s.predictor.model.Available() {
		return StartResult{}, fmt.Errorf("%w: classifier model not loaded", domain.ErrServiceUnavailable)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session := domain.NewSortingSession(sessionID)
	if err := s.store.Put(ctx, session); err != nil {
		return StartResult{}, fmt.Errorf("store session: %w", err)
	}

	result := StartResult{SessionID: sessionID}
	if first, ok := cat.FirstUnasked(nil); ok {
		result.FirstQuestion = &first
	}
	s.logger.Info("sorting session started", zap.String("session_id", sessionID))
	return result, nil
}

// Answer validates and applies one answer, then recomputes the trait
// vector and prediction over the whole history. Validation precedes
// mutation: a rejected answer leaves the session untouched.
func (s *SortingService) Answer(ctx context.Context, sessionID, questionID string, optionIndex int) (AnswerResult, error) {
	cat := s.catalog.Load()
	if cat == nil {
		return AnswerResult{}, fmt.Errorf("%w: catalog not loaded", domain.ErrServiceUnavailable)
	}

	// The session lookup comes first so an absent session reports
	// ErrSessionNotFound even when the question is also bad. An fn error
	// leaves the stored session untouched.
	session, err := s.store.Update(ctx, sessionID, func(session *domain.SortingSession) error {
		question, err := cat.QuestionByID(questionID)
		if err != nil {
			return fmt.Errorf("%w: unknown question %q", domain.ErrInvalidAnswer, questionID)
		}
		if optionIndex < 0 || optionIndex >= len(question.Options) {
			return fmt.Errorf("%w: option %d out of range for %q", domain.ErrInvalidAnswer, optionIndex, questionID)
		}
		if session.HasAnswered(questionID) {
			return fmt.Errorf("%w: question %q already answered", domain.ErrInvalidAnswer, questionID)
		}
		session.RecordAnswer(questionID, optionIndex, question.Options[optionIndex])
		return nil
	})
	if err != nil {
		return AnswerResult{}, err
	}

	result := AnswerResult{QuestionsAsked: len(session.Asked)}
	if traits, ok := s.scoring.TraitVector(session); ok {
		prediction := s.predictor.Predict(traits, s.scoring.WeightedScores(session), s.scoring.Indicators(session))
		result.Prediction = &prediction
	}
	if next, ok := cat.FirstUnasked(session.Asked); ok {
		result.NextQuestion = &next
		result.ShouldContinue = true
	} else {
		result.GameComplete = true
	}

	if result.GameComplete && result.Prediction != nil {
		s.logger.Info("sorting complete",
			zap.String("session_id", sessionID),
			zap.String("house", result.Prediction.House),
			zap.Float64("confidence", result.Prediction.Confidence),
		)
		s.archive(sessionID, *result.Prediction, len(session.Asked))
	}

	return result, nil
}

// archive persists a completed sorting asynchronously; failures are
// logged, never surfaced to the player.
func (s *SortingService) archive(sessionID string, prediction domain.Prediction, answered int) {
	if s.results == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.results.Archive(ctx, domain.SortingResult{
			ID:                uuid.NewString(),
			SessionID:         sessionID,
			House:             prediction.House,
			Confidence:        prediction.Confidence,
			Traits:            prediction.Traits,
			Probabilities:     prediction.Probabilities,
			QuestionsAnswered: answered,
			CreatedAt:         time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("archive sorting result failed", zap.Error(err), zap.String("session_id", sessionID))
		}
	}()
}

// RecentResults returns archived outcomes for a session, newest first.
// Fails with ErrServiceUnavailable when no archive is configured.
func (s *SortingService) RecentResults(ctx context.Context, sessionID string, limit int) ([]domain.SortingResult, error) {
	if s.results == nil {
		return nil, fmt.Errorf("%w: result archive not configured", domain.ErrServiceUnavailable)
	}
	if limit <= 0 || limit > maxRecentResults {
		limit = defaultRecentResults
	}
	return s.results.RecentBySession(ctx, sessionID, limit)
}

// End removes the session from the store.
func (s *SortingService) End(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("sorting session ended", zap.String("session_id", sessionID))
	return nil
}

// PredictDirect runs the predictor over a caller-supplied trait vector,
// bypassing the question flow. Out-of-range traits are clamped.
func (s *SortingService) PredictDirect(traits domain.TraitVector) domain.Prediction {
	for _, h := range domain.Houses {
		traits.SetForHouse(h, traits.ForHouse(h))
	}
	return s.predictor.Predict(traits, nil, nil)
}
