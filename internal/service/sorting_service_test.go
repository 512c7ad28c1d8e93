package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/catalog"
	"github.com/Sainava/Wiz-Scholar/internal/classifier"
	"github.com/Sainava/Wiz-Scholar/internal/domain"
	"github.com/Sainava/Wiz-Scholar/internal/repository"
)

// stubModel is an always-available classifier collaborator for tests.
type stubModel struct{}

func (stubModel) Predict([]float64) (string, map[string]float64) {
	return domain.HouseGryffindor, map[string]float64{
		domain.HouseGryffindor: 0.7,
		domain.HouseHufflepuff: 0.1,
		domain.HouseRavenclaw:  0.1,
		domain.HouseSlytherin:  0.1,
	}
}
func (stubModel) Type() string    { return "stub" }
func (stubModel) Available() bool { return true }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]domain.Question{
		{
			ID:   "q1",
			Text: "A locked door blocks your way.",
			Options: []domain.Option{
				{Text: "Kick it open", Scores: map[string]int{domain.HouseGryffindor: 5}},
				{Text: "Knock and wait", Scores: map[string]int{domain.HouseHufflepuff: 5}},
			},
		},
		{
			ID:   "q2",
			Text: "Pick a pet.",
			Options: []domain.Option{
				{Text: "Owl", Scores: map[string]int{domain.HouseRavenclaw: 5}},
				{Text: "Serpent", Scores: map[string]int{domain.HouseSlytherin: 5}},
			},
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func newTestService(t *testing.T, cat *catalog.Catalog) *SortingService {
	t.Helper()
	return NewSortingService(zap.NewNop(), cat, repository.NewMemorySessionStore(), NewWeightTable(nil, nil), stubModel{}, nil)
}

func TestStartWithoutCatalog(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Start(context.Background(), "s1"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if _, err := svc.Questions(); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestStartRequiresModel(t *testing.T) {
	svc := NewSortingService(zap.NewNop(), testCatalog(t), repository.NewMemorySessionStore(), NewWeightTable(nil, nil), classifier.NoModel{}, nil)
	if _, err := svc.Start(context.Background(), "s1"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable without a model, got %v", err)
	}
	// Direct prediction stays heuristic-only.
	pred := svc.PredictDirect(domain.TraitVector{Bravery: 8, Loyalty: 4, Wisdom: 4, Ambition: 4})
	if pred.House != domain.HouseGryffindor {
		t.Fatalf("expected heuristic prediction, got %s", pred.House)
	}
	if pred.Model != nil {
		t.Fatalf("expected no model comparison, got %+v", pred.Model)
	}
}

func TestStartReturnsFirstQuestion(t *testing.T) {
	svc := newTestService(t, testCatalog(t))

	result, err := svc.Start(context.Background(), "s1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.SessionID != "s1" {
		t.Fatalf("expected session id preserved, got %q", result.SessionID)
	}
	if result.FirstQuestion == nil || result.FirstQuestion.ID != "q1" {
		t.Fatalf("expected first question q1, got %+v", result.FirstQuestion)
	}
}

func TestStartGeneratesSessionID(t *testing.T) {
	svc := newTestService(t, testCatalog(t))
	result, err := svc.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
}

func TestStartOverwritesExistingSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testCatalog(t))

	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Answer(ctx, "s1", "q1", 0); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("restart: %v", err)
	}

	// The restarted session accepts q1 again: history was reset.
	result, err := svc.Answer(ctx, "s1", "q1", 1)
	if err != nil {
		t.Fatalf("answer after restart: %v", err)
	}
	if result.QuestionsAsked != 1 {
		t.Fatalf("expected fresh history, got %d questions asked", result.QuestionsAsked)
	}
}

func TestAnswerValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testCatalog(t))
	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	t.Run("unknown session", func(t *testing.T) {
		if _, err := svc.Answer(ctx, "ghost", "q1", 0); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("unknown question", func(t *testing.T) {
		if _, err := svc.Answer(ctx, "s1", "q99", 0); !errors.Is(err, domain.ErrInvalidAnswer) {
			t.Fatalf("expected ErrInvalidAnswer, got %v", err)
		}
	})

	t.Run("unknown session wins over unknown question", func(t *testing.T) {
		if _, err := svc.Answer(ctx, "ghost", "q99", 0); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("option out of range", func(t *testing.T) {
		if _, err := svc.Answer(ctx, "s1", "q1", 2); !errors.Is(err, domain.ErrInvalidAnswer) {
			t.Fatalf("expected ErrInvalidAnswer, got %v", err)
		}
		if _, err := svc.Answer(ctx, "s1", "q1", -1); !errors.Is(err, domain.ErrInvalidAnswer) {
			t.Fatalf("expected ErrInvalidAnswer, got %v", err)
		}
	})
}

func TestAnswerDuplicateRejectedWithoutMutation(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	store := repository.NewMemorySessionStore()
	svc := NewSortingService(zap.NewNop(), cat, store, NewWeightTable(nil, nil), stubModel{}, nil)

	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Answer(ctx, "s1", "q1", 0); err != nil {
		t.Fatalf("answer: %v", err)
	}

	before, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := svc.Answer(ctx, "s1", "q1", 1); !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for duplicate, got %v", err)
	}

	after, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(after.Asked) != len(before.Asked) {
		t.Fatalf("asked list changed: %v vs %v", after.Asked, before.Asked)
	}
	for _, h := range domain.Houses {
		if after.Scores[h] != before.Scores[h] {
			t.Fatalf("raw score for %s changed: %d vs %d", h, after.Scores[h], before.Scores[h])
		}
	}
}

func TestAnswerFlowUntilComplete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testCatalog(t))
	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	first, err := svc.Answer(ctx, "s1", "q1", 0)
	if err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if first.GameComplete {
		t.Fatalf("game complete after 1 of 2 questions")
	}
	if !first.ShouldContinue {
		t.Fatalf("expected should_continue after first answer")
	}
	if first.NextQuestion == nil || first.NextQuestion.ID != "q2" {
		t.Fatalf("expected next question q2, got %+v", first.NextQuestion)
	}
	if first.Prediction == nil {
		t.Fatalf("expected a prediction after the first answer")
	}
	if first.QuestionsAsked != 1 {
		t.Fatalf("expected 1 question asked, got %d", first.QuestionsAsked)
	}

	second, err := svc.Answer(ctx, "s1", "q2", 0)
	if err != nil {
		t.Fatalf("answer q2: %v", err)
	}
	if !second.GameComplete {
		t.Fatalf("expected game complete at catalog size")
	}
	if second.ShouldContinue {
		t.Fatalf("expected should_continue false at completion")
	}
	if second.NextQuestion != nil {
		t.Fatalf("expected no next question, got %+v", second.NextQuestion)
	}
	if second.QuestionsAsked != 2 {
		t.Fatalf("expected 2 questions asked, got %d", second.QuestionsAsked)
	}
	if second.Prediction == nil {
		t.Fatalf("expected final prediction")
	}
}

func TestDeterministicAcrossSessions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testCatalog(t))

	run := func(id string) domain.Prediction {
		if _, err := svc.Start(ctx, id); err != nil {
			t.Fatalf("start %s: %v", id, err)
		}
		if _, err := svc.Answer(ctx, id, "q1", 0); err != nil {
			t.Fatalf("answer q1: %v", err)
		}
		result, err := svc.Answer(ctx, id, "q2", 1)
		if err != nil {
			t.Fatalf("answer q2: %v", err)
		}
		return *result.Prediction
	}

	a, b := run("s1"), run("s2")
	if a.House != b.House || a.Traits != b.Traits {
		t.Fatalf("identical answers diverged: %+v vs %+v", a, b)
	}
	for _, h := range domain.Houses {
		if a.Probabilities[h] != b.Probabilities[h] {
			t.Fatalf("probability for %s diverged: %v vs %v", h, a.Probabilities[h], b.Probabilities[h])
		}
	}
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testCatalog(t))
	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.End(ctx, "s1"); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := svc.End(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second end, got %v", err)
	}
	if err := svc.End(ctx, "never-existed"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPredictDirectClampsTraits(t *testing.T) {
	svc := newTestService(t, nil)

	pred := svc.PredictDirect(domain.TraitVector{Bravery: 15, Loyalty: -2, Wisdom: 4, Ambition: 4})
	if pred.Traits.Bravery != 10 || pred.Traits.Loyalty != 1 {
		t.Fatalf("expected clamped traits, got %+v", pred.Traits)
	}
	if pred.House != domain.HouseGryffindor {
		t.Fatalf("expected Gryffindor, got %s", pred.House)
	}
}

type captureResultRepo struct {
	archived chan domain.SortingResult
}

func (r *captureResultRepo) Archive(_ context.Context, result domain.SortingResult) error {
	r.archived <- result
	return nil
}

func (r *captureResultRepo) RecentBySession(context.Context, string, int) ([]domain.SortingResult, error) {
	return nil, nil
}

// recentResultRepo serves canned archive lookups and records the limit.
type recentResultRepo struct {
	results   []domain.SortingResult
	lastLimit int
}

func (r *recentResultRepo) Archive(context.Context, domain.SortingResult) error { return nil }

func (r *recentResultRepo) RecentBySession(_ context.Context, sessionID string, limit int) ([]domain.SortingResult, error) {
	r.lastLimit = limit
	var out []domain.SortingResult
	for _, res := range r.results {
		if res.SessionID == sessionID {
			out = append(out, res)
		}
	}
	return out, nil
}

func TestRecentResults(t *testing.T) {
	ctx := context.Background()
	repo := &recentResultRepo{results: []domain.SortingResult{
		{ID: "r1", SessionID: "s1", House: domain.HouseRavenclaw},
		{ID: "r2", SessionID: "s2", House: domain.HouseSlytherin},
	}}
	svc := NewSortingService(zap.NewNop(), testCatalog(t), repository.NewMemorySessionStore(), NewWeightTable(nil, nil), stubModel{}, repo)

	results, err := svc.RecentResults(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r1" {
		t.Fatalf("expected only s1 results, got %+v", results)
	}
	if repo.lastLimit != defaultRecentResults {
		t.Fatalf("expected default limit %d for 0, got %d", defaultRecentResults, repo.lastLimit)
	}

	if _, err := svc.RecentResults(ctx, "s1", maxRecentResults+1); err != nil {
		t.Fatalf("recent results: %v", err)
	}
	if repo.lastLimit != defaultRecentResults {
		t.Fatalf("expected oversized limit reset to %d, got %d", defaultRecentResults, repo.lastLimit)
	}
}

func TestRecentResultsWithoutArchive(t *testing.T) {
	svc := newTestService(t, testCatalog(t))
	if _, err := svc.RecentResults(context.Background(), "s1", 5); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable without archive, got %v", err)
	}
}

func TestCompletionArchivesResult(t *testing.T) {
	ctx := context.Background()
	repo := &captureResultRepo{archived: make(chan domain.SortingResult, 1)}
	svc := NewSortingService(zap.NewNop(), testCatalog(t), repository.NewMemorySessionStore(), NewWeightTable(nil, nil), stubModel{}, repo)

	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Answer(ctx, "s1", "q1", 0); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	result, err := svc.Answer(ctx, "s1", "q2", 0)
	if err != nil {
		t.Fatalf("answer q2: %v", err)
	}

	select {
	case archived := <-repo.archived:
		if archived.SessionID != "s1" {
			t.Fatalf("expected session s1 archived, got %q", archived.SessionID)
		}
		if archived.House != result.Prediction.House {
			t.Fatalf("archived house %q does not match prediction %q", archived.House, result.Prediction.House)
		}
		if archived.QuestionsAnswered != 2 {
			t.Fatalf("expected 2 questions archived, got %d", archived.QuestionsAnswered)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected result to be archived")
	}
}
