package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/moins/speechcoach/internal/logger"
	"github.com/moins/speechcoach/internal/middleware"
	"github.com/moins/speechcoach/internal/repository"
	"github.com/moins/speechcoach/internal/service"
)

type stubImprovementRepo struct {
	latest   *repository.UserImprovement
	inserted []*repository.UserImprovement
}

func (s *stubImprovementRepo) Insert(ctx context.Context, improvement *repository.UserImprovement) error {
	s.inserted = append(s.inserted, improvement)
	return nil
}

func (s *stubImprovementRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*repository.UserImprovement, error) {
	return s.latest, nil
}

func newImprovementHandler(gen service.TextGenerator, sessions repository.SessionRepository, repo repository.ImprovementRepository) *ImprovementHandler {
	log := logger.NewNop()
	return NewImprovementHandler(log, service.NewImprovementService(gen, sessions, repo, log))
}

func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestGenerateHandlerNoSessions(t *testing.T) {
	h := newImprovementHandler(&stubGenerator{reply: "practice pacing"}, &stubSessionRepo{}, &stubImprovementRepo{})

	rec := httptest.NewRecorder()
	h.Generate(rec, authedRequest(http.MethodPost, "/api/v1/improvements/generate", uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400\n%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "INSUFFICIENT_DATA" {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestGenerateHandlerSuccess(t *testing.T) {
	repo := &stubImprovementRepo{}
	sessions := &stubSessionRepo{transcriptions: []string{"first talk", "second talk"}}
	h := newImprovementHandler(&stubGenerator{reply: "slow down between points"}, sessions, repo)

	rec := httptest.NewRecorder()
	h.Generate(rec, authedRequest(http.MethodPost, "/api/v1/improvements/generate", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(repo.inserted))
	}
	env := decodeEnvelope(t, rec)
	var data struct {
		Summary string             `json:"summary"`
		Scores  map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data.Summary != "slow down between points" {
		t.Errorf("summary = %q", data.Summary)
	}
	if data.Scores["clarity"] != 4.1 {
		t.Errorf("clarity = %v, want 4.1", data.Scores["clarity"])
	}
}

func TestLatestHandlerNotFound(t *testing.T) {
	h := newImprovementHandler(&stubGenerator{}, &stubSessionRepo{}, &stubImprovementRepo{})

	rec := httptest.NewRecorder()
	h.Latest(rec, authedRequest(http.MethodPost, "/api/v1/improvements", uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404\n%s", rec.Code, rec.Body.String())
	}
}

func TestLatestHandlerOverall(t *testing.T) {
	repo := &stubImprovementRepo{
		latest: &repository.UserImprovement{
			Summary: "keep sentences short",
			Scores:  json.RawMessage(`{"clarity":4.1,"emotion":3.9,"pacing":4.3,"structure":4.0}`),
		},
	}
	h := newImprovementHandler(&stubGenerator{}, &stubSessionRepo{}, repo)

	rec := httptest.NewRecorder()
	h.Latest(rec, authedRequest(http.MethodPost, "/api/v1/improvements", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var data struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data.Scores["overall"] != 4.1 {
		t.Errorf("overall = %v, want 4.1", data.Scores["overall"])
	}
	if _, ok := data.Scores["structure"]; ok {
		t.Error("structure should not be returned")
	}
}
