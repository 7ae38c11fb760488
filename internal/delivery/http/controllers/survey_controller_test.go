package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type mockSurveyService struct {
	survey *domain.Survey
	err    error
}

func (m *mockSurveyService) GetForRegistration(ctx context.Context, caller domain.Identity, registrationID int64) (*domain.Survey, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.survey, nil
}

func (m *mockSurveyService) Submit(ctx context.Context, caller domain.Identity, registrationID int64, scores domain.SurveyScores, comments string) (*domain.Survey, error) {
	if m.err != nil {
		return nil, m.err
	}
	overall := float64(*scores.Satisfaction+*scores.Usefulness+*scores.Instructor+*scores.Recommendation) / 4
	now := time.Now()
	return &domain.Survey{
		ID:                  1,
		RegistrationID:      registrationID,
		SatisfactionScore:   scores.Satisfaction,
		UsefulnessScore:     scores.Usefulness,
		InstructorScore:     scores.Instructor,
		RecommendationScore: scores.Recommendation,
		OverallScore:        &overall,
		Comments:            comments,
		SubmittedAt:         &now,
	}, nil
}

func (m *mockSurveyService) ListResponses(ctx context.Context, caller domain.Identity, p domain.PaginationParams) ([]*domain.SurveyResponse, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []*domain.SurveyResponse{}, 0, nil
}

func (m *mockSurveyService) Delete(ctx context.Context, caller domain.Identity, surveyID int64) error {
	return m.err
}

func TestSurveyController_SubmitSurvey_MissingScore(t *testing.T) {
	ctrl := NewSurveyController(testLogger(), &mockSurveyService{})

	body := `{"satisfaction_score": 5, "usefulness_score": 4, "instructor_score": 4}`
	req := httptest.NewRequest(http.MethodPut, "/registrations/7/survey", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.SetIdentity(req.Context(), domain.Identity{UserID: 10, Role: domain.RoleParent}))
	req.SetPathValue("registrationID", "7")

	w := httptest.NewRecorder()
	ctrl.SubmitSurvey(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || !strings.Contains(resp.Error.Message, "recommendation_score") {
		t.Errorf("expected the missing score named in the error, got %v", resp.Error)
	}
}

func TestSurveyController_SubmitSurvey_Success(t *testing.T) {
	ctrl := NewSurveyController(testLogger(), &mockSurveyService{})

	body := `{"satisfaction_score": 5, "usefulness_score": 4, "instructor_score": 4, "recommendation_score": 4, "comments": "great session"}`
	req := httptest.NewRequest(http.MethodPut, "/registrations/7/survey", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.SetIdentity(req.Context(), domain.Identity{UserID: 10, Role: domain.RoleParent}))
	req.SetPathValue("registrationID", "7")

	w := httptest.NewRecorder()
	ctrl.SubmitSurvey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data  *domain.Survey    `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
	if resp.Data.OverallScore == nil || *resp.Data.OverallScore != 4.25 {
		t.Errorf("expected overall score 4.25, got %v", resp.Data.OverallScore)
	}
}

func TestSurveyController_SubmitSurvey_Unauthorized(t *testing.T) {
	ctrl := NewSurveyController(testLogger(), &mockSurveyService{})

	req := httptest.NewRequest(http.MethodPut, "/registrations/7/survey", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	ctrl.SubmitSurvey(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSurveyController_GetSurvey_NotFound(t *testing.T) {
	ctrl := NewSurveyController(testLogger(), &mockSurveyService{err: domain.ErrNotFound})

	req := authedRequest(http.MethodGet, "/registrations/404/survey", domain.Identity{UserID: 42, Role: domain.RoleManager})
	req.SetPathValue("registrationID", "404")

	w := httptest.NewRecorder()
	ctrl.GetSurvey(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSurveyController_ListResponses_Forbidden(t *testing.T) {
	ctrl := NewSurveyController(testLogger(), &mockSurveyService{err: domain.ErrForbidden})

	req := authedRequest(http.MethodGet, "/surveys/responses", domain.Identity{UserID: 10, Role: domain.RoleParent})
	w := httptest.NewRecorder()
	ctrl.ListResponses(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}
