package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type mockAttendanceService struct {
	reg     *domain.Registration
	created bool
	err     error
}

func (m *mockAttendanceService) Register(ctx context.Context, caller domain.Identity, participantID, occurrenceID int64) (*domain.Registration, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.reg, m.created, nil
}

func (m *mockAttendanceService) SetStatus(ctx context.Context, caller domain.Identity, registrationID int64, status string) error {
	return m.err
}

func (m *mockAttendanceService) CheckIn(ctx context.Context, caller domain.Identity, registrationID int64) (*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reg, nil
}

func (m *mockAttendanceService) ListForParticipant(ctx context.Context, caller domain.Identity, participantID int64) ([]*domain.RegistrationWithOccurrence, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.RegistrationWithOccurrence{}, nil
}

func (m *mockAttendanceService) ListForOccurrence(ctx context.Context, caller domain.Identity, occurrenceID int64) ([]*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.Registration{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func authedRequest(method, target string, identity domain.Identity) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.SetIdentity(req.Context(), identity))
}

func TestRegistrationController_Register_Unauthorized(t *testing.T) {
	ctrl := NewRegistrationController(testLogger(), &mockAttendanceService{})

	req := httptest.NewRequest(http.MethodPost, "/participants/1/occurrences/5/registrations", nil)
	w := httptest.NewRecorder()
	ctrl.Register(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRegistrationController_Register_Created(t *testing.T) {
	svc := &mockAttendanceService{
		reg:     &domain.Registration{ID: 9, ParticipantID: 1, OccurrenceID: 5, Status: domain.StatusRegistered},
		created: true,
	}
	ctrl := NewRegistrationController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/participants/1/occurrences/5/registrations", domain.Identity{UserID: 10, Role: domain.RoleParent})
	req.SetPathValue("participantID", "1")
	req.SetPathValue("occurrenceID", "5")

	w := httptest.NewRecorder()
	ctrl.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestRegistrationController_Register_ExistingReturnsOK(t *testing.T) {
	svc := &mockAttendanceService{
		reg:     &domain.Registration{ID: 9, ParticipantID: 1, OccurrenceID: 5, Status: domain.StatusRegistered},
		created: false,
	}
	ctrl := NewRegistrationController(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/participants/1/occurrences/5/registrations", domain.Identity{UserID: 10, Role: domain.RoleParent})
	req.SetPathValue("participantID", "1")
	req.SetPathValue("occurrenceID", "5")

	w := httptest.NewRecorder()
	ctrl.Register(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRegistrationController_Register_BadPathID(t *testing.T) {
	ctrl := NewRegistrationController(testLogger(), &mockAttendanceService{})

	req := authedRequest(http.MethodPost, "/participants/abc/occurrences/5/registrations", domain.Identity{UserID: 10, Role: domain.RoleParent})
	req.SetPathValue("participantID", "abc")
	req.SetPathValue("occurrenceID", "5")

	w := httptest.NewRecorder()
	ctrl.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegistrationController_Register_Forbidden(t *testing.T) {
	ctrl := NewRegistrationController(testLogger(), &mockAttendanceService{err: domain.ErrForbidden})

	req := authedRequest(http.MethodPost, "/participants/1/occurrences/5/registrations", domain.Identity{UserID: 99, Role: domain.RoleParent})
	req.SetPathValue("participantID", "1")
	req.SetPathValue("occurrenceID", "5")

	w := httptest.NewRecorder()
	ctrl.Register(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestRegistrationController_CheckIn_NotFound(t *testing.T) {
	ctrl := NewRegistrationController(testLogger(), &mockAttendanceService{err: domain.ErrNotFound})

	req := authedRequest(http.MethodPost, "/registrations/404/checkin", domain.Identity{UserID: 42, Role: domain.RoleManager})
	req.SetPathValue("registrationID", "404")

	w := httptest.NewRecorder()
	ctrl.CheckIn(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
