package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ellarises/internal/domain"
)

func attendanceFixture() (*mockRegistrationRepository, *mockOccurrenceRepository, *mockParticipantRepository, *mockParentRepository, *mockSurveyRepository, domain.AttendanceService) {
	regRepo := &mockRegistrationRepository{}
	occRepo := &mockOccurrenceRepository{
		occurrences: map[int64]*domain.Occurrence{
			5: {ID: 5, EventID: 1, StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), DeadlineDate: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
		},
	}
	participantRepo := &mockParticipantRepository{
		participants: map[int64]*domain.Participant{
			1: {ID: 1, ParentID: 1, FirstName: "Maya"},
		},
	}
	parentRepo := &mockParentRepository{
		parents: map[int64]*domain.Parent{
			1: {ID: 1, UserID: 10},
		},
	}
	surveyRepo := &mockSurveyRepository{}
	svc := NewAttendanceService(regRepo, occRepo, participantRepo, parentRepo, surveyRepo)
	return regRepo, occRepo, participantRepo, parentRepo, surveyRepo, svc
}

func TestRegister_CreatesNewRegistration(t *testing.T) {
	regRepo, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	reg, created, err := svc.Register(context.Background(), owner, 1, 5)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !created {
		t.Error("expected created=true for a new pair")
	}
	if reg.Status != domain.StatusRegistered {
		t.Errorf("expected status %q, got %q", domain.StatusRegistered, reg.Status)
	}
	if reg.Attended {
		t.Error("new registration should not be marked attended")
	}
	if len(regRepo.regs) != 1 {
		t.Errorf("expected 1 stored registration, got %d", len(regRepo.regs))
	}
}

func TestRegister_IdempotentOnExistingPair(t *testing.T) {
	regRepo, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	first, created, err := svc.Register(context.Background(), owner, 1, 5)
	if err != nil || !created {
		t.Fatalf("first Register: reg=%v created=%v err=%v", first, created, err)
	}

	second, created, err := svc.Register(context.Background(), owner, 1, 5)
	if err != nil {
		t.Fatalf("second Register returned error: %v", err)
	}
	if created {
		t.Error("expected created=false when the pair already exists")
	}
	if second.ID != first.ID {
		t.Errorf("expected the existing registration %d, got %d", first.ID, second.ID)
	}
	if len(regRepo.regs) != 1 {
		t.Errorf("expected no second row, got %d rows", len(regRepo.regs))
	}
}

func TestRegister_ForbiddenForOtherParent(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	stranger := domain.Identity{UserID: 99, Role: domain.RoleParent}

	_, _, err := svc.Register(context.Background(), stranger, 1, 5)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestRegister_ManagerCanRegisterAnyParticipant(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	manager := domain.Identity{UserID: 42, Role: domain.RoleManager}

	_, created, err := svc.Register(context.Background(), manager, 1, 5)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
}

func TestRegister_UnknownOccurrence(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	_, _, err := svc.Register(context.Background(), owner, 1, 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	err := svc.SetStatus(context.Background(), owner, 1, "maybe")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetStatus_UpdatesOwnRegistration(t *testing.T) {
	regRepo, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	reg, _, err := svc.Register(context.Background(), owner, 1, 5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.SetStatus(context.Background(), owner, reg.ID, domain.StatusPlanningToAttend); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if got := regRepo.statusUpdates[reg.ID]; got != domain.StatusPlanningToAttend {
		t.Errorf("expected status update to %q, got %q", domain.StatusPlanningToAttend, got)
	}
}

func TestCheckIn_ManagerOnly(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	_, err := svc.CheckIn(context.Background(), owner, 1)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-manager, got %v", err)
	}
}

func TestCheckIn_MarksAttendedAndCreatesBlankSurvey(t *testing.T) {
	regRepo, _, _, _, surveyRepo, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}
	manager := domain.Identity{UserID: 42, Role: domain.RoleManager}

	reg, _, err := svc.Register(context.Background(), owner, 1, 5)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	checked, err := svc.CheckIn(context.Background(), manager, reg.ID)
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if !checked.Attended {
		t.Error("expected registration marked attended")
	}
	if checked.CheckinAt == nil {
		t.Error("expected checkin timestamp to be set")
	}
	if len(regRepo.checkedIn) != 1 || regRepo.checkedIn[0] != reg.ID {
		t.Errorf("expected CheckIn recorded for registration %d, got %v", reg.ID, regRepo.checkedIn)
	}
	if len(surveyRepo.blankCreated) != 1 || surveyRepo.blankCreated[0] != reg.ID {
		t.Errorf("expected blank survey for registration %d, got %v", reg.ID, surveyRepo.blankCreated)
	}
}

func TestCheckIn_UnknownRegistration(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	manager := domain.Identity{UserID: 42, Role: domain.RoleManager}

	_, err := svc.CheckIn(context.Background(), manager, 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListForOccurrence_ManagerOnly(t *testing.T) {
	_, _, _, _, _, svc := attendanceFixture()
	owner := domain.Identity{UserID: 10, Role: domain.RoleParent}

	_, err := svc.ListForOccurrence(context.Background(), owner, 5)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
