package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ellarises/internal/domain"
)

type mockLoginRepository struct {
	logins map[string]*domain.Login
	nextID int64
}

func (m *mockLoginRepository) Create(ctx context.Context, login *domain.Login) error {
	if _, ok := m.logins[login.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	m.nextID++
	login.UserID = m.nextID
	if m.logins == nil {
		m.logins = map[string]*domain.Login{}
	}
	m.logins[login.Username] = login
	return nil
}

func (m *mockLoginRepository) GetByUsername(ctx context.Context, username string) (*domain.Login, error) {
	login, ok := m.logins[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return login, nil
}

func (m *mockLoginRepository) GetByID(ctx context.Context, userID int64) (*domain.Login, error) {
	for _, login := range m.logins {
		if login.UserID == userID {
			return login, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockHasher struct{}

func (mockHasher) GenerateSalt() (string, error) { return "salt", nil }

func (mockHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (mockHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type mockTokenIssuer struct{}

func (mockTokenIssuer) Issue(userID int64, username, role string, expiry time.Duration) (string, error) {
	return "token-for-" + username, nil
}

type mockEmailService struct {
	welcomes  []*domain.WelcomeMessageEmailData
	thankYous []*domain.DonationThankYouEmailData
}

func (m *mockEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	m.welcomes = append(m.welcomes, data)
	return nil
}

func (m *mockEmailService) SendDonationThankYou(ctx context.Context, data *domain.DonationThankYouEmailData) error {
	m.thankYous = append(m.thankYous, data)
	return nil
}

func enrollmentFixture() (*mockLoginRepository, *mockRegistrationRepository, *mockCascadeRepository, *mockEmailService, domain.EnrollmentService) {
	loginRepo := &mockLoginRepository{}
	parentRepo := &mockParentRepository{}
	participantRepo := &mockParticipantRepository{}
	regRepo := &mockRegistrationRepository{}
	cascadeRepo := &mockCascadeRepository{}
	emailSvc := &mockEmailService{}
	svc := NewEnrollmentService(loginRepo, parentRepo, participantRepo, regRepo, cascadeRepo, mockHasher{}, mockTokenIssuer{}, emailSvc)
	return loginRepo, regRepo, cascadeRepo, emailSvc, svc
}

func signUpRequest() *domain.SignUpRequest {
	return &domain.SignUpRequest{
		Username: "Ana.Torres",
		Password: "correct horse battery",
		Parent: domain.Parent{
			FirstName: "Ana",
			LastName:  "Torres",
			Email:     "Ana.Torres@example.org",
		},
		Participant: domain.Participant{
			FirstName: "Maya",
			LastName:  "Torres",
		},
	}
}

func TestSignUp_CreatesAccountAndFansOut(t *testing.T) {
	loginRepo, regRepo, _, emailSvc, svc := enrollmentFixture()
	regRepo.fanOutPerPart = 3

	result, err := svc.SignUp(context.Background(), signUpRequest())
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if result.Login.Username != "ana.torres" {
		t.Errorf("expected lowercased username, got %q", result.Login.Username)
	}
	if result.Login.Role != domain.RoleParent {
		t.Errorf("expected role %q, got %q", domain.RoleParent, result.Login.Role)
	}
	if result.Parent.Email != "ana.torres@example.org" {
		t.Errorf("expected normalized email, got %q", result.Parent.Email)
	}
	if result.Participant.ParentID != result.Parent.ID {
		t.Error("participant not linked to created parent")
	}
	if result.RegistrationsCreated != 3 {
		t.Errorf("expected 3 fanned-out registrations, got %d", result.RegistrationsCreated)
	}
	if len(regRepo.fanOutPartCalls) != 1 || regRepo.fanOutPartCalls[0] != result.Participant.ID {
		t.Errorf("expected fan-out for participant %d, got %v", result.Participant.ID, regRepo.fanOutPartCalls)
	}
	if result.Token == "" {
		t.Error("expected a signed token")
	}
	if len(loginRepo.logins) != 1 {
		t.Errorf("expected 1 login row, got %d", len(loginRepo.logins))
	}
	if len(emailSvc.welcomes) != 1 || emailSvc.welcomes[0].Email != "ana.torres@example.org" {
		t.Errorf("expected welcome mail to the parent, got %v", emailSvc.welcomes)
	}
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	_, _, _, _, svc := enrollmentFixture()

	if _, err := svc.SignUp(context.Background(), signUpRequest()); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	_, err := svc.SignUp(context.Background(), signUpRequest())
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestSignUp_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SignUpRequest)
	}{
		{"empty username", func(r *domain.SignUpRequest) { r.Username = "  " }},
		{"short password", func(r *domain.SignUpRequest) { r.Password = "short" }},
		{"bad parent email", func(r *domain.SignUpRequest) { r.Parent.Email = "not-an-email" }},
		{"missing participant name", func(r *domain.SignUpRequest) { r.Participant.LastName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, _, svc := enrollmentFixture()
			req := signUpRequest()
			tt.mutate(req)
			_, err := svc.SignUp(context.Background(), req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAddParticipant_FansOutOpenOccurrences(t *testing.T) {
	_, regRepo, _, _, svc := enrollmentFixture()
	regRepo.fanOutPerPart = 2

	result, err := svc.SignUp(context.Background(), signUpRequest())
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	owner := domain.Identity{UserID: result.Login.UserID, Role: domain.RoleParent}

	p, created, err := svc.AddParticipant(context.Background(), owner, &domain.Participant{
		ParentID:  result.Parent.ID,
		FirstName: "Leo",
		LastName:  "Torres",
	})
	if err != nil {
		t.Fatalf("AddParticipant returned error: %v", err)
	}
	if created != 2 {
		t.Errorf("expected 2 fanned-out registrations, got %d", created)
	}
	if p.ID == 0 {
		t.Error("expected participant id to be assigned")
	}
}

func TestAddParticipant_ForbiddenForOtherParent(t *testing.T) {
	_, _, _, _, svc := enrollmentFixture()

	result, err := svc.SignUp(context.Background(), signUpRequest())
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	stranger := domain.Identity{UserID: result.Login.UserID + 100, Role: domain.RoleParent}

	_, _, err = svc.AddParticipant(context.Background(), stranger, &domain.Participant{
		ParentID:  result.Parent.ID,
		FirstName: "Leo",
		LastName:  "Torres",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteParentAccount_ManagerOnly(t *testing.T) {
	_, _, cascadeRepo, _, svc := enrollmentFixture()

	result, err := svc.SignUp(context.Background(), signUpRequest())
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	owner := domain.Identity{UserID: result.Login.UserID, Role: domain.RoleParent}

	if err := svc.DeleteParentAccount(context.Background(), owner, result.Login.UserID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-manager, got %v", err)
	}

	manager := domain.Identity{UserID: 999, Role: domain.RoleManager}
	if err := svc.DeleteParentAccount(context.Background(), manager, result.Login.UserID); err != nil {
		t.Fatalf("DeleteParentAccount returned error: %v", err)
	}
	if len(cascadeRepo.deletedAccounts) != 1 || cascadeRepo.deletedAccounts[0] != result.Login.UserID {
		t.Errorf("expected cascade delete for user %d, got %v", result.Login.UserID, cascadeRepo.deletedAccounts)
	}
}

func TestDeleteParticipant_OwnerDelegatesToCascade(t *testing.T) {
	_, _, cascadeRepo, _, svc := enrollmentFixture()

	result, err := svc.SignUp(context.Background(), signUpRequest())
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	owner := domain.Identity{UserID: result.Login.UserID, Role: domain.RoleParent}

	if err := svc.DeleteParticipant(context.Background(), owner, result.Participant.ID); err != nil {
		t.Fatalf("DeleteParticipant returned error: %v", err)
	}
	if len(cascadeRepo.deletedParticipants) != 1 || cascadeRepo.deletedParticipants[0] != result.Participant.ID {
		t.Errorf("expected cascade delete for participant %d, got %v", result.Participant.ID, cascadeRepo.deletedParticipants)
	}
}
