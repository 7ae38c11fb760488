package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ellarises/internal/domain"
)

const (
	minPasswordLen = 8
	tokenExpiry    = 24 * time.Hour
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type enrollmentService struct {
	loginRepo       domain.LoginRepository
	parentRepo      domain.ParentRepository
	participantRepo domain.ParticipantRepository
	regRepo         domain.RegistrationRepository
	cascadeRepo     domain.CascadeRepository
	hasher          domain.PasswordHasher
	tokens          domain.TokenIssuer
	emailSvc        domain.EmailService
}

// NewEnrollmentService creates an EnrollmentService with the given
// repositories and adapters. emailSvc may be nil; welcome mail is skipped.
func NewEnrollmentService(
	loginRepo domain.LoginRepository,
	parentRepo domain.ParentRepository,
	participantRepo domain.ParticipantRepository,
	regRepo domain.RegistrationRepository,
	cascadeRepo domain.CascadeRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	emailSvc domain.EmailService,
) domain.EnrollmentService {
	return &enrollmentService{
		loginRepo:       loginRepo,
		parentRepo:      parentRepo,
		participantRepo: participantRepo,
		regRepo:         regRepo,
		cascadeRepo:     cascadeRepo,
		hasher:          hasher,
		tokens:          tokens,
		emailSvc:        emailSvc,
	}
}

func (s *enrollmentService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResult, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	parentEmail := strings.TrimSpace(strings.ToLower(req.Parent.Email))
	if !emailRegexp.MatchString(parentEmail) {
		return nil, fmt.Errorf("%w: invalid parent email", domain.ErrInvalidInput)
	}
	if req.Participant.FirstName == "" || req.Participant.LastName == "" {
		return nil, fmt.Errorf("%w: participant name is required", domain.ErrInvalidInput)
	}

	if _, err := s.loginRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	login := &domain.Login{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		Role:         domain.RoleParent,
		CreatedAt:    now,
	}
	if err := s.loginRepo.Create(ctx, login); err != nil {
		return nil, fmt.Errorf("create login: %w", err)
	}

	parent := req.Parent
	parent.UserID = login.UserID
	parent.Email = parentEmail
	parent.CreatedAt = now
	parent.UpdatedAt = now
	if err := s.parentRepo.Create(ctx, &parent); err != nil {
		return nil, fmt.Errorf("create parent: %w", err)
	}

	participant := req.Participant
	participant.ParentID = parent.ID
	if participant.GraduationStatus == "" {
		participant.GraduationStatus = "enrolled"
	}
	participant.CreatedAt = now
	participant.UpdatedAt = now
	if err := s.participantRepo.Create(ctx, &participant); err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}

	created, err := s.regRepo.FanOutParticipant(ctx, participant.ID, today(now))
	if err != nil {
		return nil, fmt.Errorf("fan out participant: %w", err)
	}

	token, err := s.tokens.Issue(login.UserID, login.Username, login.Role, tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.emailSvc != nil {
		// Welcome mail is best-effort; signup has already succeeded.
		_ = s.emailSvc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{
			Email:     parent.Email,
			FirstName: parent.FirstName,
			Language:  parent.LanguagePreference,
		})
	}

	return &domain.SignUpResult{
		Token:                token,
		Login:                login,
		Parent:               &parent,
		Participant:          &participant,
		RegistrationsCreated: created,
	}, nil
}

func (s *enrollmentService) AddParticipant(ctx context.Context, caller domain.Identity, p *domain.Participant) (*domain.Participant, int64, error) {
	parent, err := s.parentRepo.GetByID(ctx, p.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get parent: %w", err)
	}
	if !caller.IsManager() && caller.UserID != parent.UserID {
		return nil, 0, domain.ErrForbidden
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, 0, fmt.Errorf("%w: participant name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	if p.GraduationStatus == "" {
		p.GraduationStatus = "not started"
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.participantRepo.Create(ctx, p); err != nil {
		return nil, 0, fmt.Errorf("create participant: %w", err)
	}

	created, err := s.regRepo.FanOutParticipant(ctx, p.ID, today(now))
	if err != nil {
		return nil, 0, fmt.Errorf("fan out participant: %w", err)
	}
	return p, created, nil
}

func (s *enrollmentService) UpdateParticipant(ctx context.Context, caller domain.Identity, p *domain.Participant) (*domain.Participant, error) {
	existing, _, err := s.ownedParticipant(ctx, caller, p.ID)
	if err != nil {
		return nil, err
	}

	if p.FirstName != "" {
		existing.FirstName = p.FirstName
	}
	if p.LastName != "" {
		existing.LastName = p.LastName
	}
	if p.Email != "" {
		existing.Email = strings.TrimSpace(strings.ToLower(p.Email))
	}
	if p.DOB != nil {
		existing.DOB = p.DOB
	}
	if p.Grade != "" {
		existing.Grade = p.Grade
	}
	if p.SchoolOrEmployer != "" {
		existing.SchoolOrEmployer = p.SchoolOrEmployer
	}
	if p.FieldOfInterest != "" {
		existing.FieldOfInterest = p.FieldOfInterest
	}
	if p.GraduationStatus != "" {
		existing.GraduationStatus = p.GraduationStatus
	}
	existing.UpdatedAt = time.Now()

	if err := s.participantRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update participant: %w", err)
	}
	return existing, nil
}

func (s *enrollmentService) UpdateParent(ctx context.Context, caller domain.Identity, parent *domain.Parent) (*domain.Parent, error) {
	existing, err := s.parentRepo.GetByID(ctx, parent.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get parent: %w", err)
	}
	if !caller.IsManager() && caller.UserID != existing.UserID {
		return nil, domain.ErrForbidden
	}

	if parent.FirstName != "" {
		existing.FirstName = parent.FirstName
	}
	if parent.LastName != "" {
		existing.LastName = parent.LastName
	}
	if parent.Email != "" {
		email := strings.TrimSpace(strings.ToLower(parent.Email))
		if !emailRegexp.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid parent email", domain.ErrInvalidInput)
		}
		existing.Email = email
	}
	if parent.Phone != "" {
		existing.Phone = parent.Phone
	}
	if parent.City != "" {
		existing.City = parent.City
	}
	if parent.State != "" {
		existing.State = parent.State
	}
	if parent.Zip != "" {
		existing.Zip = parent.Zip
	}
	if parent.LanguagePreference != "" {
		existing.LanguagePreference = parent.LanguagePreference
	}
	existing.UpdatedAt = time.Now()

	if err := s.parentRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update parent: %w", err)
	}
	return existing, nil
}

func (s *enrollmentService) GetAccount(ctx context.Context, caller domain.Identity, userID int64) (*domain.Parent, []*domain.Participant, error) {
	if !caller.IsManager() && caller.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}
	parent, err := s.parentRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get parent: %w", err)
	}
	participants, err := s.participantRepo.ListByParentID(ctx, parent.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return parent, participants, nil
}

func (s *enrollmentService) DeleteParticipant(ctx context.Context, caller domain.Identity, participantID int64) error {
	if _, _, err := s.ownedParticipant(ctx, caller, participantID); err != nil {
		return err
	}
	if err := s.cascadeRepo.DeleteParticipant(ctx, participantID); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

func (s *enrollmentService) DeleteParentAccount(ctx context.Context, caller domain.Identity, userID int64) error {
	if !caller.IsManager() {
		return domain.ErrForbidden
	}
	if _, err := s.parentRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get parent: %w", err)
	}
	if err := s.cascadeRepo.DeleteParentAccount(ctx, userID); err != nil {
		return fmt.Errorf("delete parent account: %w", err)
	}
	return nil
}

// ownedParticipant loads a participant and verifies the caller is a manager
// or the owning parent.
func (s *enrollmentService) ownedParticipant(ctx context.Context, caller domain.Identity, participantID int64) (*domain.Participant, *domain.Parent, error) {
	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get participant: %w", err)
	}
	parent, err := s.parentRepo.GetByID(ctx, participant.ParentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get parent: %w", err)
	}
	if !caller.IsManager() && caller.UserID != parent.UserID {
		return nil, nil, domain.ErrForbidden
	}
	return participant, parent, nil
}

// today truncates t to its calendar date in UTC.
func today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
