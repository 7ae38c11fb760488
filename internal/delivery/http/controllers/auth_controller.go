package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	h "ellarises/internal/delivery/http/helpers"
	"ellarises/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /auth/signup. One request creates
// the login credential, the parent profile, and the first participant.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	ParentFirstName    string `json:"parent_first_name"`
	ParentLastName     string `json:"parent_last_name"`
	ParentEmail        string `json:"parent_email"`
	ParentPhone        string `json:"parent_phone"`
	City               string `json:"city"`
	State              string `json:"state"`
	Zip                string `json:"zip"`
	LanguagePreference string `json:"language_preference"`

	ParticipantFirstName string `json:"participant_first_name"`
	ParticipantLastName  string `json:"participant_last_name"`
	ParticipantEmail     string `json:"participant_email"`
	ParticipantDOB       string `json:"participant_dob"` // "2006-01-02"
	Grade                string `json:"grade"`
	SchoolOrEmployer     string `json:"school_or_employer"`
	FieldOfInterest      string `json:"field_of_interest"`
}

// Validate implements helpers.Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Username) == "" {
		errs = append(errs, "username is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	email := strings.TrimSpace(strings.ToLower(s.ParentEmail))
	if email == "" {
		errs = append(errs, "parent_email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid parent_email format")
	}
	if strings.TrimSpace(s.ParentFirstName) == "" {
		errs = append(errs, "parent_first_name is required")
	}
	if strings.TrimSpace(s.ParticipantFirstName) == "" {
		errs = append(errs, "participant_first_name is required")
	}
	if s.ParticipantDOB != "" {
		if _, err := time.Parse("2006-01-02", s.ParticipantDOB); err != nil {
			errs = append(errs, "participant_dob must be formatted as YYYY-MM-DD")
		}
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Username) == "" {
		errs = append(errs, "username is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
}

type AuthController struct {
	Logger     *slog.Logger
	Auth       domain.AuthService
	Enrollment domain.EnrollmentService
}

func NewAuthController(logger *slog.Logger, auth domain.AuthService, enrollment domain.EnrollmentService) *AuthController {
	return &AuthController{
		Logger:     logger,
		Auth:       auth,
		Enrollment: enrollment,
	}
}

// SignUp godoc
// @Summary Sign up a new family account
// @Description Creates the login credential, the parent profile, and the first participant, then registers the participant for every occurrence still open for registration. Returns a token so the new account is logged in immediately.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains token, login, parent, participant, registrations_created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	domainReq := &domain.SignUpRequest{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Parent: domain.Parent{
			FirstName:          strings.TrimSpace(req.ParentFirstName),
			LastName:           strings.TrimSpace(req.ParentLastName),
			Email:              strings.TrimSpace(strings.ToLower(req.ParentEmail)),
			Phone:              strings.TrimSpace(req.ParentPhone),
			City:               strings.TrimSpace(req.City),
			State:              strings.TrimSpace(req.State),
			Zip:                strings.TrimSpace(req.Zip),
			LanguagePreference: strings.TrimSpace(req.LanguagePreference),
		},
		Participant: domain.Participant{
			FirstName:        strings.TrimSpace(req.ParticipantFirstName),
			LastName:         strings.TrimSpace(req.ParticipantLastName),
			Email:            strings.TrimSpace(strings.ToLower(req.ParticipantEmail)),
			Grade:            strings.TrimSpace(req.Grade),
			SchoolOrEmployer: strings.TrimSpace(req.SchoolOrEmployer),
			FieldOfInterest:  strings.TrimSpace(req.FieldOfInterest),
		},
	}
	if req.ParticipantDOB != "" {
		dob, _ := time.Parse("2006-01-02", req.ParticipantDOB)
		domainReq.Participant.DOB = &dob
	}

	result, err := c.Enrollment.SignUp(r.Context(), domainReq)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "username already in use")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and password. Returns a JWT carrying the user id and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, user_id, role"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, login, err := c.Auth.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		UserID:    login.UserID,
		Role:      login.Role,
	})
}
