package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type SurveyController struct {
	Logger  *slog.Logger
	Service domain.SurveyService
}

func NewSurveyController(logger *slog.Logger, svc domain.SurveyService) *SurveyController {
	return &SurveyController{
		Logger:  logger,
		Service: svc,
	}
}

// GetSurvey godoc
// @Summary Get the survey for a registration
// @Description Returns the survey row, blank or submitted. Allowed for the owning parent or a manager.
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} helpers.APIResponse "data contains the survey"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/survey [get]
func (c *SurveyController) GetSurvey(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID, ok := pathID(w, r, "registrationID")
	if !ok {
		return
	}

	survey, err := c.Service.GetForRegistration(r.Context(), identity, registrationID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, survey)
}

// SubmitSurveyRequest is the request body for PUT /registrations/{registrationID}/survey.
// All four scores are required; resubmission overwrites the previous answers.
type SubmitSurveyRequest struct {
	SatisfactionScore   *int   `json:"satisfaction_score"`
	UsefulnessScore     *int   `json:"usefulness_score"`
	InstructorScore     *int   `json:"instructor_score"`
	RecommendationScore *int   `json:"recommendation_score"`
	Comments            string `json:"comments"`
}

// Validate implements helpers.Validator. Missing scores are reported here;
// range checks live in the service.
func (s SubmitSurveyRequest) Validate() []string {
	var errs []string
	for _, sc := range []struct {
		name string
		val  *int
	}{
		{"satisfaction_score", s.SatisfactionScore},
		{"usefulness_score", s.UsefulnessScore},
		{"instructor_score", s.InstructorScore},
		{"recommendation_score", s.RecommendationScore},
	} {
		if sc.val == nil {
			errs = append(errs, sc.name+" is required")
		}
	}
	return errs
}

// SubmitSurvey godoc
// @Summary Submit survey answers for a registration
// @Description Validates all four scores, computes the overall mean rounded to two decimals, and stores the submission. Resubmitting overwrites the previous answers in place. Allowed for the owning parent or a manager.
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Param body body SubmitSurveyRequest true "Survey answers"
// @Success 200 {object} helpers.APIResponse "data contains the stored survey with overall_score"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/survey [put]
func (c *SurveyController) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID, ok := pathID(w, r, "registrationID")
	if !ok {
		return
	}
	var req SubmitSurveyRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	survey, err := c.Service.Submit(r.Context(), identity, registrationID, domain.SurveyScores{
		Satisfaction:   req.SatisfactionScore,
		Usefulness:     req.UsefulnessScore,
		Instructor:     req.InstructorScore,
		Recommendation: req.RecommendationScore,
	}, req.Comments)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, survey)
}

// ListResponses godoc
// @Summary List submitted survey responses
// @Description Returns submitted surveys joined with participant and event context, newest first, paginated. Manager only.
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains responses and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /surveys/responses [get]
func (c *SurveyController) ListResponses(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p := h.ParsePagination(r)

	responses, total, err := c.Service.ListResponses(r.Context(), identity, p)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"responses":  responses,
		"pagination": h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// DeleteSurvey godoc
// @Summary Delete a survey
// @Description Removes one survey row. Manager only.
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param surveyID path int true "Survey ID"
// @Success 200 {object} helpers.APIResponse "data contains deleted: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /surveys/{surveyID} [delete]
func (c *SurveyController) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	surveyID, ok := pathID(w, r, "surveyID")
	if !ok {
		return
	}

	if err := c.Service.Delete(r.Context(), identity, surveyID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (c *SurveyController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
