package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "ellarises/internal/delivery/http/helpers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

type DonationController struct {
	Logger  *slog.Logger
	Service domain.DonationService
}

func NewDonationController(logger *slog.Logger, svc domain.DonationService) *DonationController {
	return &DonationController{
		Logger:  logger,
		Service: svc,
	}
}

// RecordDonationRequest is the request body for POST /donations.
type RecordDonationRequest struct {
	DonorName   string `json:"donor_name"`
	DonorEmail  string `json:"donor_email"`
	AmountCents int64  `json:"amount_cents"`
	Message     string `json:"message"`
}

// Validate implements helpers.Validator.
func (d RecordDonationRequest) Validate() []string {
	var errs []string
	if d.AmountCents <= 0 {
		errs = append(errs, "amount_cents must be positive")
	}
	email := strings.TrimSpace(strings.ToLower(d.DonorEmail))
	if email == "" {
		errs = append(errs, "donor_email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid donor_email format")
	}
	return errs
}

// RecordDonation godoc
// @Summary Record a donation
// @Description Records a one-off gift from the public donation form. No authentication required.
// @Tags donations
// @Accept json
// @Produce json
// @Param body body RecordDonationRequest true "Donation data"
// @Success 201 {object} helpers.APIResponse "data contains the recorded donation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations [post]
func (c *DonationController) RecordDonation(w http.ResponseWriter, r *http.Request) {
	var req RecordDonationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	donation, err := c.Service.Record(r.Context(), &domain.Donation{
		DonorName:   strings.TrimSpace(req.DonorName),
		DonorEmail:  req.DonorEmail,
		AmountCents: req.AmountCents,
		Message:     strings.TrimSpace(req.Message),
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, donation)
}

// ListDonations godoc
// @Summary List donations
// @Description Returns recorded donations, newest first, paginated. Manager only.
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains donations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations [get]
func (c *DonationController) ListDonations(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p := h.ParsePagination(r)

	donations, total, err := c.Service.List(r.Context(), identity, p)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"donations":  donations,
		"pagination": h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// SendThankYou godoc
// @Summary Send a donation thank-you email
// @Description Emails the donor and stamps the donation with the send time. Manager only.
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param donationID path int true "Donation ID"
// @Success 200 {object} helpers.APIResponse "data contains sent: true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations/{donationID}/thankyou [post]
func (c *DonationController) SendThankYou(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	donationID, ok := pathID(w, r, "donationID")
	if !ok {
		return
	}

	if err := c.Service.SendThankYou(r.Context(), identity, donationID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"sent": true})
}

func (c *DonationController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "donation not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
