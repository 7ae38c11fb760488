package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"ellarises/internal/delivery/http/controllers"
	"ellarises/internal/delivery/http/middleware"
	"ellarises/internal/domain"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Account      *controllers.AccountController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Survey       *controllers.SurveyController
	Milestone    *controllers.MilestoneController
	Donation     *controllers.DonationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(logger *slog.Logger, verifier domain.TokenVerifier, c Controllers) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier, logger)
	manager := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireManager(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Account and participants
	mux.HandleFunc("GET /account", authed(c.Account.GetAccount))
	mux.HandleFunc("PATCH /account/parent", authed(c.Account.UpdateParent))
	mux.HandleFunc("POST /account/participants", authed(c.Account.AddParticipant))
	mux.HandleFunc("PATCH /participants/{participantID}", authed(c.Account.UpdateParticipant))
	mux.HandleFunc("DELETE /participants/{participantID}", authed(c.Account.DeleteParticipant))
	mux.HandleFunc("DELETE /accounts/{userID}", manager(c.Account.DeleteParentAccount))

	// Events and occurrences
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", manager(c.Event.CreateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", manager(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", manager(c.Event.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/occurrences", manager(c.Event.AddOccurrence))
	mux.HandleFunc("PATCH /occurrences/{occurrenceID}", manager(c.Event.UpdateOccurrence))
	mux.HandleFunc("DELETE /occurrences/{occurrenceID}", manager(c.Event.DeleteOccurrence))

	// Registrations
	mux.HandleFunc("POST /participants/{participantID}/occurrences/{occurrenceID}/registrations", authed(c.Registration.Register))
	mux.HandleFunc("GET /participants/{participantID}/registrations", authed(c.Registration.ListForParticipant))
	mux.HandleFunc("PATCH /registrations/{registrationID}/status", authed(c.Registration.SetStatus))
	mux.HandleFunc("POST /registrations/{registrationID}/checkin", manager(c.Registration.CheckIn))
	mux.HandleFunc("GET /occurrences/{occurrenceID}/registrations", manager(c.Registration.ListForOccurrence))

	// Surveys
	mux.HandleFunc("GET /registrations/{registrationID}/survey", authed(c.Survey.GetSurvey))
	mux.HandleFunc("PUT /registrations/{registrationID}/survey", authed(c.Survey.SubmitSurvey))
	mux.HandleFunc("GET /surveys/responses", manager(c.Survey.ListResponses))
	mux.HandleFunc("DELETE /surveys/{surveyID}", manager(c.Survey.DeleteSurvey))

	// Milestones
	mux.HandleFunc("POST /participants/{participantID}/milestones", authed(c.Milestone.AddMilestone))
	mux.HandleFunc("GET /participants/{participantID}/milestones", authed(c.Milestone.ListMilestones))
	mux.HandleFunc("PATCH /milestones/{milestoneID}", authed(c.Milestone.UpdateMilestone))
	mux.HandleFunc("DELETE /milestones/{milestoneID}", authed(c.Milestone.DeleteMilestone))

	// Donations
	mux.HandleFunc("POST /donations", c.Donation.RecordDonation)
	mux.HandleFunc("GET /donations", manager(c.Donation.ListDonations))
	mux.HandleFunc("POST /donations/{donationID}/thankyou", manager(c.Donation.SendThankYou))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
