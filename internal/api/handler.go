package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"reservas-backend/internal/auth"
	"reservas-backend/internal/booking"
	"reservas-backend/internal/finder"
	"reservas-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	booking *booking.Orchestrator
	tokens  *auth.TokenManager
	webpush *webpush.Options
	finder  *finder.Client
}

// NewHandler creates a new API handler. finder may be nil when the AI room
// finder is not configured.
func NewHandler(s store.Store, orchestrator *booking.Orchestrator, tokens *auth.TokenManager, webpushOptions *webpush.Options, finderClient *finder.Client) *Handler {
	return &Handler{
		store:   s,
		booking: orchestrator,
		tokens:  tokens,
		webpush: webpushOptions,
		finder:  finderClient,
	}
}
