package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

// PublicRegistrationHandler serves the self-service sign-up form. There is
// no session: the seller id in the body attributes the patient.
type PublicRegistrationHandler struct {
	register    patientRegistrar
	rateLimiter *RateLimiter
}

func NewPublicRegistrationHandler(register patientRegistrar, perMinute int) *PublicRegistrationHandler {
	if perMinute < 1 {
		perMinute = 10
	}
	return &PublicRegistrationHandler{
		register:    register,
		rateLimiter: NewRateLimiter(perMinute, time.Minute),
	}
}

// Handle (POST /public/patients)
func (h *PublicRegistrationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Muitas requisições. Tente novamente em instantes.")
		return
	}

	var input usecase.RegisterPatientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.register.Execute(r.Context(), nil, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}
