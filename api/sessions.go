package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/yashasviy/split-payments-api/models"
	"github.com/yashasviy/split-payments-api/session"
	"github.com/yashasviy/split-payments-api/split"
)

// CreateSessionHandler starts a split payment from inline accounts or from
// the owner's stored accounts.
func CreateSessionHandler(sessions *session.Manager, accounts AccountLoader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid Body")
			return
		}

		list := req.Accounts
		if len(list) == 0 {
			if req.OwnerID == "" || accounts == nil {
				writeError(w, http.StatusBadRequest, "missing_accounts", "Provide accounts or an owner_id with stored accounts")
				return
			}
			loaded, err := accounts.LoadAccounts(r.Context(), req.OwnerID)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			if len(loaded) == 0 {
				writeError(w, http.StatusNotFound, "no_accounts", "No funding accounts found for owner")
				return
			}
			list = loaded
		}

		s, err := sessions.Create(r.Context(), req.OwnerID, list)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, models.NewSessionResponse(s))
	}
}

func GetSessionHandler(sessions *session.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, models.NewSessionResponse(s))
	}
}

// DispatchHandler applies one tagged action and returns the new snapshot.
func DispatchHandler(sessions *session.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "Invalid Body")
			return
		}

		action, err := req.Action()
		if err != nil {
			respondError(w, logger, err)
			return
		}

		s, err := sessions.Dispatch(r.Context(), chi.URLParam(r, "id"), action)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, models.NewSessionResponse(s))
	}
}

// CompleteSessionHandler hands the final split back to the caller and ends
// the session.
func CompleteSessionHandler(sessions *session.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Complete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, models.NewCompletedPayment(s))
	}
}

func AbandonSessionHandler(sessions *session.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// respondError maps domain errors to HTTP status codes.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, split.ErrContractViolation):
		writeError(w, http.StatusBadRequest, "contract_violation", err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Session not found")
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, "conflict", "Another action is being applied to this session")
	case errors.Is(err, session.ErrNotSubmittable):
		writeError(w, http.StatusConflict, "not_submittable", "The form still has errors")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		writeError(w, http.StatusServiceUnavailable, "unavailable", "Account source is unavailable")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: code, Message: message})
}
