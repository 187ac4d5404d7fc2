package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"telegram-scam-guard/internal/domain/model"
	"telegram-scam-guard/internal/usecase"
)

type loginRequest struct {
	Key string `json:"key"`
}

// loginHandler exchanges the operator API key for a short-lived session.
func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if s.apiKey == "" || req.Key != s.apiKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if s.auth == nil {
			http.Error(w, "Auth not configured", http.StatusInternalServerError)
			return
		}
		if _, err := s.auth.Mint(w); err != nil {
			http.Error(w, "Failed to mint session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.auth != nil {
			s.auth.Clear(w)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler serves the aggregate scan and user counters.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := statsUC.Totals(r.Context())
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(totals)
	}
}

// usersListHandler returns a paginated list of users.
// It accepts 'offset' and 'limit' query parameters.
func usersListHandler(userUC usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		users, err := userUC.List(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		total, err := userUC.Count(ctx)
		if err != nil {
			http.Error(w, "Failed to count users", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data   []*model.User `json:"data"`
			Total  int           `json:"total"`
			Limit  int           `json:"limit"`
			Offset int           `json:"offset"`
		}{
			Data:   users,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// userScansHandler returns the recent scan reports of one user.
func userScansHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "User ID is required", http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		reports, err := statsUC.UserHistory(r.Context(), id, limit)
		if err != nil {
			http.Error(w, "Failed to get user scans", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.ScanReport `json:"data"`
		}{Data: reports}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
