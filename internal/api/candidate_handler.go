package api

import (
	"net/http"

	"github.com/google/uuid"
)

// GetCandidateHandler returns a stored candidate
// @Summary Get candidate
// @Description Load a candidate stored by a previous upload
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID (UUID)"
// @Success 200 {object} storage.CandidateRow
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	row, err := a.store.GetCandidateContext(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, "failed to load candidate")
		return
	}

	respondJSON(w, http.StatusOK, row)
}
