package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// GetProfile returns the profile view for the email in the path. The view
// never includes credential material.
func GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	profile, err := manager.GetProfile(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
