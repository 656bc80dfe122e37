// Preference HTTP handlers.
//
// This file exposes the taste-profile endpoints:
//   - POST /preferences   (save a new profile; insert-only, never updates)
//   - GET  /preferences   (fetch the latest profile, or null when none exists)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SavePreferenceRequest is the JSON payload describing a taste profile. All
// five fields are free text and individually optional.
type SavePreferenceRequest struct {
	Aroma      string `json:"aroma_preference" example:"nutty and chocolatey"`
	Flavor     string `json:"flavor_preference" example:"sweet with caramel notes"`
	Acidity    string `json:"acidity_preference" example:"low"`
	Body       string `json:"body_preference" example:"full and creamy"`
	Aftertaste string `json:"aftertaste_preference" example:"smooth, lingering"`
}

// SavePreference godoc
// @ID          savePreference
// @Summary     Save a taste profile
// @Description Appends a new taste profile row. Earlier profiles are kept; reads always return the newest.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SavePreferenceRequest  true  "Taste profile"
//
// @Success     201  {object} domain.Preference
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences [post]
func (h *Handlers) SavePreference(c *gin.Context) {
	var req SavePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.prefSvc.Save(c.Request.Context(), req.Aroma, req.Flavor, req.Acidity, req.Body, req.Aftertaste)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// GetPreference godoc
// @ID          getPreference
// @Summary     Fetch the latest taste profile
// @Description Returns the most recently saved taste profile, or JSON null when none has been saved.
// @Tags        Preferences
// @Produce     json
//
// @Success     200  {object} domain.Preference
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences [get]
func (h *Handlers) GetPreference(c *gin.Context) {
	p, err := h.prefSvc.Latest(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}
