// Wizard HTTP handlers.
//
// This file exposes the recommendation wizard endpoints:
//   - POST /recommend      (build a drink from the saved taste profile)
//   - POST /train-index    (rebuild the recommendation index; admin operation)
//   - GET  /wizard/status  (report whether the wizard can serve recommendations)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/services"
)

// TrainIndexResponse reports the outcome of an index rebuild.
type TrainIndexResponse struct {
	Success   bool `json:"success"`
	Documents int  `json:"documents"`
}

// WizardStatusResponse reports whether recommendations are available and how
// many documents the index holds.
type WizardStatusResponse struct {
	Enabled   bool  `json:"enabled"`
	Documents int64 `json:"documents"`
}

// Recommend godoc
// @ID          recommend
// @Summary     Recommend a drink
// @Description Ranks the trained catalog index against the latest saved taste profile and returns a complete priced drink configuration.
// @Tags        Wizard
// @Produce     json
//
// @Success     200  {object} services.Recommendation
// @Failure     409  {object} handlers.ErrorResponse "No taste profile saved"
// @Failure     503  {object} handlers.ErrorResponse "Index not trained"
// @Failure     502  {object} handlers.ErrorResponse "Reranker failure"
// @Router      /recommend [post]
func (h *Handlers) Recommend(c *gin.Context) {
	rec, err := h.wizardSvc.Recommend(c.Request.Context())
	if err != nil {
		switch err {
		case services.ErrNoPreferences:
			fail(c, http.StatusConflict, ErrCodeNoPreferences, "save a taste profile before requesting a recommendation")
		case services.ErrNoDocumentsIndexed:
			fail(c, http.StatusServiceUnavailable, ErrCodeWizardDisabled, "recommendation index is empty; run train-index first")
		default:
			fail(c, http.StatusBadGateway, ErrCodeRecommendFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// TrainIndex godoc
// @ID          trainIndex
// @Summary     Rebuild the recommendation index
// @Description Rebuilds the indexed document set from the live catalog. The swap is atomic; readers never see a half-built index.
// @Tags        Wizard
// @Produce     json
//
// @Success     200  {object} handlers.TrainIndexResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /train-index [post]
func (h *Handlers) TrainIndex(c *gin.Context) {
	n, err := h.trainerSvc.Train(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeTrainFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, TrainIndexResponse{Success: true, Documents: n})
}

// WizardStatus godoc
// @ID          wizardStatus
// @Summary     Wizard availability
// @Description Reports whether the recommendation index holds any documents and the current document count.
// @Tags        Wizard
// @Produce     json
//
// @Success     200  {object} handlers.WizardStatusResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /wizard/status [get]
func (h *Handlers) WizardStatus(c *gin.Context) {
	enabled, docs, err := h.trainerSvc.Status(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, WizardStatusResponse{Enabled: enabled, Documents: docs})
}
