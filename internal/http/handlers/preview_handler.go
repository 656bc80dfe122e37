// Preview HTTP handler.
//
// This file exposes the image preview endpoint:
//   - POST /preview   (generate a preview image for a drink configuration)
//
// The handler returns the image URL together with the exact prompt pair used,
// so clients can display or debug what was asked of the generator.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
	"github.com/Pushparajan/CraftYourCoffee/internal/services"
)

// RenderPreview godoc
// @ID          renderPreview
// @Summary     Generate a drink preview image
// @Description Builds an image prompt from the configuration and calls the image generator. Logo compositing is best effort; a failed composite still returns the base image.
// @Tags        Preview
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.DrinkConfig  true  "Drink configuration"
//
// @Success     200  {object} services.PreviewResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     502  {object} handlers.ErrorResponse "Image generation failed"
// @Router      /preview [post]
func (h *Handlers) RenderPreview(c *gin.Context) {
	var cfg domain.DrinkConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.previewSvc.Render(c.Request.Context(), cfg)
	if err != nil {
		switch err {
		case services.ErrEmptyConfig:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "config requires a base")
		default:
			fail(c, http.StatusBadGateway, ErrCodePreviewFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, res)
}
