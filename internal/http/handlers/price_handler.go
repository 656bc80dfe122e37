// Pricing HTTP handler.
//
// This file exposes the pricing endpoint:
//   - POST /price   (price a drink configuration)
//
// Pricing never persists anything. When the catalog schema carries no price
// columns the service returns a zeroed breakdown with a warning instead of an
// error, so the endpoint still answers 200.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/domain"
)

// QuotePrice godoc
// @ID          quotePrice
// @Summary     Price a drink configuration
// @Description Computes the per-category price breakdown and loyalty points for the given configuration.
// @Tags        Pricing
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.DrinkConfig  true  "Drink configuration"
//
// @Success     200  {object} domain.PriceBreakdown
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /price [post]
func (h *Handlers) QuotePrice(c *gin.Context) {
	var cfg domain.DrinkConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.pricingSvc.Quote(c.Request.Context(), cfg)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodePriceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}
