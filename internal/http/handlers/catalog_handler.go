// Catalog HTTP handlers.
//
// This file exposes the read-only catalog endpoint:
//   - GET /options/{category}   (list selectable options for one category)
//
// Categories map onto catalog tables (bases, sizes, milks, syrups, toppings,
// temperatures). Unknown categories return 404 so clients can distinguish a
// bad category name from an empty catalog.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pushparajan/CraftYourCoffee/internal/services"
)

// ListOptions godoc
// @ID          listOptions
// @Summary     List options for a catalog category
// @Description Returns the ordered option list for one category. Prices are omitted per-option when the catalog has no price data.
// @Tags        Catalog
// @Produce     json
//
// @Param       category  path  string  true  "Category name"  Enums(bases, sizes, milks, syrups, toppings, temperatures)
//
// @Success     200  {array}  domain.Option
// @Failure     404  {object} handlers.ErrorResponse "Unknown category"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /options/{category} [get]
func (h *Handlers) ListOptions(c *gin.Context) {
	category := c.Param("category")

	opts, err := h.catalogSvc.Options(c.Request.Context(), category)
	if err != nil {
		switch err {
		case services.ErrUnknownCategory:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown category: "+category)
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, opts)
}
