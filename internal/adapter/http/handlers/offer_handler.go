package handlers

import (
	"net/http"

	request "offer_negotiation/internal/adapter/http/dto/request"
	response "offer_negotiation/internal/adapter/http/dto/response"
	"offer_negotiation/internal/adapter/http/middleware"
	"offer_negotiation/internal/usecase"
	"offer_negotiation/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidOfferPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid offer payload", http.StatusBadRequest)
)

type OfferHandler struct {
	usecase usecase.IOfferUseCase
}

func NewOfferHandler(uc usecase.IOfferUseCase) *OfferHandler {
	return &OfferHandler{usecase: uc}
}

// RegisterOffer godoc
// @Summary      Register the seeker/provider pair of an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        offer  body  request.RegisterOfferRequest  true  "Offer participants"
// @Success      201  {object}  response.OfferResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers [post]
func (h *OfferHandler) RegisterOffer(c *gin.Context) {
	var payload request.RegisterOfferRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidOfferPayload.HTTPStatus, errInvalidOfferPayload.ToHTTPError())
		return
	}

	offer, err := h.usecase.RegisterOffer(c.Request.Context(), payload.OfferID, payload.SeekerID, payload.ProviderID)
	if err != nil {
		appErr := MapNegotiationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromOffer(offer))
}

// GetOffer godoc
// @Summary      Read an offer
// @Tags         offers
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.OfferResponse
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers/{offer_id} [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offer, err := h.usecase.GetOffer(c.Request.Context(), c.Param("offer_id"), middleware.UserIDFrom(c))
	if err != nil {
		appErr := MapNegotiationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOffer(offer))
}
