package handlers

import (
	"context"
	"errors"
	"net/http"

	request "offer_negotiation/internal/adapter/http/dto/request"
	response "offer_negotiation/internal/adapter/http/dto/response"
	"offer_negotiation/internal/adapter/http/middleware"
	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase"
	"offer_negotiation/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidTermsPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid terms payload", http.StatusBadRequest)
	errInvalidHistoryQuery = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid history query", http.StatusBadRequest)
)

// NegotiationHandler is the REST mirror of the WebSocket commands. Every route
// runs behind middleware.Auth; the acting user always comes from the token.
type NegotiationHandler struct {
	gateway usecase.ISyncGateway
}

func NewNegotiationHandler(gw usecase.ISyncGateway) *NegotiationHandler {
	return &NegotiationHandler{gateway: gw}
}

// GetNegotiation godoc
// @Summary      Current negotiation snapshot
// @Tags         negotiation
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.NegotiationResponse
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers/{offer_id}/negotiation [get]
func (h *NegotiationHandler) GetNegotiation(c *gin.Context) {
	h.respondView(c, http.StatusOK, h.gateway.GetNegotiation)
}

// GetHistory godoc
// @Summary      Negotiation history
// @Description  Full ledger, or only the entries after a sequence number or timestamp. after_seq wins when both are given.
// @Tags         negotiation
// @Produce      json
// @Param        offer_id   path   string  true   "Offer ID"
// @Param        since      query  string  false  "RFC3339 timestamp"
// @Param        after_seq  query  int     false  "Last sequence number already seen"
// @Success      200  {object}  response.HistoryResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers/{offer_id}/negotiation/history [get]
func (h *NegotiationHandler) GetHistory(c *gin.Context) {
	var raw request.HistoryQuery
	if err := c.ShouldBindQuery(&raw); err != nil {
		c.JSON(errInvalidHistoryQuery.HTTPStatus, errInvalidHistoryQuery.ToHTTPError())
		return
	}
	q, err := raw.Resolve()
	if err != nil {
		c.JSON(errInvalidHistoryQuery.HTTPStatus, errInvalidHistoryQuery.ToHTTPError())
		return
	}

	offerID := c.Param("offer_id")
	entries, err := h.gateway.GetHistory(c.Request.Context(), offerID, middleware.UserIDFrom(c), q)
	if err != nil {
		appErr := MapNegotiationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromHistory(offerID, entries))
}

// ProposeTerms godoc
// @Summary      Propose a partial edit of the terms
// @Description  Omitted fields keep their value. Any effective change clears both confirmations.
// @Tags         negotiation
// @Accept       json
// @Produce      json
// @Param        offer_id  path  string                        true  "Offer ID"
// @Param        terms     body  request.ProposeTermsRequest   true  "Proposed terms"
// @Success      200  {object}  response.NegotiationResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers/{offer_id}/negotiation/terms [patch]
func (h *NegotiationHandler) ProposeTerms(c *gin.Context) {
	var payload request.ProposeTermsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidTermsPayload.HTTPStatus, errInvalidTermsPayload.ToHTTPError())
		return
	}

	terms := payload.ToTerms()
	h.respondView(c, http.StatusOK, func(ctx context.Context, offerID, userID string) (usecase.NegotiationView, error) {
		return h.gateway.ProposeTerms(ctx, offerID, userID, terms)
	})
}

// Confirm godoc
// @Summary      Confirm the current terms
// @Tags         negotiation
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.NegotiationResponse
// @Security     Bearer
// @Router       /offers/{offer_id}/negotiation/confirm [post]
func (h *NegotiationHandler) Confirm(c *gin.Context) {
	h.respondView(c, http.StatusOK, h.gateway.Confirm)
}

// ResetConfirmations godoc
// @Summary      Clear both confirmations
// @Tags         negotiation
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.NegotiationResponse
// @Security     Bearer
// @Router       /offers/{offer_id}/negotiation/reset [post]
func (h *NegotiationHandler) ResetConfirmations(c *gin.Context) {
	h.respondView(c, http.StatusOK, h.gateway.ResetConfirmations)
}

// AcceptOffer godoc
// @Summary      Accept the offer on the mutually confirmed terms
// @Tags         offers
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.NegotiationResponse
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /offers/{offer_id}/accept [post]
func (h *NegotiationHandler) AcceptOffer(c *gin.Context) {
	h.respondView(c, http.StatusOK, h.gateway.AcceptOffer)
}

// CancelOffer godoc
// @Summary      Cancel the offer
// @Tags         offers
// @Produce      json
// @Param        offer_id  path  string  true  "Offer ID"
// @Success      200  {object}  response.NegotiationResponse
// @Security     Bearer
// @Router       /offers/{offer_id}/cancel [post]
func (h *NegotiationHandler) CancelOffer(c *gin.Context) {
	h.respondView(c, http.StatusOK, h.gateway.CancelOffer)
}

func (h *NegotiationHandler) respondView(
	c *gin.Context,
	status int,
	run func(ctx context.Context, offerID, userID string) (usecase.NegotiationView, error),
) {
	view, err := run(c.Request.Context(), c.Param("offer_id"), middleware.UserIDFrom(c))
	if err != nil {
		appErr := MapNegotiationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(status, response.FromNegotiationView(view))
}

// MapNegotiationError translates core errors to the codes clients switch on.
// The WebSocket transport uses the same table.
func MapNegotiationError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidTerms),
		errors.Is(err, usecase.ErrInvalidOfferID),
		errors.Is(err, usecase.ErrInvalidParticipants),
		errors.Is(err, usecase.ErrUnknownCommand),
		errors.Is(err, entities.ErrInvalidParty):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnauthorizedParty):
		return pkg.NewDomainErrorSimple("UNAUTHORIZED_PARTY", "You are not a participant of this offer", http.StatusForbidden)
	case errors.Is(err, usecase.ErrOfferNotFound):
		return pkg.NewDomainErrorSimple("OFFER_NOT_FOUND", "Offer not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNegotiationNotFound):
		return pkg.NewDomainErrorSimple("NEGOTIATION_NOT_FOUND", "No terms have been proposed for this offer yet", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOfferAlreadyExists):
		return pkg.NewDomainErrorSimple("OFFER_ALREADY_EXISTS", "Offer already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrNegotiationTerminal):
		return pkg.NewDomainErrorSimple("NEGOTIATION_TERMINAL", "Offer is no longer negotiable", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotMutuallyConfirmed):
		return pkg.NewDomainErrorSimple("NOT_MUTUALLY_CONFIRMED", "Both parties must confirm the current terms first", http.StatusConflict)
	case errors.Is(err, usecase.ErrNoOpEdit):
		return pkg.NewDomainErrorSimple("NO_OP_EDIT", "Proposed terms are identical to the current terms", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrPersistenceFailure):
		return pkg.NewDomainError("PERSISTENCE_FAILURE", "Change could not be saved, please retry", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
