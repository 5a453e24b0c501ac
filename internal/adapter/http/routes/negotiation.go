package routes

import (
	"offer_negotiation/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathOffers      = "/offers"
	PathNegotiation = "/:offer_id/negotiation"
	PathWebSocket   = "/ws"
)

func addNegotiationRoutes(rg *gin.RouterGroup, negotiationHandler *handlers.NegotiationHandler, offerHandler *handlers.OfferHandler, wsHandler *handlers.WSHandler) {
	offers := rg.Group(PathOffers)
	{
		offers.POST("", offerHandler.RegisterOffer)
		offers.GET("/:offer_id", offerHandler.GetOffer)
		offers.POST("/:offer_id/accept", negotiationHandler.AcceptOffer)
		offers.POST("/:offer_id/cancel", negotiationHandler.CancelOffer)
	}

	negotiation := offers.Group(PathNegotiation)
	{
		negotiation.GET("", negotiationHandler.GetNegotiation)
		negotiation.GET("/history", negotiationHandler.GetHistory)
		negotiation.PATCH("/terms", negotiationHandler.ProposeTerms)
		negotiation.POST("/confirm", negotiationHandler.Confirm)
		negotiation.POST("/reset", negotiationHandler.ResetConfirmations)
	}

	// Same commands as above, plus pushed negotiation_updated events.
	rg.GET(PathWebSocket, wsHandler.Connect)
}
