package routes

import (
	"net/http"
	"testing"

	"offer_negotiation/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

func TestAddNegotiationRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	addNegotiationRoutes(r.Group("/v1"), handlers.NewNegotiationHandler(nil), handlers.NewOfferHandler(nil), handlers.NewWSHandler(nil, nil))

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		http.MethodPost + " /v1/offers",
		http.MethodGet + " /v1/offers/:offer_id",
		http.MethodPost + " /v1/offers/:offer_id/accept",
		http.MethodPost + " /v1/offers/:offer_id/cancel",
		http.MethodGet + " /v1/offers/:offer_id/negotiation",
		http.MethodGet + " /v1/offers/:offer_id/negotiation/history",
		http.MethodPatch + " /v1/offers/:offer_id/negotiation/terms",
		http.MethodPost + " /v1/offers/:offer_id/negotiation/confirm",
		http.MethodPost + " /v1/offers/:offer_id/negotiation/reset",
		http.MethodGet + " /v1/ws",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route not registered: %s", route)
		}
	}
}
