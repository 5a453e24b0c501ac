package main

import (
	_ "offer_negotiation/docs"
	"offer_negotiation/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Offer Negotiation API
// @version         1.0
// @description     Seeker and provider negotiate an offer's terms, confirm them and accept or cancel the offer. Every committed change is pushed to both parties as a negotiation_updated frame on GET /v1/ws, which also accepts the REST commands as JSON frames. All routes except /v1/ping need a JWT, sent as a Bearer header or, for WebSocket clients that cannot set headers, as the access_token query parameter.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @tag.name         offers
// @tag.description  Offer registration and lookup.
// @tag.name         negotiation
// @tag.description  Terms, confirmations, history, acceptance and cancellation. Each mutation is also broadcast over /ws.

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description HS256 JWT carrying a user_id claim, as "Bearer <token>". WebSocket clients may pass the raw token as ?access_token= instead.

func main() {
	routes.Run()
}
