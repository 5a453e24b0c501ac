package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	request "offer_negotiation/internal/adapter/http/dto/request"
	response "offer_negotiation/internal/adapter/http/dto/response"
	"offer_negotiation/internal/adapter/http/middleware"
	"offer_negotiation/internal/adapter/websocket"
	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase"
	"offer_negotiation/pkg"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

var (
	errInvalidFrame = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid command frame", http.StatusBadRequest)
	errNoSession    = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid bearer token", http.StatusUnauthorized)
)

// WSHandler upgrades authenticated requests to a negotiation session and
// answers the command frames they send.
type WSHandler struct {
	gateway  usecase.ISyncGateway
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewWSHandler(gw usecase.ISyncGateway, hub *websocket.Hub) *WSHandler {
	return &WSHandler{
		gateway: gw,
		hub:     hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// origin is not checked; sessions authenticate by token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect godoc
// @Summary      Open a negotiation session
// @Description  Upgrades to WebSocket. Send command frames ({request_id, type, offer_id, ...}); receive result, error and negotiation_updated frames.
// @Tags         negotiation
// @Param        access_token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	if userID == "" {
		c.JSON(errNoSession.HTTPStatus, errNoSession.ToHTTPError())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[http][ws] upgrade failed user_id=%s err=%v", userID, err)
		return
	}
	websocket.NewClient(h.hub, conn, userID).Serve()
}

// HandleFrame decodes one command frame, runs it as userID and renders the
// reply. It never fails: problems become error frames.
func (h *WSHandler) HandleFrame(ctx context.Context, userID string, frame []byte) []byte {
	var in request.CommandFrame
	if err := json.Unmarshal(frame, &in); err != nil {
		return encodeFrame(response.NewErrorFrame("", "", errInvalidFrame))
	}

	cmd, err := in.ToCommand(userID)
	if err != nil {
		return encodeFrame(response.NewErrorFrame(in.RequestID, string(in.Type), errInvalidFrame))
	}

	reply, err := h.gateway.Dispatch(ctx, cmd)
	if err != nil {
		appErr := MapNegotiationError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Printf("[http][ws] command failed cmd=%s offer_id=%s user_id=%s err=%v", cmd.Type, cmd.OfferID, userID, err)
		}
		return encodeFrame(response.NewErrorFrame(in.RequestID, string(in.Type), appErr))
	}
	return encodeFrame(response.FromReply(in.RequestID, reply))
}

// EncodeEvent renders committed negotiation updates for the hub.
func EncodeEvent(event entities.NegotiationEvent) ([]byte, error) {
	return json.Marshal(response.FromEvent(event))
}

func encodeFrame(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[http][ws] encode frame failed err=%v", err)
		return nil
	}
	return b
}
