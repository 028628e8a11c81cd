package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/middleware"
	"github.com/lanbeam/lanbeam/models"
	"github.com/lanbeam/lanbeam/utils"
)

// WSController upgrades authorized requests to the realtime channel and
// runs the per-connection receive loop.
type WSController struct {
	core     *core.Core
	upgrader websocket.Upgrader
}

func NewWSController(c *core.Core) *WSController {
	return &WSController{
		core: c,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Origin checks don't apply: authorization already happened via
			// trusted origin or session, and the service is LAN-only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle runs one realtime connection. The receive loop blocks only on
// inbound messages from this single peer and touches shared state solely
// through the core's lock. Outbound events arrive through the hub.
func (w *WSController) Handle(ctx *gin.Context) {
	isDesktop := middleware.IsDesktop(ctx)
	deviceID := core.DesktopDeviceID
	if !isDesktop {
		declID, declName := middleware.DeclaredDevice(ctx, true)
		id, _, err := w.core.ResolveDevice(false, declID, declName)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
			return
		}
		deviceID = id
	}

	conn, err := w.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}

	connID, err := w.core.RegisterClient(client, isDesktop, deviceID)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer func() {
		w.core.UnregisterClient(connID)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg models.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			pong, err := json.Marshal(models.Event{Type: models.EventPong, TS: time.Now().UnixMilli()})
			if err != nil {
				continue
			}
			if err := client.WriteText(pong); err != nil {
				return
			}
		}
	}
}

// wsClient adapts a gorilla connection to the hub's ClientConn. The mutex
// serializes writes from the hub and the pong path so per-connection event
// order is preserved.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}
