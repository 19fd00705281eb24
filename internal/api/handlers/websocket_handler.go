// internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Thời gian chờ tối đa cho một tin nhắn từ client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Tokens *auth.TokenIssuer
}

// ServeWs xử lý các yêu cầu kết nối WebSocket. Trình duyệt không gửi được header
// Authorization khi mở WebSocket nên token đi qua query ?token=.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := h.Tokens.Parse(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	log := logger.FromGin(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	h.Hub.Register(connID, claims.Username, conn)

	defer func() {
		h.Hub.Unregister(connID)
		conn.Close()
	}()

	// Heartbeat: client gửi PING, mỗi lần nhận được thì gia hạn deadline và trả PONG.
	// Thay ping handler mặc định thì phải tự gửi PONG.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	// Vòng lặp đọc: chỉ để phát hiện client đóng kết nối.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Info("Unexpected websocket close", zap.Error(err))
			}
			break
		}
	}
}
