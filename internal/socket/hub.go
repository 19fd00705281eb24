// internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"requisition-api-server/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	// số event tối đa xếp hàng cho một client trước khi client đó bị loại
	sendBuffer = 16
)

type client struct {
	id       string
	username string
	conn     *websocket.Conn
	send     chan []byte
}

// Hub quản lý tất cả các client WebSocket.
// Mỗi client có một goroutine ghi riêng, Broadcast không bao giờ ghi trực tiếp vào conn.
type Hub struct {
	// clients: key là id của kết nối, một user có thể mở nhiều tab.
	clients map[string]*client
	mu      sync.Mutex
	log     *zap.Logger
}

// NewHub tạo một Hub mới.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register thêm một client mới vào Hub và khởi động goroutine ghi của nó.
func (h *Hub) Register(connID, username string, conn *websocket.Conn) {
	c := &client{id: connID, username: username, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if old, ok := h.clients[connID]; ok {
		close(old.send)
	}
	h.clients[connID] = c
	h.mu.Unlock()

	go h.writePump(c)
	h.log.Debug("WebSocket client registered", zap.String("conn", connID), zap.String("username", username))
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		h.remove(c)
		h.log.Debug("WebSocket client unregistered", zap.String("conn", connID))
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast xếp event vào hàng đợi của mọi client đang kết nối và trả về ngay.
// Client có hàng đợi đã đầy (đọc quá chậm) bị đóng và loại khỏi Hub.
func (h *Hub) Broadcast(event models.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to encode websocket event", zap.String("event", event.Event), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.log.Warn("Dropping slow websocket client", zap.String("conn", id))
			h.remove(c)
			_ = c.conn.Close()
		}
	}
}

// remove phải được gọi khi đang giữ h.mu.
func (h *Hub) remove(c *client) {
	if h.clients[c.id] != c {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
}

// writePump ghi lần lượt các event trong hàng đợi của client. Kết thúc khi hàng đợi bị
// đóng (client đã bị loại) hoặc khi ghi lỗi.
func (h *Hub) writePump(c *client) {
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn("Dropping websocket client", zap.String("conn", c.id), zap.Error(err))
			_ = c.conn.Close()

			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

			// xả phần còn lại để không ai bị chặn trên channel
			for range c.send {
			}
			return
		}
	}
}
