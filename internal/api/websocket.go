// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Corphon/ClipForge/internal/utils"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该进行更严格的检查
		return true
	},
}

// ActivityClient 表示一个订阅生成活动的 WebSocket 客户端
type ActivityClient struct {
	conn      *websocket.Conn
	userID    string
	send      chan []byte
	closed    int32 // 原子操作标志，0=开启，1=关闭
	lastPing  time.Time
	createdAt time.Time
}

// ActivityHub 管理所有活动订阅连接并广播生成事件
type ActivityHub struct {
	clients       map[*ActivityClient]struct{}
	broadcast     chan []byte
	register      chan *ActivityClient
	unregister    chan *ActivityClient
	done          chan struct{}
	mutex         sync.RWMutex
	pingTimeout   time.Duration
	cleanupTicker *time.Ticker
}

// 全局活动中心
var activityHub = &ActivityHub{
	clients:     make(map[*ActivityClient]struct{}),
	broadcast:   make(chan []byte, 256),
	register:    make(chan *ActivityClient, 16),
	unregister:  make(chan *ActivityClient, 16),
	done:        make(chan struct{}),
	pingTimeout: 60 * time.Second,
}

func init() {
	go activityHub.run()
}

// Close 安全关闭客户端连接
func (client *ActivityClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		// 只设置关闭标志并断开连接；send通道由hub协程统一关闭
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// IsClosed 检查连接是否已关闭
func (client *ActivityClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// IsExpired 检查连接是否超时
func (client *ActivityClient) IsExpired(timeout time.Duration) bool {
	if timeout <= 0 {
		return true
	}
	return time.Since(client.lastPing) > timeout
}

// run 活动中心主循环
func (hub *ActivityHub) run() {
	hub.cleanupTicker = time.NewTicker(30 * time.Second)
	defer hub.cleanupTicker.Stop()

	for {
		select {
		case client := <-hub.register:
			hub.registerClient(client)

		case client := <-hub.unregister:
			hub.unregisterClient(client)

		case <-hub.cleanupTicker.C:
			hub.cleanupExpired()

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)

		case <-hub.done:
			hub.shutdown()
			return
		}
	}
}

func (hub *ActivityHub) registerClient(client *ActivityClient) {
	if client == nil {
		return
	}

	hub.mutex.Lock()
	hub.clients[client] = struct{}{}
	client.lastPing = time.Now()
	hub.mutex.Unlock()

	utils.GetLogger().Info("活动订阅客户端已连接", map[string]interface{}{"user_id": client.userID})
}

func (hub *ActivityHub) unregisterClient(client *ActivityClient) {
	if client == nil {
		return
	}

	hub.mutex.Lock()
	_, registered := hub.clients[client]
	if registered {
		delete(hub.clients, client)
	}
	hub.mutex.Unlock()

	// send通道只在hub协程里关闭，且只在客户端首次移出注册表时关闭一次，
	// 与广播串行执行，写循环退出不会触发并发close
	if registered {
		close(client.send)
	}
	if !client.IsClosed() {
		client.Close()
	}
}

func (hub *ActivityHub) cleanupExpired() {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for client := range hub.clients {
		if client.IsClosed() || client.IsExpired(hub.pingTimeout) {
			delete(hub.clients, client)
			close(client.send)
			if !client.IsClosed() {
				client.Close()
			}
		}
	}
}

func (hub *ActivityHub) broadcastMessage(message []byte) {
	hub.mutex.RLock()
	clients := make([]*ActivityClient, 0, len(hub.clients))
	for client := range hub.clients {
		if !client.IsClosed() {
			clients = append(clients, client)
		}
	}
	hub.mutex.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			// 队列满视为死连接
			client.Close()
		}
	}
}

func (hub *ActivityHub) shutdown() {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for client := range hub.clients {
		close(client.send)
		client.Close()
	}
	hub.clients = make(map[*ActivityClient]struct{})
}

// GetStatus 获取活动中心状态
func (hub *ActivityHub) GetStatus() map[string]interface{} {
	hub.mutex.RLock()
	defer hub.mutex.RUnlock()

	active := 0
	for client := range hub.clients {
		if !client.IsClosed() {
			active++
		}
	}

	return map[string]interface{}{
		"total_connections": active,
	}
}

// BroadcastActivity 向所有订阅者广播一条生成活动事件
// 事件在生成完成后发出，不携带音频等大负载
func BroadcastActivity(eventType string, payload map[string]interface{}) {
	message := map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		utils.GetLogger().Error("序列化活动事件失败", map[string]interface{}{"error": err.Error()})
		return
	}

	select {
	case activityHub.broadcast <- msgBytes:
	default:
		// 广播队列满时丢弃事件，活动流是尽力而为的
	}
}

// ActivityWebSocket 处理生成活动订阅连接
func (h *Handler) ActivityWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("WebSocket升级失败", map[string]interface{}{"error": err.Error()})
		return
	}

	userID, _ := GetUserFromContext(c)

	client := &ActivityClient{
		conn:      conn,
		userID:    userID,
		send:      make(chan []byte, 64),
		lastPing:  time.Now(),
		createdAt: time.Now(),
	}

	activityHub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// writeLoop 把广播消息写入连接，并定期发送ping
func (client *ActivityClient) writeLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}

			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop 消费入站消息以处理pong与关闭帧
func (client *ActivityClient) readLoop() {
	defer func() {
		activityHub.unregister <- client
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(activityHub.pingTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.lastPing = time.Now()
		client.conn.SetReadDeadline(time.Now().Add(activityHub.pingTimeout))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
		client.lastPing = time.Now()
	}
}
