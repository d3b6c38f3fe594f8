// internal/api/websocket_test.go
package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *ActivityHub {
	return &ActivityHub{
		clients:     make(map[*ActivityClient]struct{}),
		pingTimeout: time.Minute,
	}
}

func newTestClient(buffer int) *ActivityClient {
	return &ActivityClient{
		send:      make(chan []byte, buffer),
		lastPing:  time.Now(),
		createdAt: time.Now(),
	}
}

// 写循环退出只标记客户端关闭，send通道仍归hub所有：
// 此时广播不能panic，通道由注销流程关闭
func TestBroadcast_AfterWriterExit(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(1)
	hub.registerClient(client)

	client.Close()
	require.True(t, client.IsClosed())

	require.NotPanics(t, func() {
		hub.broadcastMessage([]byte(`{"type":"script_generated"}`))
	})

	hub.unregisterClient(client)
	_, open := <-client.send
	assert.False(t, open, "注销后send通道应已关闭")
}

func TestUnregister_ClosesSendExactlyOnce(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(1)
	hub.registerClient(client)

	hub.unregisterClient(client)

	// 读循环与清理可能重复注销同一客户端
	require.NotPanics(t, func() { hub.unregisterClient(client) })
	require.NotPanics(t, func() { hub.broadcastMessage([]byte(`{}`)) })
}

func TestBroadcast_QueueFullMarksClientDead(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(1)
	hub.registerClient(client)

	hub.broadcastMessage([]byte(`{"n":1}`))
	hub.broadcastMessage([]byte(`{"n":2}`))

	assert.True(t, client.IsClosed(), "队列满的客户端应被标记为关闭")
	require.NotPanics(t, func() { hub.broadcastMessage([]byte(`{"n":3}`)) })

	// 清理过程移除已关闭的客户端并关闭其send通道
	hub.cleanupExpired()

	message, open := <-client.send
	require.True(t, open)
	assert.Equal(t, `{"n":1}`, string(message))

	_, open = <-client.send
	assert.False(t, open)
}

func TestCleanupExpired_RemovesStaleClients(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(1)
	hub.registerClient(client)
	client.lastPing = time.Now().Add(-2 * time.Minute)

	hub.cleanupExpired()

	assert.Equal(t, 0, hub.GetStatus()["total_connections"])
	_, open := <-client.send
	assert.False(t, open)
}
