package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastDeliversCompressedFrame(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server)
	time.Sleep(10 * time.Millisecond) // let the server finish registering the client

	frame := make([]byte, 160*144*3)
	for i := range frame {
		frame[i] = byte(i)
	}
	require.NoError(t, hub.Broadcast(frame))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	decoded, err := cbrotli.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, frame, decoded)
}

func TestBroadcastSkipsUnchangedFrame(t *testing.T) {
	hub := NewHub()
	frame := make([]byte, 100)
	require.NoError(t, hub.Broadcast(frame))
	firstHash := hub.lastHash

	require.NoError(t, hub.Broadcast(frame))
	assert.Equal(t, firstHash, hub.lastHash)
}

func TestNewConnectionReceivesLastFrame(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	frame := make([]byte, 160*144*3)
	frame[0] = 0x42
	require.NoError(t, hub.Broadcast(frame))

	conn := dial(t, server)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	decoded, err := cbrotli.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, frame, decoded)
}
