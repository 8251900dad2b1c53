package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sushidraft/internal/game"
	"sushidraft/internal/randutil"
)

// newTestServer wires a full session + server stack behind an httptest
// listener and returns the WebSocket URL
func newTestServer(t *testing.T) (string, *Server) {
	t.Helper()
	logger := log.New(io.Discard)

	session := game.NewSession(game.DefaultConfig(), quartz.NewReal(), randutil.New(7), logger)
	srv := NewServer(logger)
	gs := NewGameService(session, srv, logger)
	srv.SetGameService(gs)
	srv.Run()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws", srv
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, mt MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil consumes messages until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, mt MessageType) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", mt)
		if msg.Type == mt {
			return &msg
		}
	}
}

func decodeData(t *testing.T, msg *Message, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Data, out))
}

func TestHealthEndpoint(t *testing.T) {
	logger := log.New(io.Discard)
	srv := NewServer(logger)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJoinLobbyOverWebSocket(t *testing.T) {
	url, _ := newTestServer(t)
	conn := dial(t, url)

	sendMsg(t, conn, MessageTypeEnterLobby, EnterLobbyData{Username: "alice"})

	var joined LobbyJoinedData
	decodeData(t, readUntil(t, conn, MessageTypeLobbyJoined), &joined)
	require.True(t, joined.Success)
	assert.Len(t, joined.SessionToken, 26)

	var list PlayerListData
	decodeData(t, readUntil(t, conn, MessageTypePlayerList), &list)
	require.Len(t, list.Players, 1)
	assert.Equal(t, "alice", list.Players[0].Username)
	assert.False(t, list.Players[0].Ready)
}

func TestDuplicateUsernameRejected(t *testing.T) {
	url, _ := newTestServer(t)

	first := dial(t, url)
	sendMsg(t, first, MessageTypeEnterLobby, EnterLobbyData{Username: "alice"})
	var joined LobbyJoinedData
	decodeData(t, readUntil(t, first, MessageTypeLobbyJoined), &joined)
	require.True(t, joined.Success)

	second := dial(t, url)
	sendMsg(t, second, MessageTypeEnterLobby, EnterLobbyData{Username: "alice"})
	decodeData(t, readUntil(t, second, MessageTypeLobbyJoined), &joined)
	assert.False(t, joined.Success)
	assert.Equal(t, "Username already exists.", joined.Message)
}

func TestReadyUpStartsGame(t *testing.T) {
	url, _ := newTestServer(t)

	alice := dial(t, url)
	bob := dial(t, url)

	sendMsg(t, alice, MessageTypeEnterLobby, EnterLobbyData{Username: "alice"})
	readUntil(t, alice, MessageTypeLobbyJoined)
	sendMsg(t, bob, MessageTypeEnterLobby, EnterLobbyData{Username: "bob"})
	readUntil(t, bob, MessageTypeLobbyJoined)

	sendMsg(t, alice, MessageTypeToggleReady, struct{}{})
	sendMsg(t, bob, MessageTypeToggleReady, struct{}{})

	// Everyone ready: both clients see the game start and get a 10-card
	// hand for a 2-player round
	for _, conn := range []*websocket.Conn{alice, bob} {
		readUntil(t, conn, MessageTypeGameStarted)

		var status GameStatusData
		decodeData(t, readUntil(t, conn, MessageTypeGameStatus), &status)
		assert.Equal(t, 1, status.Round)
		assert.Len(t, status.Players, 2)

		var hand HandData
		decodeData(t, readUntil(t, conn, MessageTypeHand), &hand)
		assert.Len(t, hand.Cards, 10)
	}
}

func TestFinishTurnBroadcastsCardPlayed(t *testing.T) {
	url, _ := newTestServer(t)

	alice := dial(t, url)
	bob := dial(t, url)

	sendMsg(t, alice, MessageTypeEnterLobby, EnterLobbyData{Username: "alice"})
	readUntil(t, alice, MessageTypeLobbyJoined)
	sendMsg(t, bob, MessageTypeEnterLobby, EnterLobbyData{Username: "bob"})
	readUntil(t, bob, MessageTypeLobbyJoined)

	sendMsg(t, alice, MessageTypeToggleReady, struct{}{})
	sendMsg(t, bob, MessageTypeToggleReady, struct{}{})

	var hand HandData
	decodeData(t, readUntil(t, alice, MessageTypeHand), &hand)
	require.NotEmpty(t, hand.Cards)

	sendMsg(t, alice, MessageTypeFinishTurn, FinishTurnData{CardID: hand.Cards[0]})

	// The pick is announced to the table without revealing the card
	var played CardPlayedData
	decodeData(t, readUntil(t, bob, MessageTypeCardPlayed), &played)
	assert.NotEmpty(t, played.PlayerID)
}

func TestUnknownMessageTypeReturnsError(t *testing.T) {
	url, _ := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "no_such_type"}))

	var errData ErrorData
	decodeData(t, readUntil(t, conn, MessageTypeError), &errData)
	assert.NotEmpty(t, errData.Message)
}
