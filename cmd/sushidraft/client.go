package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"sushidraft/cmd/sushidraft/shared"
	"sushidraft/internal/server"
)

// ClientCmd connects to a running server and plays from the terminal.
// Intended for exercising the protocol; the real client is a web page.
type ClientCmd struct {
	URL      string `kong:"default='ws://localhost:8080/ws',help='Server WebSocket URL'"`
	Username string `kong:"help='Join the lobby immediately with this username'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	conn, _, err := websocket.DefaultDialer.Dial(c.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.URL, err)
	}
	defer func() { _ = conn.Close() }()

	logger.Info("Connected", "url", c.URL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg server.Message
			if err := conn.ReadJSON(&msg); err != nil {
				logger.Info("Connection closed", "error", err)
				return
			}
			printMessage(&msg)
		}
	}()

	send := func(mt server.MessageType, data interface{}) {
		msg, err := server.NewMessage(mt, data)
		if err != nil {
			logger.Error("Failed to build message", "error", err)
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Error("Failed to send message", "error", err)
		}
	}

	if c.Username != "" {
		send(server.MessageTypeEnterLobby, server.EnterLobbyData{Username: c.Username})
	}

	fmt.Println("Commands: join <name> | ready | players | play <cardId> | hand | status | score | countdown | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return nil
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "join":
			if len(fields) < 2 {
				fmt.Println("usage: join <name>")
				continue
			}
			send(server.MessageTypeEnterLobby, server.EnterLobbyData{Username: strings.Join(fields[1:], " ")})
		case "ready":
			send(server.MessageTypeToggleReady, struct{}{})
		case "players":
			send(server.MessageTypeGetPlayerList, struct{}{})
		case "play":
			if len(fields) != 2 {
				fmt.Println("usage: play <cardId>")
				continue
			}
			cardID, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("card id must be a number (1=sashimi 2=dumpling 3=eel 4=tofu)")
				continue
			}
			send(server.MessageTypeFinishTurn, server.FinishTurnData{CardID: cardID})
		case "hand":
			send(server.MessageTypeGetHand, struct{}{})
		case "status":
			send(server.MessageTypeGetGameStatus, struct{}{})
		case "score":
			send(server.MessageTypeGetScore, struct{}{})
		case "countdown":
			send(server.MessageTypeStartCountdown, struct{}{})
		case "quit":
			return nil
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}

	return scanner.Err()
}

func printMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeCountdown:
		var data server.CountdownData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Printf("\rcountdown: %ds ", data.SecondsRemaining)
		}
	case server.MessageTypeHand:
		var data server.HandData
		if json.Unmarshal(msg.Data, &data) == nil {
			fmt.Printf("\nhand: %v\n", data.Cards)
		}
	default:
		var pretty map[string]interface{}
		if json.Unmarshal(msg.Data, &pretty) == nil {
			fmt.Printf("\n[%s] %v\n", msg.Type, pretty)
		} else {
			fmt.Printf("\n[%s]\n", msg.Type)
		}
	}
}
