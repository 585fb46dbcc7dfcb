package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Seq   uint32          `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var seq uint32

// send wraps a payload in an envelope with a fresh sequence number.
func send(c *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	seq++
	return c.WriteJSON(envelope{Event: event, Seq: seq, Data: data})
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:4000", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV %s (seq %d): %s", env.Event, env.Seq, string(env.Data))
		}
	}()

	var roomID string

	log.Println("Commands: join <room> <name> [gender] | bomb <x> <y> | move <x> <y> | say <text>")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "join":
				if len(fields) < 3 {
					log.Println("Usage: join <room> <name> [gender]")
					continue
				}
				roomID = fields[1]
				gender := ""
				if len(fields) > 3 {
					gender = fields[3]
				}
				err = send(c, "joinRoom", map[string]string{
					"roomId": roomID, "playerName": fields[2], "gender": gender,
				})
			case "bomb", "move":
				if len(fields) < 3 {
					log.Printf("Usage: %s <x> <y>", fields[0])
					continue
				}
				x, _ := strconv.Atoi(fields[1])
				y, _ := strconv.Atoi(fields[2])
				event := "placeBomb"
				if fields[0] == "move" {
					event = "makeMove"
				}
				err = send(c, event, map[string]interface{}{
					"roomId": roomID,
					"coord":  map[string]int{"x": x, "y": y},
				})
			case "say":
				err = send(c, "sendMessage", map[string]string{
					"roomId": roomID, "message": strings.TrimSpace(strings.TrimPrefix(text, "say")),
				})
			default:
				log.Printf("Unknown command %q", fields[0])
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
