// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is the wire frame: a named event, an optional request sequence
// number, and a JSON payload. Requests carry a seq; the matching ack echoes it
// back so the client can pair them up.
type Envelope struct {
	Event string          `json:"event"`
	Seq   uint32          `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Connection interface {
	Send(event string, data []byte) error
	SendAck(seq uint32, data []byte) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) write(env *Envelope) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(env)
}

func (c *WSConnection) Send(event string, data []byte) error {
	return c.write(&Envelope{Event: event, Data: data})
}

func (c *WSConnection) SendAck(seq uint32, data []byte) error {
	return c.write(&Envelope{Event: EventAck, Seq: seq, Data: data})
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	var env Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
