package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/minefield/broadcast"
	"github.com/wfunc/minefield/chat"
	"github.com/wfunc/minefield/config"
	"github.com/wfunc/minefield/logger"
	"github.com/wfunc/minefield/monitor"
	"github.com/wfunc/minefield/network"
	"github.com/wfunc/minefield/persistence"
	"github.com/wfunc/minefield/room"
	minefield_rpc "github.com/wfunc/minefield/rpc"
	"github.com/wfunc/minefield/services"
	"github.com/wfunc/minefield/session"
	"github.com/wfunc/minefield/timer"
)

// GameServer is the event dispatch facade: it owns the transport endpoints and
// translates inbound events into room operations, acks, and broadcasts. Game
// rules live in the room package, chat in the chat package.
type GameServer struct {
	cfg          config.ServerConfig
	upgrader     websocket.Upgrader
	registry     *room.Registry
	sessions     *session.Manager
	chats        *chat.Store
	broadcaster  broadcast.Broadcaster
	records      *services.RecordService
	monitor      *monitor.Monitor
	timers       *timer.Manager
	rpcServer    *minefield_rpc.Server
	shutdownChan chan struct{}
}

func NewGameServer(cfg config.ServerConfig, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:          cfg,
		registry:     room.NewRegistry(nil),
		sessions:     session.NewManager(),
		chats:        chat.NewStore(),
		records:      services.NewRecordService(db),
		monitor:      monitor.NewMonitor("minefield"),
		timers:       timer.NewManager(),
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.registry, s.sessions)

	return s
}

func (s *GameServer) Start() error {
	rpcServer, err := minefield_rpc.NewServer(s.cfg.RPCAddress)
	if err != nil {
		return err
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	if err := rpc.Register(minefield_rpc.NewStatsService(s.registry, s.records)); err != nil {
		return err
	}
	go s.rpcServer.Start()

	s.monitor.StartServer(s.cfg.MetricsAddress)
	s.timers.Add(0, 5*time.Second, func() {
		s.monitor.SetActiveRooms(s.registry.RoomCount())
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	logger.Log.Infof("Game server listening on %s", s.cfg.HTTPAddress)
	return http.ListenAndServe(s.cfg.HTTPAddress, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessions.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.handleDisconnect(sess)
		s.sessions.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.dispatch(sess, env)
		}
	}
}

// dispatch routes one inbound envelope. Any panic below is caught here and
// reported as a server_error ack, so a bad request can never take the process
// down or leave a half-applied mutation visible.
func (s *GameServer) dispatch(sess *session.Session, env *network.Envelope) {
	start := time.Now()
	s.monitor.IncMessagesReceived()

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("Panic handling %q from session %s: %v", env.Event, sess.GetID(), r)
			s.ackError(sess, env.Seq, "server_error")
		}
		s.monitor.ObserveMessageLatency(time.Since(start))
	}()

	switch env.Event {
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, env)
	case network.EventPlaceBomb:
		s.handlePlaceBomb(sess, env)
	case network.EventMakeMove:
		s.handleMakeMove(sess, env)
	case network.EventSendMessage:
		s.handleSendMessage(sess, env)
	default:
		logger.Log.Infof("Unknown event %q from session %s", env.Event, sess.GetID())
	}
}

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"rooms":     s.registry.RoomCount(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *GameServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"totalRooms":   s.registry.RoomCount(),
		"totalPlayers": s.registry.PlayerCount(),
		"rooms":        s.registry.Summaries(),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("Failed to write response: %v", err)
	}
}
