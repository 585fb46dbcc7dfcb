package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/minefield/logger"
	"github.com/wfunc/minefield/models"
	"github.com/wfunc/minefield/persistence"
	"github.com/wfunc/minefield/room"
	"github.com/wfunc/minefield/services"
)

// Server manages the RPC listener for the ops-facing diagnostics surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes read-only diagnostics over net/rpc. It reads registry
// state and match records but never mutates a room.
type StatsService struct {
	registry *room.Registry
	records  *services.RecordService
}

// NewStatsService creates a new StatsService.
func NewStatsService(registry *room.Registry, records *services.RecordService) *StatsService {
	return &StatsService{registry: registry, records: records}
}

type OverviewArgs struct{}

type OverviewReply struct {
	TotalRooms   int
	TotalPlayers int
}

func (s *StatsService) Overview(args *OverviewArgs, reply *OverviewReply) error {
	reply.TotalRooms = s.registry.RoomCount()
	reply.TotalPlayers = s.registry.PlayerCount()
	return nil
}

type RoomsArgs struct{}

type RoomsReply struct {
	Rooms []models.RoomSummary
}

func (s *StatsService) Rooms(args *RoomsArgs, reply *RoomsReply) error {
	reply.Rooms = s.registry.Summaries()
	return nil
}

type LeaderboardArgs struct {
	Limit int
}

type LeaderboardReply struct {
	Entries []persistence.LeaderboardEntry
}

func (s *StatsService) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	limit := args.Limit
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.records.Leaderboard(limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}
