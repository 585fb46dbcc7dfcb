package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wfunc/minefield/chat"
	"github.com/wfunc/minefield/logger"
	"github.com/wfunc/minefield/network"
	"github.com/wfunc/minefield/room"
	"github.com/wfunc/minefield/services"
	"github.com/wfunc/minefield/session"
)

func (s *GameServer) handleJoinRoom(sess *session.Session, env *network.Envelope) {
	var req network.JoinRoomRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		s.ackError(sess, env.Seq, "invalid_data")
		return
	}
	if req.RoomID == "" || req.PlayerName == "" {
		s.ackError(sess, env.Seq, "invalid_data")
		return
	}
	// One room per session; a second join is a state error.
	if _, _, bound := sess.Binding(); bound {
		s.ackError(sess, env.Seq, "invalid_state")
		return
	}

	r := s.registry.GetOrCreate(req.RoomID)
	res, err := r.Join(sess.GetID(), req.PlayerName, req.Gender)
	if err != nil {
		s.ackError(sess, env.Seq, room.Reason(err))
		return
	}
	sess.Bind(req.RoomID, res.PlayerIndex)

	joinMsg := s.chats.AddSystem(req.RoomID, fmt.Sprintf("%s joined the game", req.PlayerName))

	s.broadcastJSON(req.RoomID, network.EventPlayerJoined, req.PlayerName)
	s.broadcastJSON(req.RoomID, network.EventRoomUpdate, network.RoomUpdateEvent{Players: r.PlayerInfos()})
	s.broadcastJSON(req.RoomID, network.EventNewMessage, joinMsg)

	// 给新玩家发送聊天历史
	s.sendJSON(sess, network.EventChatHistory, s.chats.History(req.RoomID))

	s.ack(sess, env.Seq, network.JoinRoomAck{OK: true, PlayerIndex: res.PlayerIndex})

	if res.PlacingStarted {
		s.broadcastJSON(req.RoomID, network.EventStartPlacing, nil)
		placingMsg := s.chats.AddSystem(req.RoomID, "Both players are in! Start placing your bombs.")
		s.broadcastJSON(req.RoomID, network.EventNewMessage, placingMsg)
	}

	logger.Log.Infof("Session %s joined room %s as player %d", sess.GetID(), req.RoomID, res.PlayerIndex)
}

func (s *GameServer) handlePlaceBomb(sess *session.Session, env *network.Envelope) {
	var req network.PlaceBombRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		s.ackError(sess, env.Seq, "invalid_data")
		return
	}

	r, exists := s.registry.Get(req.RoomID)
	if !exists {
		s.ackError(sess, env.Seq, "invalid_state")
		return
	}

	res, err := r.PlaceBomb(sess.GetID(), req.Coord)
	if err != nil {
		s.ackError(sess, env.Seq, room.Reason(err))
		return
	}

	ack := network.PlaceBombAck{OK: true, Coord: req.Coord, AllPlayersPlaced: res.AllPlaced}
	if res.AllPlaced {
		turn := res.TurnIndex
		ack.TurnIndex = &turn

		s.broadcastJSON(req.RoomID, network.EventGameStarted, network.GameStartedEvent{TurnIndex: res.TurnIndex})
		startMsg := s.chats.AddSystem(req.RoomID, "All bombs are placed! The game begins!")
		s.broadcastJSON(req.RoomID, network.EventNewMessage, startMsg)
	}
	s.ack(sess, env.Seq, ack)
}

func (s *GameServer) handleMakeMove(sess *session.Session, env *network.Envelope) {
	var req network.MakeMoveRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		s.ackError(sess, env.Seq, "invalid_data")
		return
	}

	r, exists := s.registry.Get(req.RoomID)
	if !exists {
		s.ackError(sess, env.Seq, "invalid_state")
		return
	}

	res, err := r.MakeMove(sess.GetID(), req.Coord)
	if err != nil {
		s.ackError(sess, env.Seq, room.Reason(err))
		return
	}

	s.broadcastJSON(req.RoomID, network.EventMoveResult, network.MoveResultEvent{
		By:       res.By,
		Coord:    res.Coord,
		Hit:      res.Hit,
		Balances: res.Balances,
		NextTurn: res.NextTurn,
	})

	if res.Hit {
		s.broadcastJSON(req.RoomID, network.EventGameOver, network.GameOverEvent{WinnerIndex: res.WinnerIndex})
		overMsg := s.chats.AddSystem(req.RoomID,
			fmt.Sprintf("%s stepped on a mine! Winner: %s!", res.MoverName, res.WinnerName))
		s.broadcastJSON(req.RoomID, network.EventNewMessage, overMsg)

		s.recordHitFinish(r, res.WinnerIndex)
		s.monitor.IncGamesFinished(services.OutcomeHit)

		s.ack(sess, env.Seq, network.MakeMoveAck{OK: true, Result: "hit"})
		return
	}

	s.ack(sess, env.Seq, network.MakeMoveAck{OK: true, Result: "safe", Reward: res.Reward})
}

func (s *GameServer) handleSendMessage(sess *session.Session, env *network.Envelope) {
	var req network.SendMessageRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		s.ackError(sess, env.Seq, "invalid_data")
		return
	}

	r, exists := s.registry.Get(req.RoomID)
	if !exists {
		s.ackError(sess, env.Seq, "room_not_found")
		return
	}
	playerName, seated := r.PlayerName(sess.GetID())
	if !seated {
		s.ackError(sess, env.Seq, "player_not_found")
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		s.ackError(sess, env.Seq, "empty_message")
		return
	}
	if len(req.Message) > chat.MaxMessageLen {
		s.ackError(sess, env.Seq, "message_too_long")
		return
	}

	msg := s.chats.AddPlayer(req.RoomID, sess.GetID(), playerName, text)
	s.broadcastJSON(req.RoomID, network.EventNewMessage, msg)
	s.ack(sess, env.Seq, network.SendMessageAck{OK: true})
}

// handleDisconnect runs on the connection teardown path. It removes the player
// from their bound room, settling a live game as a forfeit and destroying the
// room once it is empty.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	roomID, _, bound := sess.Binding()
	if !bound {
		return
	}
	sess.ClearBinding()

	r, exists := s.registry.Get(roomID)
	if !exists {
		return
	}
	res, seated := r.Leave(sess.GetID())
	if !seated {
		return
	}

	leaveMsg := s.chats.AddSystem(roomID, fmt.Sprintf("%s left the game", res.PlayerName))

	if res.Forfeit {
		s.broadcastJSON(roomID, network.EventGameOver, network.GameOverEvent{WinnerIndex: res.WinnerIndex})
		forfeitMsg := s.chats.AddSystem(roomID,
			fmt.Sprintf("Game over. %s wins because the opponent disconnected.", res.WinnerName))
		s.broadcastJSON(roomID, network.EventNewMessage, forfeitMsg)

		s.recordForfeitFinish(r, res)
		s.monitor.IncGamesFinished(services.OutcomeForfeit)
	}

	s.broadcastJSON(roomID, network.EventRoomUpdate, network.RoomUpdateEvent{Players: r.PlayerInfos()})
	s.broadcastJSON(roomID, network.EventPlayerLeft, res.PlayerName)
	s.broadcastJSON(roomID, network.EventNewMessage, leaveMsg)

	if res.Remaining == 0 && s.registry.DestroyIfEmpty(roomID) {
		s.chats.Drop(roomID)
		logger.Log.Infof("Room %s deleted (empty)", roomID)
	}
}

func (s *GameServer) recordHitFinish(r *room.Room, winnerIndex int) {
	infos := r.PlayerInfos()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	outcomes := services.BuildOutcomes(names, r.Scores(), winnerIndex)
	record := services.BuildRecord(r.ID, services.OutcomeHit, winnerIndex, outcomes, time.Since(r.CreatedAt))
	go func() {
		if err := s.records.Save(record); err != nil {
			logger.Log.Warnf("Failed to save game record for room %s: %v", r.ID, err)
		}
	}()
}

func (s *GameServer) recordForfeitFinish(r *room.Room, res room.LeaveResult) {
	outcomes := services.BuildOutcomes(
		[]string{res.WinnerName, res.PlayerName},
		[]int{res.WinnerScore, res.PlayerScore},
		res.WinnerIndex,
	)
	record := services.BuildRecord(r.ID, services.OutcomeForfeit, res.WinnerIndex, outcomes, time.Since(r.CreatedAt))
	go func() {
		if err := s.records.Save(record); err != nil {
			logger.Log.Warnf("Failed to save game record for room %s: %v", r.ID, err)
		}
	}()
}

func (s *GameServer) ack(sess *session.Session, seq uint32, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Failed to marshal ack payload: %v", err)
		return
	}
	if err := sess.SendAck(seq, data); err != nil {
		logger.Log.Warnf("Failed to send ack to session %s: %v", sess.GetID(), err)
	}
}

func (s *GameServer) ackError(sess *session.Session, seq uint32, reason string) {
	s.ack(sess, seq, network.ErrorAck{OK: false, Reason: reason})
}

func (s *GameServer) sendJSON(sess *session.Session, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("Failed to marshal %s payload: %v", event, err)
		return
	}
	if err := sess.Send(event, data); err != nil {
		logger.Log.Warnf("Failed to send %s to session %s: %v", event, sess.GetID(), err)
	}
}

func (s *GameServer) broadcastJSON(roomID, event string, payload interface{}) {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			logger.Log.Errorf("Failed to marshal %s payload: %v", event, err)
			return
		}
	}
	if err := s.broadcaster.BroadcastToRoom(roomID, event, data); err != nil {
		logger.Log.Warnf("Failed to broadcast %s to room %s: %v", event, roomID, err)
	}
}
