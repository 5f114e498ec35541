package server

import (
	"encoding/json"
	"errors"
	"time"

	"friend-bucket/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
)

// Write-through persistence. Every function is a no-op without a
// database connection, which is how the engine runs in tests.

type EventPayload struct {
	Room     string `json:"room,omitempty"`
	Player   string `json:"player,omitempty"`
	PlayerID int    `json:"player_id,omitempty"`
	Round    int    `json:"round,omitempty"`
	Phase    string `json:"phase,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Count    int    `json:"count,omitempty"`
}

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	record := db.Room{
		Name:         room.Name,
		CurrentRound: room.CurrentRound,
		MaxRound:     room.MaxRound,
		Phase:        room.Phase,
		Private:      room.Private,
		Password:     room.Password,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrRoomExists
		}
		return err
	}
	room.DBID = record.ID
	return s.persistEvent(room, "room_created", EventPayload{Room: room.Name})
}

func (s *Server) persistPlayer(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID != 0 {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	record := db.Player{
		RoomID: room.DBID,
		UserID: player.UserID,
		Name:   player.Name,
		IsHost: player.IsHost,
		Color:  player.Color,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			var existing db.Player
			if lookupErr := s.db.Where("room_id = ? AND name = ?", room.DBID, player.Name).First(&existing).Error; lookupErr == nil {
				player.DBID = existing.ID
				return nil
			}
		}
		return err
	}
	player.DBID = record.ID
	return s.persistEvent(room, "player_joined", EventPayload{Player: player.Name, PlayerID: player.ID})
}

// persistRoundStart writes the room's advanced round/phase and the batch
// of freshly created assignments.
func (s *Server) persistRoundStart(room *Room) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"current_round": room.CurrentRound,
		"phase":         room.Phase,
		"started_at":    &now,
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error; err != nil {
		return err
	}
	if err := s.persistAssignments(room); err != nil {
		return err
	}
	return s.persistEvent(room, "round_started", EventPayload{Round: room.CurrentRound, Phase: room.Phase})
}

func (s *Server) persistAssignments(room *Room) error {
	if s.db == nil {
		return nil
	}
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.DBID != 0 {
			continue
		}
		player := playerByID(room, assignment.PlayerID)
		if player == nil {
			return errors.New("player not found")
		}
		if player.DBID == 0 {
			if err := s.persistPlayer(room, player); err != nil {
				return err
			}
		}
		record := db.PlayerTask{
			RoomID:    room.DBID,
			PlayerID:  player.DBID,
			TaskID:    assignment.TaskID,
			Round:     assignment.Round,
			Status:    assignment.Status,
			ScopeCost: assignment.ScopeCost,
		}
		if err := s.db.Create(&record).Error; err != nil {
			return err
		}
		assignment.DBID = record.ID
	}
	return nil
}

func (s *Server) persistAnswers(room *Room, assignmentIDs []int) error {
	if s.db == nil || len(assignmentIDs) == 0 {
		return nil
	}
	for _, id := range assignmentIDs {
		assignment := assignmentByVoteID(room, id)
		if assignment == nil || assignment.DBID == 0 {
			continue
		}
		answeredAt := assignment.AnsweredAt
		updates := map[string]any{
			"answer":      assignment.Answer,
			"status":      assignment.Status,
			"answered_at": &answeredAt,
		}
		if err := s.db.Model(&db.PlayerTask{}).Where("id = ?", assignment.DBID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) persistLikes(room *Room, likes []likeRecord) error {
	if s.db == nil || len(likes) == 0 {
		return nil
	}
	for _, like := range likes {
		assignment := assignmentByVoteID(room, like.AssignmentID)
		voter := playerByID(room, like.VoterID)
		if assignment == nil || assignment.DBID == 0 || voter == nil || voter.DBID == 0 {
			continue
		}
		record := db.PlayerTaskLike{
			PlayerTaskID: assignment.DBID,
			VoterID:      voter.DBID,
		}
		if err := s.db.Create(&record).Error; err != nil && !isUniqueViolation(err) {
			return err
		}
	}
	return nil
}

// persistScores writes the round's final assignment statuses and the
// updated player scores.
func (s *Server) persistScores(room *Room) error {
	if s.db == nil {
		return nil
	}
	for i := range room.Assignments {
		assignment := &room.Assignments[i]
		if assignment.DBID == 0 || assignment.Status != taskFinished || assignment.FinishedAt.IsZero() {
			continue
		}
		finishedAt := assignment.FinishedAt
		updates := map[string]any{
			"status":      assignment.Status,
			"finished_at": &finishedAt,
		}
		if err := s.db.Model(&db.PlayerTask{}).Where("id = ? AND status <> ?", assignment.DBID, taskFinished).Updates(updates).Error; err != nil {
			return err
		}
	}
	for i := range room.Players {
		player := &room.Players[i]
		if player.DBID == 0 {
			continue
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Update("score", player.Score).Error; err != nil {
			return err
		}
	}
	return s.persistPhase(room, "round_scored", EventPayload{Round: room.CurrentRound, Phase: room.Phase})
}

func (s *Server) persistPhase(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	updates := map[string]any{
		"phase":         room.Phase,
		"current_round": room.CurrentRound,
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error; err != nil {
		return err
	}
	return s.persistEvent(room, eventType, payload)
}

func (s *Server) persistEvent(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomID:   room.DBID,
		PlayerID: s.resolveEventPlayerID(room, payload),
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventPlayerID(room *Room, payload EventPayload) *uint {
	if payload.PlayerID <= 0 {
		return nil
	}
	player := playerByID(room, payload.PlayerID)
	if player == nil || player.DBID == 0 {
		return nil
	}
	id := player.DBID
	return &id
}

func (s *Server) ensureRoomDBID(room *Room) error {
	if s.db == nil || room.DBID != 0 {
		return nil
	}
	var record db.Room
	if err := s.db.Where("name = ?", room.Name).First(&record).Error; err != nil {
		return err
	}
	room.DBID = record.ID
	return nil
}

// archiveRoom copies a finished (or abandoned) room into the archive
// tables and deletes the live rows, mirroring the game's teardown rules.
func (s *Server) archiveRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	var startedAt *time.Time
	if !room.RoundStartedAt.IsZero() {
		at := room.RoundStartedAt
		startedAt = &at
	}
	archived := db.ArchivedRoom{
		Name:         room.Name,
		CurrentRound: room.CurrentRound,
		MaxRound:     room.MaxRound,
		Private:      room.Private,
		CreatedAt:    room.CreatedAt,
		StartedAt:    startedAt,
		FinishedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&archived).Error; err != nil {
		return err
	}
	for i := range room.Players {
		player := &room.Players[i]
		archivedPlayer := db.ArchivedPlayer{
			ArchivedRoomID: archived.ID,
			UserID:         player.UserID,
			Name:           player.Name,
			IsHost:         player.IsHost,
			Score:          player.Score,
			Color:          player.Color,
		}
		if err := s.db.Create(&archivedPlayer).Error; err != nil {
			return err
		}
		for j := range room.Assignments {
			assignment := &room.Assignments[j]
			if assignment.PlayerID != player.ID {
				continue
			}
			record := db.ArchivedPlayerTask{
				ArchivedPlayerID: archivedPlayer.ID,
				TaskID:           assignment.TaskID,
				Round:            assignment.Round,
				Answer:           assignment.Answer,
				Likes:            len(assignment.LikedBy),
				ScopeCost:        assignment.ScopeCost,
				CreatedAt:        assignment.CreatedAt,
			}
			if !assignment.AnsweredAt.IsZero() {
				at := assignment.AnsweredAt
				record.AnsweredAt = &at
			}
			if !assignment.FinishedAt.IsZero() {
				at := assignment.FinishedAt
				record.FinishedAt = &at
			}
			if err := s.db.Create(&record).Error; err != nil {
				return err
			}
		}
	}
	if room.DBID != 0 {
		if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Event{}).Error; err != nil {
			return err
		}
		if err := s.db.Exec("DELETE FROM player_task_likes WHERE player_task_id IN (SELECT id FROM player_tasks WHERE room_id = ?)", room.DBID).Error; err != nil {
			return err
		}
		if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.PlayerTask{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Player{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("id = ?", room.DBID).Delete(&db.Room{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
