package db

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Players      []Player
}

type Pack struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:50;uniqueIndex;not null"`
	Tasks []Task
}

type Task struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:500;uniqueIndex;not null"`
	PackID    *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Room struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:150;uniqueIndex;not null"`
	CurrentRound int       `gorm:"not null;default:1"`
	MaxRound     int       `gorm:"not null"`
	Phase        string    `gorm:"size:32;not null"`
	Private      bool      `gorm:"not null;default:false"`
	Password     string    `gorm:"size:16"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	StartedAt    *time.Time
	Players      []Player
	PlayerTasks  []PlayerTask
	Events       []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_players_room_name"`
	UserID    uint      `gorm:"index;not null"`
	Name      string    `gorm:"size:150;not null;uniqueIndex:idx_players_room_name"`
	IsHost    bool      `gorm:"not null;default:false"`
	Score     int       `gorm:"not null;default:0"`
	Color     string    `gorm:"size:7"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Tasks     []PlayerTask
}

type PlayerTask struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null"`
	PlayerID   uint      `gorm:"index;not null"`
	TaskID     uint      `gorm:"index;not null;uniqueIndex:idx_playertasks_task_player"`
	Round      int       `gorm:"not null"`
	Answer     string    `gorm:"size:500"`
	Status     string    `gorm:"size:16;not null"`
	ScopeCost  int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	AnsweredAt *time.Time
	FinishedAt *time.Time
	Likes      []PlayerTaskLike
}

type PlayerTaskLike struct {
	ID           uint      `gorm:"primaryKey"`
	PlayerTaskID uint      `gorm:"index;not null;uniqueIndex:idx_likes_task_voter"`
	VoterID      uint      `gorm:"not null;uniqueIndex:idx_likes_task_voter"`
	CreatedAt    time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

type ArchivedRoom struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:150;not null"`
	CurrentRound int       `gorm:"not null"`
	MaxRound     int       `gorm:"not null"`
	Private      bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	StartedAt    *time.Time
	FinishedAt   time.Time `gorm:"not null"`
	Players      []ArchivedPlayer
}

type ArchivedPlayer struct {
	ID             uint   `gorm:"primaryKey"`
	ArchivedRoomID uint   `gorm:"index;not null"`
	UserID         uint   `gorm:"index;not null"`
	Name           string `gorm:"size:150;not null"`
	IsHost         bool   `gorm:"not null"`
	Score          int    `gorm:"not null"`
	Color          string `gorm:"size:7"`
	Tasks          []ArchivedPlayerTask
}

type ArchivedPlayerTask struct {
	ID               uint   `gorm:"primaryKey"`
	ArchivedPlayerID uint   `gorm:"index;not null"`
	TaskID           uint   `gorm:"index;not null"`
	Round            int    `gorm:"not null"`
	Answer           string `gorm:"size:500"`
	Likes            int    `gorm:"not null"`
	ScopeCost        int    `gorm:"not null"`
	CreatedAt        time.Time
	AnsweredAt       *time.Time
	FinishedAt       *time.Time
}
