package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"friend-bucket/internal/db"
	"friend-bucket/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

// Identity is what the token resolver returns: the account a connection
// speaks for.
type Identity struct {
	UserID   uint
	Username string
}

// resolveIdentity maps a bearer/greeting token to an account.
func (s *Server) resolveIdentity(tokenString string) (Identity, error) {
	userID, username, err := token.Parse(s.cfg.JWTSecret, tokenString)
	if err != nil {
		return Identity{}, err
	}
	if s.db != nil {
		var record db.User
		if err := s.db.Where("id = ?", userID).First(&record).Error; err != nil {
			return Identity{}, token.ErrInvalidToken
		}
		return Identity{UserID: record.ID, Username: record.Username}, nil
	}
	return Identity{UserID: userID, Username: username}, nil
}

func (s *Server) identityFromRequest(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, token.ErrInvalidToken
	}
	return s.resolveIdentity(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
}

// signupUser creates an account and returns its id.
func (s *Server) signupUser(username, email, password string) (uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	if s.db == nil {
		return s.users.add(username, email, string(hash))
	}
	record := db.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateName
		}
		return 0, err
	}
	return record.ID, nil
}

// loginUser checks credentials and issues a token.
func (s *Server) loginUser(username, password string) (string, error) {
	var userID uint
	var hash string
	if s.db == nil {
		record, ok := s.users.byName(username)
		if !ok {
			return "", ErrBadCredentials
		}
		userID = record.ID
		hash = record.Hash
	} else {
		var record db.User
		if err := s.db.Where("username = ?", username).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrBadCredentials
			}
			return "", err
		}
		userID = record.ID
		hash = record.PasswordHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return token.Generate(s.cfg.JWTSecret, userID, username, tokenTTL)
}

// memoryUsers backs accounts when no database is configured.
type memoryUsers struct {
	mu     sync.Mutex
	nextID uint
	byUser map[string]memoryUser
}

type memoryUser struct {
	ID    uint
	Email string
	Hash  string
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		nextID: 1,
		byUser: make(map[string]memoryUser),
	}
}

func (m *memoryUsers) add(username, email, hash string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byUser[username]; exists {
		return 0, ErrDuplicateName
	}
	for _, record := range m.byUser {
		if record.Email == email {
			return 0, ErrDuplicateName
		}
	}
	record := memoryUser{ID: m.nextID, Email: email, Hash: hash}
	m.nextID++
	m.byUser[username] = record
	return record.ID, nil
}

func (m *memoryUsers) byName(username string) (memoryUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.byUser[username]
	return record, ok
}
