package server

import (
	"log"
	"net/http"

	"friend-bucket/internal/db"
	"friend-bucket/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.ListRoomSummaries()
	rooms := make([]web.RoomCard, 0, len(summaries))
	for _, summary := range summaries {
		if summary.Phase != phasePending {
			continue
		}
		rooms = append(rooms, web.RoomCard{
			Name:         summary.Name,
			Phase:        summary.Phase,
			CurrentRound: summary.CurrentRound,
			MaxRound:     summary.MaxRound,
			Private:      summary.Private,
			Players:      summary.Players,
			Live:         summary.Live,
		})
	}
	templ.Handler(web.Home(rooms)).ServeHTTP(w, r)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	data := web.StatsData{OpenRooms: len(s.store.ListRoomSummaries())}
	if s.db != nil {
		stats, err := db.LoadStats(s.db)
		if err != nil {
			log.Printf("stats query failed error=%v", err)
		} else {
			data.Users = stats.Users
			data.Rooms = stats.Rooms
			data.RoomsInPlay = stats.RoomsInPlay
			data.Tasks = stats.Tasks
		}
	}
	templ.Handler(web.Stats(data)).ServeHTTP(w, r)
}
