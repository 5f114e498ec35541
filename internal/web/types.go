package web

type RoomCard struct {
	Name         string
	Phase        string
	CurrentRound int
	MaxRound     int
	Private      bool
	Players      int
	Live         int
}

type StatsData struct {
	Users       int64
	Rooms       int64
	RoomsInPlay int64
	Tasks       int64
	OpenRooms   int
}
