package server

import "sort"

// Player registry helpers. Callers hold the room lock.

func addPlayer(room *Room, userID uint, name string, isHost bool) (*Player, error) {
	for i := range room.Players {
		player := &room.Players[i]
		if player.UserID == userID {
			return player, nil
		}
		if player.Name == name {
			return nil, ErrDuplicateName
		}
	}
	player := Player{
		ID:     room.NextPlayerID,
		UserID: userID,
		Name:   name,
		IsHost: isHost,
		Color:  pickPlayerColor(room),
	}
	room.NextPlayerID++
	room.Players = append(room.Players, player)
	return &room.Players[len(room.Players)-1], nil
}

func playerByID(room *Room, playerID int) *Player {
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return &room.Players[i]
		}
	}
	return nil
}

func playerByUserID(room *Room, userID uint) *Player {
	for i := range room.Players {
		if room.Players[i].UserID == userID {
			return &room.Players[i]
		}
	}
	return nil
}

func playerByAddress(room *Room, address string) *Player {
	if address == "" {
		return nil
	}
	for i := range room.Players {
		if room.Players[i].Live && room.Players[i].Address == address {
			return &room.Players[i]
		}
	}
	return nil
}

// markConnected is idempotent; reconnecting just refreshes the address.
func markConnected(player *Player, address string) {
	player.Live = true
	player.Address = address
}

func markDisconnected(player *Player) {
	player.Live = false
	player.Address = ""
}

func livePlayers(room *Room) []*Player {
	live := make([]*Player, 0, len(room.Players))
	for i := range room.Players {
		if room.Players[i].Live {
			live = append(live, &room.Players[i])
		}
	}
	return live
}

func liveCount(room *Room) int {
	count := 0
	for i := range room.Players {
		if room.Players[i].Live {
			count++
		}
	}
	return count
}

// roomScores returns the leaderboard ordered by score descending, lowest
// player id first on equal scores.
func roomScores(room *Room) []PlayerScore {
	scores := make([]PlayerScore, 0, len(room.Players))
	for i := range room.Players {
		scores = append(scores, PlayerScore{
			PlayerID: room.Players[i].ID,
			Username: room.Players[i].Name,
			Score:    room.Players[i].Score,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].PlayerID < scores[j].PlayerID
	})
	return scores
}

// roomWinner picks the live player with the highest score; ties resolve
// to the lowest player id so repeated runs agree.
func roomWinner(room *Room) *Player {
	pick := func(liveOnly bool) *Player {
		var winner *Player
		for i := range room.Players {
			player := &room.Players[i]
			if liveOnly && !player.Live {
				continue
			}
			if winner == nil || player.Score > winner.Score ||
				(player.Score == winner.Score && player.ID < winner.ID) {
				winner = player
			}
		}
		return winner
	}
	if winner := pick(true); winner != nil {
		return winner
	}
	return pick(false)
}
