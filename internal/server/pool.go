package server

import (
	"math/rand/v2"

	"friend-bucket/internal/db"
)

// Task pool. Tasks are single-use per room for the whole game, so every
// draw excludes the room's full assignment history.

func (s *Server) unusedTaskCount(room *Room) (int, error) {
	if s.db == nil {
		count := 0
		for _, task := range fallbackTaskList() {
			if _, used := room.UsedTasks[task.ID]; !used {
				count++
			}
		}
		return count, nil
	}
	count, err := db.UnusedTaskCount(s.db, usedTaskIDs(room))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// drawTasks picks n unused tasks uniformly at random. The caller has
// already verified availability; a short draw is still reported.
func (s *Server) drawTasks(room *Room, n int) ([]TaskCard, error) {
	if s.db == nil {
		pool := make([]TaskCard, 0)
		for _, task := range fallbackTaskList() {
			if _, used := room.UsedTasks[task.ID]; !used {
				pool = append(pool, task)
			}
		}
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		if len(pool) < n {
			return nil, ErrInsufficientTasks
		}
		return pool[:n], nil
	}

	records, err := db.DrawTasks(s.db, n, usedTaskIDs(room))
	if err != nil {
		return nil, err
	}
	if len(records) < n {
		return nil, ErrInsufficientTasks
	}
	cards := make([]TaskCard, 0, n)
	for _, record := range records {
		cards = append(cards, TaskCard{ID: record.ID, Text: record.Title})
	}
	return cards, nil
}

func usedTaskIDs(room *Room) []uint {
	ids := make([]uint, 0, len(room.UsedTasks))
	for id := range room.UsedTasks {
		ids = append(ids, id)
	}
	return ids
}

// fallbackTaskList backs the engine when no database is configured, which
// is how the tests run.
func fallbackTaskList() []TaskCard {
	return []TaskCard{
		{ID: 1, Text: "Name a food you would eat every day"},
		{ID: 2, Text: "What superpower is actually useless?"},
		{ID: 3, Text: "Invent a terrible ice cream flavor"},
		{ID: 4, Text: "What would your autobiography be called?"},
		{ID: 5, Text: "Worst possible first date location"},
		{ID: 6, Text: "A rejected olympic sport"},
		{ID: 7, Text: "The worst thing to say at a funeral"},
		{ID: 8, Text: "A slogan for a haunted hotel"},
		{ID: 9, Text: "What do fish talk about?"},
		{ID: 10, Text: "Name a sound that should be illegal"},
		{ID: 11, Text: "The worst theme for a birthday party"},
		{ID: 12, Text: "What would aliens find confusing about Earth?"},
		{ID: 13, Text: "A terrible name for a pirate ship"},
		{ID: 14, Text: "The most useless kitchen gadget imaginable"},
		{ID: 15, Text: "What does your pet really think of you?"},
		{ID: 16, Text: "A bad place to fall asleep"},
		{ID: 17, Text: "The worst prize for winning a marathon"},
		{ID: 18, Text: "An unhelpful fortune cookie message"},
		{ID: 19, Text: "A movie sequel nobody asked for"},
		{ID: 20, Text: "The least inspiring motivational poster"},
		{ID: 21, Text: "What robots dream about"},
		{ID: 22, Text: "A strange thing to collect"},
		{ID: 23, Text: "The worst wifi network name"},
		{ID: 24, Text: "A rule every school should have"},
	}
}
