package db

import "gorm.io/gorm"

// UnusedTaskCount reports how many catalog tasks have never been assigned
// in the room owning usedIDs.
func UnusedTaskCount(conn *gorm.DB, usedIDs []uint) (int64, error) {
	query := conn.Model(&Task{})
	if len(usedIDs) > 0 {
		query = query.Where("id NOT IN ?", usedIDs)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DrawTasks picks limit random tasks excluding usedIDs.
func DrawTasks(conn *gorm.DB, limit int, usedIDs []uint) ([]Task, error) {
	query := conn.Model(&Task{})
	if len(usedIDs) > 0 {
		query = query.Where("id NOT IN ?", usedIDs)
	}
	var records []Task
	if err := query.Order("random()").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

type Stats struct {
	Users       int64
	Rooms       int64
	Tasks       int64
	RoomsInPlay int64
}

func LoadStats(conn *gorm.DB) (Stats, error) {
	var stats Stats
	if err := conn.Model(&User{}).Count(&stats.Users).Error; err != nil {
		return stats, err
	}
	if err := conn.Model(&Room{}).Count(&stats.Rooms).Error; err != nil {
		return stats, err
	}
	if err := conn.Model(&Task{}).Count(&stats.Tasks).Error; err != nil {
		return stats, err
	}
	if err := conn.Model(&Room{}).Where("phase IN ?", []string{"answering", "voting", "scoring"}).Count(&stats.RoomsInPlay).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
