package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"friend-bucket/internal/config"
	"friend-bucket/internal/db"
)

type taskRecord struct {
	Pack  string
	Title string
}

func main() {
	filePath := flag.String("file", "tasks.csv", "path to tasks csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open(config.Load())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	records, err := readTasks(*filePath)
	if err != nil {
		log.Fatalf("failed to read tasks: %v", err)
	}

	packs := make(map[string]uint)
	inserted := 0
	for _, record := range records {
		var packID *uint
		if record.Pack != "" {
			id, ok := packs[record.Pack]
			if !ok {
				pack := db.Pack{Title: record.Pack}
				if err := conn.FirstOrCreate(&pack, db.Pack{Title: record.Pack}).Error; err != nil {
					log.Fatalf("failed to upsert pack: %v", err)
				}
				id = pack.ID
				packs[record.Pack] = id
			}
			packID = &id
		}
		entry := db.Task{Title: record.Title, PackID: packID}
		if err := conn.FirstOrCreate(&entry, db.Task{Title: record.Title}).Error; err != nil {
			log.Fatalf("failed to upsert task: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d tasks", inserted)
}

func readTasks(path string) ([]taskRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []taskRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		pack := strings.TrimSpace(row[0])
		title := strings.TrimSpace(row[1])
		if title == "" {
			continue
		}
		records = append(records, taskRecord{Pack: pack, Title: title})
	}
	return records, nil
}
