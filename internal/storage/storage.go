// Package storage keeps lightweight per-guild history on disk: which
// commands were issued and which tracks were played. Losing this file
// costs nothing but history.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20
	trackHistoryLimit   int = 12
)

type Storage struct {
	ds *datastore.DataStore
}

type CommandRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

type TrackRecord struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	PlayCount  int       `json:"play_count"`
	LastPlayed time.Time `json:"last_played"`
}

type Record struct {
	CommandHistory []CommandRecord `json:"cmd_history"`
	TrackHistory   []TrackRecord   `json:"track_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord fetches the guild's record, creating an empty
// one on first access. Stored values come back as generic maps, so they
// round-trip through JSON into the typed record.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{
			CommandHistory: []CommandRecord{},
			TrackHistory:   []TrackRecord{},
		}
		s.ds.Add(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	err = json.Unmarshal(jsonData, &record)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	return &record, nil
}

// AppendCommand records one issued command, keeping the newest entries.
func (s *Storage) AppendCommand(guildID string, cmd CommandRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandHistory = append(record.CommandHistory, cmd)
	if len(record.CommandHistory) > commandHistoryLimit {
		record.CommandHistory = record.CommandHistory[len(record.CommandHistory)-commandHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandHistory, nil
}

// RecordTrackPlay notes that a track started playing. Repeat plays of
// the same URL bump the play count and move the entry to the end.
func (s *Storage) RecordTrackPlay(guildID, title, url string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	entry := TrackRecord{Title: title, URL: url, PlayCount: 1, LastPlayed: time.Now()}
	for i, tr := range record.TrackHistory {
		if tr.URL == url {
			entry.PlayCount = tr.PlayCount + 1
			record.TrackHistory = append(record.TrackHistory[:i], record.TrackHistory[i+1:]...)
			break
		}
	}

	record.TrackHistory = append(record.TrackHistory, entry)
	if len(record.TrackHistory) > trackHistoryLimit {
		record.TrackHistory = record.TrackHistory[len(record.TrackHistory)-trackHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) FetchTrackHistory(guildID string) ([]TrackRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TrackHistory, nil
}
