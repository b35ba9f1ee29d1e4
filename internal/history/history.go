// Package history persists the shell's command history in a SQLite database
// and serves it back to the completion engine and the prompt.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index;index:idx_dir_created,priority:2"`
	UpdatedAt time.Time `gorm:"index"`

	Command   string `gorm:"index"`
	Directory string `gorm:"index:idx_dir_created,priority:1"`
	SessionID string `gorm:"index"`
	ExitCode  sql.NullInt32
}

func NewStore(dbFilePath string) (*Store, error) {
	// PRAGMA settings tuned for a shared home directory, possibly on NFS:
	// busy_timeout(5000) rides out network latency, synchronous(1) balances
	// durability and speed, temp_store(2) keeps temp files in memory.
	connectionString := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(1)&_pragma=cache_size(-20000)&_pragma=temp_store(2)", dbFilePath)

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite serializes writes anyway, so extra connections only add overhead.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Store{db: db}, nil
}

// Close closes the database connection. Needed in tests so temporary database
// files can be cleaned up.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Start records a command as it begins executing and returns the entry so the
// caller can finish it with an exit code.
func (s *Store) Start(command, directory, sessionID string) (*Entry, error) {
	entry := Entry{
		Command:   command,
		Directory: directory,
		SessionID: sessionID,
	}

	result := s.db.Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// Finish stamps an entry with the command's exit code.
func (s *Store) Finish(entry *Entry, exitCode int) (*Entry, error) {
	entry.ExitCode = sql.NullInt32{Int32: int32(exitCode), Valid: true}

	result := s.db.Save(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// Recent returns up to limit command lines, most recent first, optionally
// scoped to one directory. This is the view the completion engine's history
// source consumes.
func (s *Store) Recent(directory string, limit int) ([]string, error) {
	var entries []Entry
	db := s.db
	if directory != "" {
		db = db.Where("directory = ?", directory)
	}
	result := db.Order("created_at desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	commands := make([]string, len(entries))
	for i, e := range entries {
		commands[i] = e.Command
	}
	return commands, nil
}

// RecentByPrefix returns up to limit command lines starting with prefix, most
// recent first.
func (s *Store) RecentByPrefix(prefix string, limit int) ([]string, error) {
	var entries []Entry
	result := s.db.Where("command LIKE ?", prefix+"%").
		Order("created_at desc").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	commands := make([]string, len(entries))
	for i, e := range entries {
		commands[i] = e.Command
	}
	return commands, nil
}

// Delete removes one entry by id.
func (s *Store) Delete(id uint) error {
	result := s.db.Delete(&Entry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no history entry found with id %d", id)
	}

	return nil
}

// Reset wipes the history table.
func (s *Store) Reset() error {
	result := s.db.Exec("DELETE FROM entries")
	if result.Error != nil {
		return result.Error
	}

	return nil
}
