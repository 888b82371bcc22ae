package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	StoreBackend     string `env:"STORE_BACKEND,default=badger"`
	BadgerFilepath   string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath    string `env:"BLUGE_FILEPATH,required=true"`
	FirestoreProject string `env:"FIRESTORE_PROJECT"`

	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,required=true"`

	JWTSecret     string        `env:"JWT_SECRET,required=true"`
	TokenDuration time.Duration `env:"TOKEN_DURATION,default=24h"`

	SnapshotBufferSize int           `env:"SNAPSHOT_BUFFER_SIZE,default=8"`
	SearchPageSize     int           `env:"SEARCH_PAGE_SIZE,default=10"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	ModerationCharReplacement string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	BannedWords               string `env:"BANNED_WORDS"`
	BannedWordsEnglish        string `env:"BANNED_WORDS_ENG"`
	BannedWordsFrench         string `env:"BANNED_WORDS_FRA"`
}

const (
	BackendBadger    = "badger"
	BackendFirestore = "firestore"
)

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendBadger:
	case BackendFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("FIRESTORE_PROJECT is required when STORE_BACKEND=firestore")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if _, err := CharacterRune(c.ModerationCharReplacement); err != nil {
		return err
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitWords parses a comma-separated word list from the environment.
func SplitWords(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}
