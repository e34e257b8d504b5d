package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Session records statistics gathered during one demo session.
type Session struct {
	ID          string         `json:"id"`
	Started     time.Time      `json:"started"`
	Ticks       uint64         `json:"ticks"`
	Activations map[string]int `json:"activations"` // ability tag -> starts
	Ends        map[string]int `json:"ends"`        // end reason -> count
	FinalMana   float32        `json:"final_mana"`
	Grenades    uint16         `json:"grenades_left"`
}

// saveSession appends the finished session as a single JSON line to
// sessions.jsonl. Errors are returned for the caller to log; a disk problem
// never crashes the demo.
func saveSession(s Session) error {
	dir, err := sessionLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "sessions.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// sessionLogDir returns the directory where session logs are stored.
// Follows the XDG Base Directory layout: $XDG_DATA_HOME/gameplay-abilities,
// defaulting to ~/.local/share/gameplay-abilities.
func sessionLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gameplay-abilities"), nil
}
