package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const prefsFileName = "config.json"

// Prefs holds per-user preferences stored as config.json in the user's
// subtree. Tag lists seed the tag pickers of the note and to-do views.
type Prefs struct {
	NoteTags    []string `json:"note_tags"`
	TodoTags    []string `json:"todo_tags"`
	DefaultView string   `json:"default_view"`
	LastAccess  string   `json:"last_access"`
	Theme       string   `json:"theme"`

	// Tags is the pre-split legacy field; when present it is migrated
	// into NoteTags and TodoTags on load.
	Tags []string `json:"tags,omitempty"`
}

func defaultPrefs() *Prefs {
	tags := []string{"work", "study", "life", "important"}
	return &Prefs{
		NoteTags:    append([]string(nil), tags...),
		TodoTags:    append([]string(nil), tags...),
		DefaultView: "Diary",
		Theme:       "system",
	}
}

func (f *FS) prefsPath(user string) (string, error) {
	base, err := f.userPath(user)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, prefsFileName), nil
}

// LoadPrefs reads the user's preferences, writing defaults on first
// access and migrating the legacy single tag list when found. The
// last-access stamp is refreshed on every load.
func (f *FS) LoadPrefs(user string) (*Prefs, error) {
	path, err := f.prefsPath(user)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read prefs: %w", err)
		}
		p := defaultPrefs()
		p.LastAccess = time.Now().Format("2006-01-02 15:04")
		if err := f.SavePrefs(user, p); err != nil {
			return nil, err
		}
		return p, nil
	}

	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("storage: parse prefs: %w", err)
	}

	if len(p.Tags) > 0 {
		if p.NoteTags == nil {
			p.NoteTags = append([]string(nil), p.Tags...)
		}
		if p.TodoTags == nil {
			p.TodoTags = append([]string(nil), p.Tags...)
		}
		p.Tags = nil
	}

	p.LastAccess = time.Now().Format("2006-01-02 15:04")
	if err := f.SavePrefs(user, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePrefs overwrites the user's preferences.
func (f *FS) SavePrefs(user string, p *Prefs) error {
	path, err := f.prefsPath(user)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode prefs: %w", err)
	}
	return atomicWrite(path, data)
}
