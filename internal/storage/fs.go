package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/daybook/internal/apperr"
)

const (
	diaryDirName = "Diary"
	noteDirName  = "QuickNote"

	diaryFileLayout = "2006-01-02"
)

// FS implements Provider backed by the local file system. Every user
// owns a subtree of the data root:
//
//	<root>/<user>/Diary/<yyyy>/<MM>/<yyyy-MM-dd>.md
//	<root>/<user>/QuickNote/<yyyyMMdd_Title_#tag.md>
//	<root>/<user>/config.json
type FS struct {
	root string // absolute path to the data root
}

// NewFS creates an FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// userPath validates that user is a plain directory name and returns
// the user's subtree root. Separators and traversal are rejected so a
// crafted username cannot escape the data root.
func (f *FS) userPath(user string) (string, error) {
	if user == "" {
		return "", fmt.Errorf("storage: user is required")
	}
	if user != filepath.Base(filepath.Clean(user)) || strings.ContainsAny(user, `/\:`) || user == ".." || user == "." {
		return "", fmt.Errorf("storage: invalid user name: %q", user)
	}
	return filepath.Join(f.root, user), nil
}

// safeFilename validates a plain file name (no separators, no traversal).
func safeFilename(name string) error {
	if name == "" {
		return fmt.Errorf("storage: filename is required")
	}
	if name != filepath.Base(filepath.Clean(name)) || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("storage: invalid filename: %q", name)
	}
	return nil
}

func (f *FS) diaryPath(user string, date time.Time) (string, error) {
	base, err := f.userPath(user)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, diaryDirName,
		fmt.Sprintf("%04d", date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		date.Format(diaryFileLayout)+".md"), nil
}

// SaveDiary atomically writes the diary text: tmp file, fsync, rename.
func (f *FS) SaveDiary(user string, date time.Time, text string) error {
	path, err := f.diaryPath(user, date)
	if err != nil {
		return err
	}
	return atomicWrite(path, []byte(text))
}

// LoadDiary returns the stored diary text; an absent file is an empty
// diary, not an error.
func (f *FS) LoadDiary(user string, date time.Time) (string, error) {
	path, err := f.diaryPath(user, date)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("storage: read diary %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

// DiaryDatesInMonth enumerates the month directory and returns the
// dates whose diary file exists. Files without a parseable date name
// are skipped.
func (f *FS) DiaryDatesInMonth(user string, year int, month time.Month) ([]time.Time, error) {
	base, err := f.userPath(user)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, diaryDirName, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month)))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list diary month: %w", err)
	}

	var dates []time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		d, perr := time.Parse(diaryFileLayout, strings.TrimSuffix(e.Name(), ".md"))
		if perr != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// NoteDir returns the user's quick-note directory, creating it if needed.
func (f *FS) NoteDir(user string) (string, error) {
	base, err := f.userPath(user)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, noteDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create note dir: %w", err)
	}
	return dir, nil
}

func (f *FS) notePath(user, filename string) (string, error) {
	if err := safeFilename(filename); err != nil {
		return "", err
	}
	dir, err := f.NoteDir(user)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// SaveNote writes a quick-note. A brand-new note with a title gets a
// heading and a creation stamp prepended; subsequent saves write the
// content verbatim.
func (f *FS) SaveNote(user, filename, content, title string) (string, error) {
	path, err := f.notePath(user, filename)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) && title != "" {
		content = fmt.Sprintf("# %s\n\nCreated: %s\n\n%s",
			title, time.Now().Format("2006-01-02 15:04:05"), content)
	}
	if err := atomicWrite(path, []byte(content)); err != nil {
		return "", err
	}
	return path, nil
}

// LoadNote returns the raw text of a quick-note.
func (f *FS) LoadNote(user, filename string) (string, error) {
	path, err := f.notePath(user, filename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("storage: note %s: %w", filename, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("storage: read note %s: %w", filename, err)
	}
	return string(data), nil
}

// ListNotes returns the sorted filenames of every stored quick-note.
func (f *FS) ListNotes(user string) ([]string, error) {
	dir, err := f.NoteDir(user)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: list notes: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// DeleteNote removes a quick-note.
func (f *FS) DeleteNote(user, filename string) error {
	path, err := f.notePath(user, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: note %s: %w", filename, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: delete note %s: %w", filename, err)
	}
	return nil
}

// RenameNote renames a quick-note within the user's note directory.
func (f *FS) RenameNote(user, oldFilename, newFilename string) error {
	oldPath, err := f.notePath(user, oldFilename)
	if err != nil {
		return err
	}
	newPath, err := f.notePath(user, newFilename)
	if err != nil {
		return err
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: note %s: %w", oldFilename, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: rename note %s: %w", oldFilename, err)
	}
	return nil
}

// atomicWrite writes content via a temp file in the target directory,
// fsyncs it, and renames it into place.
func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".daybook-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
