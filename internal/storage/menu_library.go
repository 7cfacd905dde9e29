// Package storage manages menu image files on disk: the curated
// per-meal image folders served to chat users, and uploaded menu
// photos attached to a specific date's menu.
package storage

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNoFolder means the meal has no image folder on disk.
	ErrNoFolder = errors.New("menu image folder not found")
	// ErrNoImages means the folder exists but holds no images.
	ErrNoImages = errors.New("no menu images available")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MenuLibrary resolves menu keywords and meal types to image URLs.
// Images live under baseDir in one sub-folder per meal type; aliases
// map a chat keyword to a concrete filename inside those folders.
type MenuLibrary struct {
	baseDir string
	baseURL string
	aliases map[string]string
	logger  *zap.Logger
}

// NewMenuLibrary creates a library rooted at baseDir. baseURL is the
// public prefix under which baseDir is served (no trailing slash).
func NewMenuLibrary(baseDir, baseURL string, aliases map[string]string, logger *zap.Logger) *MenuLibrary {
	normalized := make(map[string]string, len(aliases))
	for k, v := range aliases {
		normalized[strings.ToLower(k)] = v
	}
	return &MenuLibrary{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		aliases: normalized,
		logger:  logger,
	}
}

// RandomImage picks one image from the meal's folder.
func (l *MenuLibrary) RandomImage(mealType string) (string, error) {
	files, err := l.listImages(mealType)
	if err != nil {
		return "", err
	}
	pick := files[rand.Intn(len(files))]
	return l.imageURL(mealType, pick), nil
}

// FindByKeyword resolves a menu keyword to an image URL. Exact alias
// matches win; otherwise every meal folder is scanned for a filename
// containing the keyword.
func (l *MenuLibrary) FindByKeyword(keyword string) (string, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return "", false
	}

	if filename, ok := l.aliases[keyword]; ok {
		if meal, found := l.locate(filename); found {
			return l.imageURL(meal, filename), true
		}
		l.logger.Warn("Menu alias points at missing file",
			zap.String("keyword", keyword),
			zap.String("filename", filename))
	}

	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := l.listImages(entry.Name())
		if err != nil {
			continue
		}
		for _, f := range files {
			name := strings.ToLower(strings.TrimSuffix(f, filepath.Ext(f)))
			if strings.Contains(name, keyword) {
				return l.imageURL(entry.Name(), f), true
			}
		}
	}
	return "", false
}

// Aliases returns up to n known keywords, sorted, for help text.
func (l *MenuLibrary) Aliases(n int) []string {
	keys := make([]string, 0, len(l.aliases))
	for k := range l.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// ImageURL builds the public URL for a stored menu photo filename.
func (l *MenuLibrary) ImageURL(mealType, filename string) string {
	return l.imageURL(mealType, filename)
}

func (l *MenuLibrary) listImages(mealType string) ([]string, error) {
	dir := filepath.Join(l.baseDir, mealType)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoFolder
		}
		return nil, fmt.Errorf("failed to read menu folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	sort.Strings(files)
	return files, nil
}

func (l *MenuLibrary) locate(filename string) (string, bool) {
	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.baseDir, entry.Name(), filename)); err == nil {
			return entry.Name(), true
		}
	}
	return "", false
}

// imageURL percent-escapes path segments; LINE rejects image URLs with
// raw non-ASCII characters and requires https.
func (l *MenuLibrary) imageURL(mealType, filename string) string {
	return l.baseURL + "/" + url.PathEscape(mealType) + "/" + url.PathEscape(filename)
}
