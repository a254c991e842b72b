package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const cacheVersion = "1.0"

// CacheManager caches parsed exports so repeated runs skip JSON parsing
type CacheManager struct {
	cacheDir string
}

// CacheMetadata stores metadata about the cached export
type CacheMetadata struct {
	SourcePath    string    `yaml:"source_path"`
	SourceModTime time.Time `yaml:"source_mod_time"`
	SourceSize    int64     `yaml:"source_size"`
	CacheVersion  string    `yaml:"cache_version"`
	CacheID       string    `yaml:"cache_id"`
	CreatedAt     time.Time `yaml:"created_at"`
}

// ChatIndexEntry represents a chat entry in the index
type ChatIndexEntry struct {
	Position     int       `yaml:"position"`
	Name         string    `yaml:"name"`
	Kind         ChatKind  `yaml:"kind"`
	MessageCount int       `yaml:"message_count"`
	LastActivity time.Time `yaml:"last_activity"`
}

// CacheIndex is the YAML index describing the cache contents
type CacheIndex struct {
	Target   Target           `yaml:"target"`
	Chats    []ChatIndexEntry `yaml:"chats"`
	Metadata CacheMetadata    `yaml:"metadata"`
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{
		cacheDir: cacheDir,
	}
}

// DefaultCacheDir returns ~/.chatprep-cache
func DefaultCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chatprep-cache"), nil
}

// EnsureCacheDir ensures the cache directory exists
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetCacheDir returns the cache directory path
func (cm *CacheManager) GetCacheDir() string {
	return cm.cacheDir
}

// GetIndexPath returns the path to the index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "index.yaml")
}

// GetDatabasePath returns the path to the chat database
func (cm *CacheManager) GetDatabasePath() string {
	return filepath.Join(cm.cacheDir, "chats.db")
}

// IsCacheValid checks if the cache was built from the current version of sourcePath
func (cm *CacheManager) IsCacheValid(sourcePath string) (bool, error) {
	if _, err := os.Stat(cm.GetIndexPath()); os.IsNotExist(err) {
		return false, nil
	}
	if _, err := os.Stat(cm.GetDatabasePath()); os.IsNotExist(err) {
		return false, nil
	}

	index, err := cm.LoadIndex()
	if err != nil {
		return false, nil
	}

	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		return false, err
	}
	if index.Metadata.SourcePath != absPath || index.Metadata.CacheVersion != cacheVersion {
		return false, nil
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return false, nil
	}
	if !index.Metadata.SourceModTime.Equal(info.ModTime()) || index.Metadata.SourceSize != info.Size() {
		return false, nil
	}

	return true, nil
}

// LoadIndex loads the cache index
func (cm *CacheManager) LoadIndex() (*CacheIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index CacheIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}

	return &index, nil
}

// SaveIndex saves the cache index
func (cm *CacheManager) SaveIndex(index *CacheIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	return os.WriteFile(cm.GetIndexPath(), data, 0644)
}

// SaveChats stores the loader output for sourcePath
func (cm *CacheManager) SaveChats(chats []Chat, target Target, sourcePath string) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		return err
	}

	// Drop the index first so a failed write never looks valid
	if err := os.Remove(cm.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := OpenDatabase(cm.GetDatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := WriteChats(db, chats); err != nil {
		return fmt.Errorf("failed to save chats: %w", err)
	}

	index := CacheIndex{
		Target: target,
		Chats:  make([]ChatIndexEntry, 0, len(chats)),
		Metadata: CacheMetadata{
			SourcePath:    absPath,
			SourceModTime: info.ModTime(),
			SourceSize:    info.Size(),
			CacheVersion:  cacheVersion,
			CacheID:       uuid.NewString(),
			CreatedAt:     time.Now(),
		},
	}
	for i := range chats {
		index.Chats = append(index.Chats, ChatIndexEntry{
			Position:     chats[i].Position,
			Name:         chats[i].Name,
			Kind:         chats[i].Kind,
			MessageCount: len(chats[i].Messages),
			LastActivity: chats[i].LastActivity(),
		})
	}

	return cm.SaveIndex(&index)
}

// LoadChats loads the cached chats and target
func (cm *CacheManager) LoadChats() ([]Chat, Target, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		return nil, Target{}, &ParseError{Source: "cache", Key: cm.GetIndexPath(), Err: err}
	}

	db, err := OpenDatabase(cm.GetDatabasePath())
	if err != nil {
		return nil, Target{}, &StorageError{Path: cm.GetDatabasePath(), Op: "open", Err: err}
	}
	defer db.Close()

	chats, err := ReadChats(db)
	if err != nil {
		return nil, Target{}, &ParseError{Source: "cache", Key: cm.GetDatabasePath(), Err: err}
	}

	return chats, index.Target, nil
}

// ClearCache clears the cache
func (cm *CacheManager) ClearCache() error {
	for _, path := range []string{cm.GetIndexPath(), cm.GetDatabasePath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// LoadChatsCached loads the export through the cache. A nil cm disables caching.
// The boolean result reports a cache hit.
func LoadChatsCached(cm *CacheManager, path string) ([]Chat, Target, bool, error) {
	if cm != nil {
		if valid, err := cm.IsCacheValid(path); err == nil && valid {
			chats, target, err := cm.LoadChats()
			if err == nil {
				LogInfo("Loaded %d chat(s) from cache", len(chats))
				return chats, target, true, nil
			}
			LogWarn("Failed to load cache: %v, parsing export...", err)
		}
	}

	chats, target, err := LoadChats(path)
	if err != nil {
		return nil, Target{}, false, err
	}

	if cm != nil {
		if err := cm.SaveChats(chats, target, path); err != nil {
			LogWarn("Failed to save cache: %v", err)
		}
	}
	return chats, target, false, nil
}

// Stats returns the row counts of the cached tables
func (cm *CacheManager) Stats() (map[string]int, error) {
	if _, err := os.Stat(cm.GetDatabasePath()); err != nil {
		return nil, &StorageError{Path: cm.GetDatabasePath(), Op: "open", Err: err}
	}
	db, err := OpenDatabase(cm.GetDatabasePath())
	if err != nil {
		return nil, &StorageError{Path: cm.GetDatabasePath(), Op: "open", Err: err}
	}
	defer db.Close()

	return TableCounts(db)
}
