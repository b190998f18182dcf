package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown preset ID
var ErrNotFound = errors.New("preset not found")

// Preset is a named set of form values that can be loaded into the form
type Preset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	RDSpend        string `json:"rd_spend"`
	Administration string `json:"administration"`
	MarketingSpend string `json:"marketing_spend"`
	State          string `json:"state"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// Store handles preset persistence as one JSON file per preset
type Store struct {
	presetsDir string
}

// NewStore creates a preset store under dataDir
func NewStore(dataDir string) (*Store, error) {
	presetsDir := filepath.Join(dataDir, "presets")
	if err := os.MkdirAll(presetsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create presets directory: %w", err)
	}
	return &Store{presetsDir: presetsDir}, nil
}

// List returns all presets sorted by name
func (s *Store) List() ([]*Preset, error) {
	entries, err := os.ReadDir(s.presetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets directory: %w", err)
	}

	presets := []*Preset{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p, err := s.load(entry.Name())
		if err != nil {
			continue // Skip unreadable presets
		}
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool {
		return strings.ToLower(presets[i].Name) < strings.ToLower(presets[j].Name)
	})
	return presets, nil
}

// Get retrieves a preset by ID
func (s *Store) Get(id string) (*Preset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	p, err := s.load(id + ".json")
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return p, err
}

// FindByName returns the first preset whose name matches, ignoring case
func (s *Store) FindByName(name string) (*Preset, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns an ID and timestamps and saves the preset
func (s *Store) Create(p *Preset) (*Preset, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("preset name is required")
	}

	p.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a preset
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.presetsDir, id+".json"))
}

func (s *Store) load(filename string) (*Preset, error) {
	data, err := os.ReadFile(filepath.Join(s.presetsDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}
	return &p, nil
}

func (s *Store) save(p *Preset) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.presetsDir, p.ID+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	return nil
}
