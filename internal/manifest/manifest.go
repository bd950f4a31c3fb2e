// Package manifest records what a render run produced.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest name inside a run's output folder.
const FileName = "manifest.yaml"

// Clip is one rendered question.
type Clip struct {
	Number   int     `yaml:"number"`
	Question string  `yaml:"question"`
	Answer   string  `yaml:"answer,omitempty"`
	File     string  `yaml:"file,omitempty"`
	Start    float64 `yaml:"start"`
	Duration float64 `yaml:"duration"`
	Error    string  `yaml:"error,omitempty"`
	URL      string  `yaml:"url,omitempty"`
}

// Manifest describes a render run.
type Manifest struct {
	RunID       string    `yaml:"run_id"`
	CreatedAt   time.Time `yaml:"created_at"`
	Build       string    `yaml:"build,omitempty"`
	Deck        string    `yaml:"deck"`
	Orientation string    `yaml:"orientation"`
	Width       int       `yaml:"width"`
	Height      int       `yaml:"height"`
	FPS         int       `yaml:"fps"`
	Encoder     string    `yaml:"encoder"`
	Final       string    `yaml:"final,omitempty"`
	FinalURL    string    `yaml:"final_url,omitempty"`
	Duration    float64   `yaml:"duration"`
	Clips       []Clip    `yaml:"clips"`
}

// New starts a manifest with a fresh run ID.
func New(deck string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Deck:      deck,
	}
}

// Rendered returns the clips that have a file.
func (m *Manifest) Rendered() []Clip {
	var out []Clip
	for _, c := range m.Clips {
		if c.Error == "" {
			out = append(out, c)
		}
	}
	return out
}

// Failed returns the number of clips that could not be rendered.
func (m *Manifest) Failed() int {
	return len(m.Clips) - len(m.Rendered())
}

// Write writes a manifest to a YAML file
func Write(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a manifest from a YAML file
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// RunDir creates a timestamped output folder name for a deck
func RunDir(root, deck string, now time.Time) string {
	return filepath.Join(root, fmt.Sprintf("%s_%s", deck, now.Format("2006-01-02_15-04-05")))
}
