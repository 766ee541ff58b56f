package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/medfill/internal/impute"
	"github.com/KaramelBytes/medfill/internal/utils"
	"github.com/google/uuid"
)

// Run is the JSON manifest describing one fill.
type Run struct {
	ID         string                       `json:"id"`
	Input      string                       `json:"input"`
	Output     string                       `json:"output"`
	Rows       int                          `json:"rows"`
	Groups     int                          `json:"groups"`
	Filled     map[string]int               `json:"filled"`
	Unfilled   map[string]int               `json:"unfilled"`
	Modes      map[string]map[string]string `json:"modes"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
}

// New starts a manifest for a run reading input and writing output.
func New(input, output string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Input:     input,
		Output:    output,
		Filled:    map[string]int{},
		Unfilled:  map[string]int{},
		Modes:     map[string]map[string]string{},
		StartedAt: time.Now(),
	}
}

// Record copies counts and non-empty modes from an imputation result.
func (r *Run) Record(res *impute.Result) {
	if res == nil {
		return
	}
	r.Rows = res.Stats.Rows
	r.Groups = res.Frequencies.Len()
	for c, n := range res.Stats.Filled {
		r.Filled[c] = n
	}
	for c, n := range res.Stats.Unfilled {
		r.Unfilled[c] = n
	}
	for _, key := range res.Frequencies.Keys() {
		m := map[string]string{}
		for _, c := range impute.TargetColumns {
			if v := res.Modes.Lookup(key, c); v != "" {
				m[c] = v
			}
		}
		if len(m) > 0 {
			r.Modes[key] = m
		}
	}
	r.FinishedAt = time.Now()
}

// Save writes the manifest to path using atomic write.
func (r *Run) Save(path string) error {
	if path == "" {
		return errors.New("report path not set")
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// Load reads a manifest written by Save.
func Load(path string) (*Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run report not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run report: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run report: %w", err)
	}
	return &r, nil
}
