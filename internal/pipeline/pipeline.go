// Package pipeline implements the temporal-splitting and day-summary engine:
// survey join, multi-day interval splitting, interaction labeling, person-day
// aggregation, leg merging, valid-day classification and the overview /
// subtype summaries. Stages run sequentially; each stage treats its input as
// read-only and returns a new table.
package pipeline

import (
	"time"

	"github.com/umn-mobility/daynamica-go/internal/config"
)

// Pipeline carries the configuration shared by all stages.
type Pipeline struct {
	cfg *config.Config
	loc *time.Location
}

// New resolves the configured timezone and returns a ready pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, loc: loc}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }
