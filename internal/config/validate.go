package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func mergeSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("merge.schema.json", mergeSchemaJSON)
	})
	return schema, schemaErr
}

// validateSchema checks a YAML document against the embedded JSON schema.
// An empty document is valid and means "use the defaults".
func validateSchema(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: unsupported YAML value: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("config: unsupported YAML value: %w", err)
	}

	sch, err := mergeSchema()
	if err != nil {
		return fmt.Errorf("config: bad embedded schema: %w", err)
	}
	if err := sch.Validate(normalized); err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	return nil
}

// Validate checks rules the schema cannot express.
func (c MergeConfig) Validate() error {
	var errs []error

	if len(c.Ranks) < 2 {
		errs = append(errs, errors.New("ranks: need at least two ranks"))
	}
	seen := make(map[string]bool, len(c.Ranks))
	for i, r := range c.Ranks {
		if r.Label == "" {
			errs = append(errs, fmt.Errorf("ranks[%d]: empty label", i))
		}
		if seen[r.Label] {
			errs = append(errs, fmt.Errorf("ranks[%d]: duplicate label %q", i, r.Label))
		}
		seen[r.Label] = true
		if r.Radius <= 0 {
			errs = append(errs, fmt.Errorf("ranks[%d]: radius must be positive", i))
		}
		if i > 0 && r.Radius <= c.Ranks[i-1].Radius {
			errs = append(errs, fmt.Errorf("ranks[%d]: radius %.1f must exceed previous rank", i, r.Radius))
		}
		if r.Color != "" {
			if _, ok := core.ParseColor(r.Color); !ok {
				errs = append(errs, fmt.Errorf("ranks[%d]: unknown color %q", i, r.Color))
			}
		}
	}

	if c.Spawn.Pool < 1 || c.Spawn.Pool > len(c.Ranks) {
		errs = append(errs, fmt.Errorf("spawn.pool: %d outside 1..%d", c.Spawn.Pool, len(c.Ranks)))
	}

	b := c.Board
	if b.InnerRight()-b.InnerLeft() <= 0 {
		errs = append(errs, errors.New("board: walls leave no room"))
	} else if len(c.Ranks) > 0 {
		largest := c.Ranks[len(c.Ranks)-1].Radius
		if 2*largest > b.InnerRight()-b.InnerLeft() {
			errs = append(errs, fmt.Errorf("board: inner width %.0f cannot hold %q", b.InnerRight()-b.InnerLeft(), c.Ranks[len(c.Ranks)-1].Label))
		}
	}
	if b.TopLineY >= b.Floor() {
		errs = append(errs, errors.New("board: top line must sit above the floor"))
	}
	if c.Spawn.X < b.InnerLeft() || c.Spawn.X > b.InnerRight() {
		errs = append(errs, fmt.Errorf("spawn.x: %.0f outside the container", c.Spawn.X))
	}

	if c.Controls.MoveIntervalMS <= 0 || c.Controls.CooldownMS <= 0 || c.Controls.HoldTicks <= 0 {
		errs = append(errs, errors.New("controls: intervals must be positive"))
	}
	if c.Physics.Gravity <= 0 || c.Physics.Iterations <= 0 {
		errs = append(errs, errors.New("physics: gravity and iterations must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
