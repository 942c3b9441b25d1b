package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"relaymap/pkg/analyze"
	"relaymap/pkg/builder"
	"relaymap/pkg/cache"
	"relaymap/pkg/errors"
	"relaymap/pkg/relay/layout"
)

// Algorithm names accepted by Options.Algorithm.
const (
	AlgorithmAuto    = "auto"
	AlgorithmLayered = "layered"
	AlgorithmForce   = "force"
)

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	ErrorText       string `json:"error_text"`
	BuildDir        string `json:"build_dir,omitempty"`
	ContextLines    int    `json:"context_lines,omitempty"`
	ReferenceOffset int    `json:"reference_offset,omitempty"`
	NoAnalyze       bool   `json:"no_analyze,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"`

	// Layout options
	Algorithm  string  `json:"algorithm,omitempty"`
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`
	GapX       float64 `json:"gap_x,omitempty"`
	GapY       float64 `json:"gap_y,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Repulsion  float64 `json:"repulsion,omitempty"`
	Attraction float64 `json:"attraction,omitempty"`
	Damping    float64 `json:"damping,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger             `json:"-"`
	Source builder.ReferenceSource `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.ErrorText == "" {
		return errors.New(errors.ErrCodeInvalidInput, "error text is required")
	}

	if o.Algorithm == "" {
		o.Algorithm = AlgorithmAuto
	}
	if err := errors.ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}

	if o.ContextLines == 0 {
		o.ContextLines = analyze.DefaultContextLines
	}
	if o.ReferenceOffset == 0 {
		o.ReferenceOffset = builder.DefaultReferenceOffset
	}

	def := layout.DefaultConfig()
	if o.NodeWidth == 0 {
		o.NodeWidth = def.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = def.NodeHeight
	}
	if o.GapX == 0 {
		o.GapX = def.GapX
	}
	if o.GapY == 0 {
		o.GapY = def.GapY
	}
	if o.Iterations == 0 {
		o.Iterations = def.Iterations
	}
	if o.Repulsion == 0 {
		o.Repulsion = def.Repulsion
	}
	if o.Attraction == 0 {
		o.Attraction = def.Attraction
	}
	if o.Damping == 0 {
		o.Damping = def.Damping
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutConfig converts the layout options into a layout.Config.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
		GapX:       o.GapX,
		GapY:       o.GapY,
		Iterations: o.Iterations,
		Repulsion:  o.Repulsion,
		Attraction: o.Attraction,
		Damping:    o.Damping,
	}
}

// GraphKeyOpts returns cache key options for graph construction.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		BuildDir: o.BuildDir,
		Context:  o.ContextLines,
		Offset:   o.ReferenceOffset,
		Analyze:  !o.NoAnalyze,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:  o.Algorithm,
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
		GapX:       o.GapX,
		GapY:       o.GapY,
		Iterations: o.Iterations,
		Repulsion:  o.Repulsion,
		Attraction: o.Attraction,
		Damping:    o.Damping,
	}
}

// referenceSource picks the source for symbol discovery. An explicit Source
// wins; otherwise a tree-sitter scanner is created unless analysis is
// disabled.
func (o *Options) referenceSource() builder.ReferenceSource {
	if o.Source != nil {
		return o.Source
	}
	if o.NoAnalyze {
		return nil
	}
	return analyze.NewScanner(o.BuildDir, analyze.WithContextLines(o.ContextLines))
}
