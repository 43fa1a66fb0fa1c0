package layout

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"multiformat/pkg/config"
	"multiformat/pkg/design"
	"multiformat/pkg/geom"
)

// Engine runs responsive transformations with a fixed configuration.
type Engine struct {
	cfg    config.EngineConfig
	grid   geom.Grid
	logger *zap.Logger
	newID  func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transformation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.Named("layout")
		}
	}
}

// WithIDGenerator replaces the uuid generator used for new element ids and
// linked group ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine creates an engine. The configuration is expected to have passed
// config.EngineConfig.Validate.
func NewEngine(cfg config.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		grid:   geom.NewGrid(cfg.GridUnit),
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEngine creates an engine with the default configuration.
func NewDefaultEngine(opts ...Option) *Engine {
	return NewEngine(config.DefaultEngineConfig(), opts...)
}

// Config returns the engine configuration.
func (e *Engine) Config() config.EngineConfig { return e.cfg }

// Grid returns the snapping grid.
func (e *Engine) Grid() geom.Grid { return e.grid }

func validateSize(size design.CanvasSize) error {
	if !size.Valid() {
		return fmtErr(ErrInvalidCanvasSize, "%q is %gx%g", size.Name, size.Width, size.Height)
	}
	return nil
}
