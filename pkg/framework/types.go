package framework

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Handler is an interrupt service routine run by Loop.
type Handler interface {
	Service(context.Context) error
}

// ServiceFunc is the func form of Handler.
type ServiceFunc func(context.Context) error

// Service implements Handler.
func (f ServiceFunc) Service(ctx context.Context) error {
	return f(ctx)
}

// PriorityLevels is the total levels of interrupt priorities.
// Level 0 is the most urgent one.
const PriorityLevels int = 16

// Predefined priority levels.
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1
)

// ValidPriority checks a priority level is in range.
func ValidPriority(level int) bool {
	return level >= PrLvTop && level < PriorityLevels
}
