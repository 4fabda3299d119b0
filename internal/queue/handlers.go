package queue

import (
	"fmt"
	"sort"

	"github.com/hibiken/asynq"
)

// HandlersRegistry maps task types to their handlers for the worker's asynq server.
type HandlersRegistry struct {
	mux   *asynq.ServeMux
	types map[string]bool
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{
		mux:   asynq.NewServeMux(),
		types: make(map[string]bool),
	}
}

// Register binds handler to taskType. Each task type may be registered once.
func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) error {
	if r.types[taskType] {
		return fmt.Errorf("task type %q already registered", taskType)
	}
	r.types[taskType] = true
	r.mux.Handle(taskType, handler)
	return nil
}

// Types lists the registered task types in sorted order.
func (r *HandlersRegistry) Types() []string {
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
