package runner

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the tasks of one server instance. It deliberately
// exposes only create and read operations; all task mutation happens
// through the task's own methods.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Create registers a new pending task for the given instructions.
func (r *Registry) Create(instructions string) *Task {
	task := NewTask(uuid.New().String(), instructions)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return task
}

// Get returns the task with the given ID, or nil when unknown.
func (r *Registry) Get(id string) *Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tasks[id]
}
