// Package tts keeps a registry of speech engines selectable by name,
// since deployments swap engines depending on the host's capabilities.
package tts

import (
	"fmt"

	"github.com/robcarv/news-colletector/internal/ports"
)

// Registry maps engine names to implementations.
type Registry struct {
	engines map[string]ports.SpeechEngine
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]ports.SpeechEngine{}}
}

// Register adds or replaces an engine.
func (r *Registry) Register(engine ports.SpeechEngine) {
	if r.engines == nil {
		r.engines = map[string]ports.SpeechEngine{}
	}
	r.engines[engine.Name()] = engine
}

// Resolve returns an engine by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.SpeechEngine, error) {
	if engine, ok := r.engines[name]; ok {
		return engine, nil
	}
	return nil, fmt.Errorf("speech engine %s is not registered", name)
}
