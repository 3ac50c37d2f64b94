package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// Registry manages service discovery and execution
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[def.ID] = provider
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[serviceID]
	return p, ok
}

// List returns all registered services, sorted by ID
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var services []types.Service
	for _, provider := range r.providers {
		def := provider.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Discover finds relevant services for a given intent
func (r *Registry) Discover(intent string, limit int) []types.Service {
	type scoredService struct {
		service types.Service
		score   float64
	}

	intentLower := strings.ToLower(intent)
	var results []scoredService

	r.mu.RLock()
	for _, provider := range r.providers {
		def := provider.Definition()
		score := relevance(intentLower, def)
		if score > 0 {
			results = append(results, scoredService{service: def, score: score})
		}
	}
	r.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	output := make([]types.Service, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].service)
	}
	return output
}

// Execute routes a tool invocation to its provider. The service is the
// segment of the tool ID before the first dot.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 {
		res, _ := types.Failure(fmt.Sprintf("invalid tool ID format: %s", toolID))
		return res, fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	serviceID := parts[0]
	provider, ok := r.Get(serviceID)
	if !ok {
		res, _ := types.Failure(fmt.Sprintf("service not found: %s", serviceID))
		return res, fmt.Errorf("service not found: %s", serviceID)
	}

	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totalTools int
	categories := make(map[string]int)
	for _, provider := range r.providers {
		def := provider.Definition()
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
	}

	return map[string]interface{}{
		"total_services": len(r.providers),
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func relevance(intent string, service types.Service) float64 {
	score := 0.0

	if strings.Contains(intent, service.ID) || strings.Contains(intent, strings.ToLower(service.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(service.Description)) {
		if strings.Contains(intent, word) {
			score += 5.0
		}
	}

	for _, cap := range service.Capabilities {
		capClean := strings.ReplaceAll(strings.ToLower(cap), "_", " ")
		if strings.Contains(intent, capClean) {
			score += 3.0
		}
	}

	if strings.Contains(intent, string(service.Category)) {
		score += 2.0
	}

	return score
}
