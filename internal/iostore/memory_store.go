package iostore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
)

// MemoryStore keeps projects in process memory. Everything is lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string][]byte
}

var _ contract.ProjectStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string][]byte)}
}

// ListProjects returns every stored project, most recently saved first.
func (ms *MemoryStore) ListProjects(_ context.Context) ([]schema.Project, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	projects := make([]schema.Project, 0, len(ms.projects))
	for id, raw := range ms.projects {
		p, err := decodeProject(id, raw)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].SavedAt.Equal(projects[j].SavedAt) {
			return projects[i].SavedAt.After(projects[j].SavedAt)
		}
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

// GetProject returns the project with the given ID or contract.ErrProjectNotFound.
func (ms *MemoryStore) GetProject(_ context.Context, id string) (schema.Project, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	raw, ok := ms.projects[id]
	if !ok {
		return schema.Project{}, fmt.Errorf("%w: %s", contract.ErrProjectNotFound, id)
	}
	return decodeProject(id, raw)
}

// SaveProject inserts or replaces a project. A deep copy is kept.
func (ms *MemoryStore) SaveProject(_ context.Context, p schema.Project) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project %s: %w", p.ID, err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.projects[p.ID] = raw
	return nil
}

// DeleteProject removes a project or returns contract.ErrProjectNotFound.
func (ms *MemoryStore) DeleteProject(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.projects[id]; !ok {
		return fmt.Errorf("%w: %s", contract.ErrProjectNotFound, id)
	}
	delete(ms.projects, id)
	return nil
}

// GetStatus returns status information about the in-memory store.
func (ms *MemoryStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	projects, err := ms.ListProjects(ctx)
	if err != nil {
		return schema.StoreStatus{}, err
	}

	status := schema.StoreStatus{
		Backend:       string(schema.NoneBackend),
		Connected:     true,
		TotalProjects: len(projects),
		TableSizes:    make(map[string]int64),
	}

	var risks, deadlines, changes int64
	for _, p := range projects {
		risks += int64(len(p.Risks))
		deadlines += int64(len(p.Deadlines))
		changes += int64(len(p.ChangeRequests))
	}
	status.TotalRisks = int(risks)
	status.TableSizes[projectsTable] = int64(len(projects))
	status.TableSizes[risksTable] = risks
	status.TableSizes[deadlinesTable] = deadlines
	status.TableSizes[changeRequestsTable] = changes

	if len(projects) > 0 {
		status.LastSavedAt = projects[0].SavedAt
		status.OldestSavedAt = projects[len(projects)-1].SavedAt
	}

	ms.mu.RLock()
	for _, raw := range ms.projects {
		status.SizeBytes += int64(len(raw))
	}
	ms.mu.RUnlock()

	return status, nil
}

// Close is a no-op for the in-memory store.
func (ms *MemoryStore) Close() error {
	return nil
}

func decodeProject(id string, raw []byte) (schema.Project, error) {
	var p schema.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	if p.Risks == nil {
		p.Risks = []schema.RiskItem{}
	}
	if p.Deadlines == nil {
		p.Deadlines = []schema.ContractDeadline{}
	}
	if p.ChangeRequests == nil {
		p.ChangeRequests = []schema.ChangeRequest{}
	}
	for i := range p.ChangeRequests {
		p.ChangeRequests[i].ProjectID = p.ID
		p.ChangeRequests[i].ProjectName = p.ProjectName
	}
	return p, nil
}
