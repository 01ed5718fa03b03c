package stoplist

import "sort"

// Manager holds tokens that must never be harvested.
// Matching is exact and case-sensitive, like token equality.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a manager seeded with initialStops.
// Empty strings are ignored since no token can be empty.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		if s == "" {
			continue
		}
		stops[s] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is excluded. A nil manager excludes nothing.
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[token]
	return ok
}

// Add excludes token.
func (m *Manager) Add(token string) {
	if token == "" {
		return
	}
	m.stops[token] = struct{}{}
}

// Remove stops excluding token.
func (m *Manager) Remove(token string) {
	delete(m.stops, token)
}

// Len returns the number of excluded tokens.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// All returns every excluded token in sorted order.
func (m *Manager) All() []string {
	if m == nil {
		return nil
	}
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
