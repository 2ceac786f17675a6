package fsm

// StateInfo describes one registered state for introspection tools.
type StateInfo struct {
	ID          string   `json:"id"`
	Transitions []string `json:"transitions"`
	Initial     bool     `json:"initial,omitempty"`
	Terminal    bool     `json:"terminal,omitempty"`
}

// Describe returns the registered states in registration order.
func (m *Machine[S, C]) Describe() []StateInfo {
	infos := make([]StateInfo, 0, len(m.order))
	for _, id := range m.order {
		cfg := m.states[id]
		info := StateInfo{
			ID:          label(id),
			Transitions: make([]string, 0, len(cfg.Transitions)),
			Initial:     id == m.initial,
			Terminal:    len(cfg.Transitions) == 0,
		}
		for _, t := range cfg.Transitions {
			info.Transitions = append(info.Transitions, label(t))
		}
		infos = append(infos, info)
	}
	return infos
}

// Validate checks the declared topology without running any action.
// It reports an unregistered initial state, allow-list entries that name unregistered states,
// and registered states that no path from the initial state reaches. The result is a *GraphError or nil.
func (m *Machine[S, C]) Validate() error {
	var issues []error

	if _, ok := m.states[m.initial]; !ok {
		issues = append(issues, &UndefinedStateError{State: m.initial, Role: RoleInitial})
	}

	for _, id := range m.order {
		for _, target := range m.states[id].Transitions {
			if _, ok := m.states[target]; !ok {
				issues = append(issues, &UndefinedStateError{State: target, Role: RoleTarget, From: id})
			}
		}
	}

	reached := m.reachable()
	for _, id := range m.order {
		if !reached[id] {
			issues = append(issues, &UnreachableStateError{State: id})
		}
	}

	if len(issues) > 0 {
		return &GraphError{Issues: issues}
	}
	return nil
}

// reachable walks the allow-lists breadth-first from the initial state.
func (m *Machine[S, C]) reachable() map[S]bool {
	visited := make(map[S]bool)
	if _, ok := m.states[m.initial]; !ok {
		return visited
	}

	queue := []S{m.initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		cfg, ok := m.states[current]
		if !ok {
			continue
		}
		for _, target := range cfg.Transitions {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	return visited
}
