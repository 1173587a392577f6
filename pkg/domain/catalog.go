package domain

// ToolInfo describes a callable tool exposed by a server.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ServerInfo describes one tool server visible to a run.
type ServerInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Connected bool       `json:"connected"`
	Tools     []ToolInfo `json:"tools"`
}

// Catalog is a read-only snapshot of the servers and tools available to a
// run. It is captured once at start and never mutated during execution, so
// lookups are deterministic and safe across concurrent runs.
type Catalog struct {
	Servers []ServerInfo `json:"servers"`
}

// Server returns the server with the given id.
func (c Catalog) Server(id string) (ServerInfo, bool) {
	for _, s := range c.Servers {
		if s.ID == id {
			return s, true
		}
	}
	return ServerInfo{}, false
}

// FindTool locates a tool by name across all servers, returning the owning
// server as well. Servers are scanned in snapshot order.
func (c Catalog) FindTool(name string) (ServerInfo, ToolInfo, bool) {
	for _, s := range c.Servers {
		for _, t := range s.Tools {
			if t.Name == name {
				return s, t, true
			}
		}
	}
	return ServerInfo{}, ToolInfo{}, false
}
