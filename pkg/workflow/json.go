package workflow

import "encoding/json"

// ParseJSON parses a workflow from JSON.
func ParseJSON(data []byte) (*Workflow, error) {
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Nodes == nil {
		w.Nodes = make([]Node, 0)
	}
	if w.Edges == nil {
		w.Edges = make([]Edge, 0)
	}
	return &w, nil
}

// ToJSON converts a workflow to JSON.
func ToJSON(w *Workflow, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(w, "", "  ")
	}
	return json.Marshal(w)
}
