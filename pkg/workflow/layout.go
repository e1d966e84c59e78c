package workflow

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
)

// Layout holds editor-side canvas placement: a viewport offset plus the
// position and size of each node, keyed by node ID. It lives in a TOML file
// next to the workflow so geometry survives restarts without touching the
// workflow document itself.
type Layout struct {
	Version int                     `toml:"version"`
	Editor  EditorMeta              `toml:"editor"`
	Nodes   map[string]NodePosition `toml:"nodes"`
}

// EditorMeta contains editor viewport settings.
type EditorMeta struct {
	CanvasOffsetX float64 `toml:"canvas_offset_x"`
	CanvasOffsetY float64 `toml:"canvas_offset_y"`
}

// NodePosition contains placement for a single node.
type NodePosition struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LayoutFromWorkflow captures the current node geometry as a Layout.
func LayoutFromWorkflow(w *Workflow, offsetX, offsetY float64) *Layout {
	l := &Layout{
		Version: 1,
		Editor:  EditorMeta{CanvasOffsetX: offsetX, CanvasOffsetY: offsetY},
		Nodes:   make(map[string]NodePosition, len(w.Nodes)),
	}
	for _, n := range w.Nodes {
		l.Nodes[n.ID] = NodePosition{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	}
	return l
}

// Apply copies layout positions onto matching workflow nodes.
// Nodes without a layout entry keep their current geometry.
func (l *Layout) Apply(w *Workflow) {
	for i := range w.Nodes {
		if pos, ok := l.Nodes[w.Nodes[i].ID]; ok {
			w.Nodes[i].X = pos.X
			w.Nodes[i].Y = pos.Y
			if pos.Width > 0 {
				w.Nodes[i].Width = pos.Width
			}
			if pos.Height > 0 {
				w.Nodes[i].Height = pos.Height
			}
		}
	}
}

// EncodeLayout serialises a Layout as TOML.
func EncodeLayout(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseLayout parses TOML layout content.
func ParseLayout(data []byte) (*Layout, error) {
	l := &Layout{Nodes: make(map[string]NodePosition)}
	if err := toml.Unmarshal(data, l); err != nil {
		return nil, err
	}
	if l.Nodes == nil {
		l.Nodes = make(map[string]NodePosition)
	}
	return l, nil
}

// SaveLayout writes a layout file to disk.
func SaveLayout(path string, l *Layout) error {
	data, err := EncodeLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLayout reads a layout file from disk.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayout(data)
}
