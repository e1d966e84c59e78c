// Command flowview is a read-only terminal preview of a workflow canvas.
// It draws nodes as boxes, anchors as semantic-colored marks and edges by
// sampling their curves onto the character grid.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

const usage = `flowview - terminal workflow preview

Usage:
  flowview <workflow.json>

Keys:
  arrows     pan the canvas
  c          center the view
  q, Esc     quit
`

// Viewer holds the preview state.
type Viewer struct {
	screen tcell.Screen
	wf     *workflow.Workflow
	path   string

	// Pan offset in canvas units.
	panX, panY float64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	path := os.Args[1]
	wf, err := loadWorkflow(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}

	v := &Viewer{wf: wf, path: path}
	if err := v.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadWorkflow(path string) (*workflow.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	w, err := workflow.ParseJSON(data)
	if err != nil {
		return nil, err
	}

	layoutPath := strings.TrimSuffix(path, ".json") + ".layout.toml"
	if _, err := os.Stat(layoutPath); err == nil {
		l, lerr := workflow.LoadLayout(layoutPath)
		if lerr != nil {
			return nil, fmt.Errorf("layout file %s: %w", layoutPath, lerr)
		}
		l.Apply(w)
	}

	return w, nil
}

func (v *Viewer) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v.screen = screen
	v.centerView()
	v.draw()

	// Pan steps in canvas units, roughly one cell per press.
	const panStepX = cellWidth
	const panStepY = cellHeight

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			v.draw()

		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				return nil
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'c':
				v.centerView()
				v.draw()
			case ev.Key() == tcell.KeyUp:
				v.panY -= panStepY
				v.draw()
			case ev.Key() == tcell.KeyDown:
				v.panY += panStepY
				v.draw()
			case ev.Key() == tcell.KeyLeft:
				v.panX -= panStepX
				v.draw()
			case ev.Key() == tcell.KeyRight:
				v.panX += panStepX
				v.draw()
			}
		}
	}
}

// centerView pans so the workflow's bounding box is centred on screen.
func (v *Viewer) centerView() {
	if len(v.wf.Nodes) == 0 {
		v.panX, v.panY = 0, 0
		return
	}

	minX, minY := v.wf.Nodes[0].X, v.wf.Nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range v.wf.Nodes {
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.X+n.Width > maxX {
			maxX = n.X + n.Width
		}
		if n.Y+n.Height > maxY {
			maxY = n.Y + n.Height
		}
	}

	w, h := 80, 24
	if v.screen != nil {
		w, h = v.screen.Size()
	}

	v.panX = (minX+maxX)/2 - float64(w)/2*cellWidth
	v.panY = (minY+maxY)/2 - float64(h)/2*cellHeight
}
