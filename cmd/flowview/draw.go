package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flow-toolkit/pkg/canvas"
	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

// Canvas units per terminal cell. Cells are roughly twice as tall as wide,
// so the vertical divisor is double the horizontal one to keep shapes
// recognisable.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// Styles
var (
	styleDefault   = tcell.StyleDefault
	styleNode      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCondition = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleTrigger   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleEdge      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleGreen     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleRed       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleNeutral   = tcell.StyleDefault.Foreground(tcell.ColorSilver).Bold(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// toCell maps a canvas point to terminal cell coordinates.
func (v *Viewer) toCell(p canvas.Point) (int, int) {
	return int((p.X - v.panX) / cellWidth), int((p.Y - v.panY) / cellHeight)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	distributions := make(map[string]canvas.Distribution, len(v.wf.Nodes))
	for _, n := range v.wf.Nodes {
		distributions[n.ID] = canvas.LayoutHandles(
			v.wf.BranchCount(n.ID), n.Kind,
			canvas.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height},
		)
	}

	v.drawEdges(distributions)
	for _, n := range v.wf.Nodes {
		v.drawNode(n)
	}
	v.drawAnchors(distributions)
	v.drawStatusBar(w, h)

	v.screen.Show()
}

func (v *Viewer) drawEdges(distributions map[string]canvas.Distribution) {
	for _, e := range v.wf.Edges {
		src, okFrom := v.wf.Node(e.From)
		dst, okTo := v.wf.Node(e.To)
		if !okFrom || !okTo {
			continue
		}

		dist := distributions[src.ID]
		idx := v.wf.BranchIndex(e.ID)
		if idx < 0 || idx >= len(dist.Anchors) {
			continue
		}

		target := canvas.Point{X: dst.X + dst.Width/2, Y: dst.Y}
		count, member := v.wf.ParallelGroup(e.ID)
		curve := canvas.EdgeCurve(dist.Anchors[idx].Point(), target, count, member)

		// Sample densely enough that adjacent samples land on
		// neighbouring cells.
		steps := int(curve.Length()/cellWidth)*2 + 8
		var prevX, prevY int
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			cx, cy := v.toCell(curve.At(t))
			if i > 0 && cx == prevX && cy == prevY {
				continue
			}
			v.screen.SetContent(cx, cy, '·', nil, styleEdge)
			prevX, prevY = cx, cy
		}

		// Arrow at the target end.
		tx, ty := v.toCell(target)
		v.screen.SetContent(tx, ty, '▼', nil, styleEdge)
	}
}

func (v *Viewer) drawNode(n workflow.Node) {
	style := styleNode
	switch n.Kind {
	case workflow.KindCondition:
		style = styleCondition
	case workflow.KindTrigger:
		style = styleTrigger
	}

	x1, y1 := v.toCell(canvas.Point{X: n.X, Y: n.Y})
	x2, y2 := v.toCell(canvas.Point{X: n.X + n.Width, Y: n.Y + n.Height})
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}

	// Box border
	v.screen.SetContent(x1, y1, '┌', nil, style)
	v.screen.SetContent(x2, y1, '┐', nil, style)
	v.screen.SetContent(x1, y2, '└', nil, style)
	v.screen.SetContent(x2, y2, '┘', nil, style)
	for x := x1 + 1; x < x2; x++ {
		v.screen.SetContent(x, y1, '─', nil, style)
		v.screen.SetContent(x, y2, '─', nil, style)
	}
	for y := y1 + 1; y < y2; y++ {
		v.screen.SetContent(x1, y, '│', nil, style)
		v.screen.SetContent(x2, y, '│', nil, style)
	}

	label := n.Label
	if label == "" {
		label = string(n.Kind)
	}
	maxLen := x2 - x1 - 1
	if maxLen > 0 && len(label) > maxLen {
		label = label[:maxLen]
	}
	v.drawString(x1+1+(x2-x1-1-len(label))/2, (y1+y2)/2, label, style)
}

func (v *Viewer) drawAnchors(distributions map[string]canvas.Distribution) {
	for _, n := range v.wf.Nodes {
		for _, a := range distributions[n.ID].Anchors {
			style := styleNeutral
			switch canvas.Label(a.Semantic).Color {
			case canvas.ColorGreen:
				style = styleGreen
			case canvas.ColorRed:
				style = styleRed
			}

			x, y := v.toCell(a.Point())
			v.screen.SetContent(x, y, '●', nil, style)

			if a.Label != "" {
				v.drawString(x-len(a.Label)/2, y+1, a.Label, style)
			}
		}
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	name := v.wf.Name
	if name == "" {
		name = v.path
	}
	status := fmt.Sprintf(" %s: %d nodes, %d edges | arrows pan, c center, q quit",
		name, len(v.wf.Nodes), len(v.wf.Edges))
	if len(status) > w {
		status = status[:w]
	}

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	v.drawString(0, h-1, status, styleStatus)
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}
