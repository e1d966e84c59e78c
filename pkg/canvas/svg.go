package canvas

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title        string
	Padding      float64 // padding around the content bounds
	FontSize     int     // node label font size
	LabelSize    int     // branch label font size (0 = FontSize - 2)
	AnchorRadius float64 // radius of anchor dots
	CornerRadius float64 // node corner rounding
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Padding:      80,
		FontSize:     14,
		LabelSize:    0, // will default to FontSize - 2
		AnchorRadius: 4,
		CornerRadius: 8,
	}
}

// svgColor maps abstract color tokens to concrete fills.
func svgColor(token ColorToken) string {
	switch token {
	case ColorGreen:
		return "#2e7d32"
	case ColorRed:
		return "#c62828"
	default:
		return "#9e9e9e"
	}
}

// RenderSVG renders a positioned workflow to SVG. Node geometry comes from
// the workflow itself; anchors and curves are recomputed here on every call.
func RenderSVG(w *workflow.Workflow, opts SVGOptions) string {
	if opts.Padding == 0 {
		opts.Padding = 80
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 2
	}
	if opts.AnchorRadius == 0 {
		opts.AnchorRadius = 4
	}
	if opts.CornerRadius == 0 {
		opts.CornerRadius = 8
	}

	distributions := make(map[string]Distribution, len(w.Nodes))
	for _, n := range w.Nodes {
		distributions[n.ID] = LayoutHandles(
			w.BranchCount(n.ID), n.Kind,
			Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height},
		)
	}

	minX, minY, maxX, maxY := contentBounds(w, distributions)
	width := maxX - minX + 2*opts.Padding
	height := maxY - minY + 2*opts.Padding
	offX := opts.Padding - minX
	offY := opts.Padding - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))

	sb.WriteString(`  <defs>
    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
      <polygon points="0 0, 10 3.5, 0 7" fill="#333"/>
    </marker>
  </defs>
`)
	sb.WriteString(fmt.Sprintf(`  <style>
  .node { fill: white; stroke: #333; stroke-width: 2; }
  .node-condition { fill: #e3f2fd; stroke: #1565c0; stroke-width: 2; }
  .node-trigger { fill: #e8f5e9; stroke: #2e7d32; stroke-width: 2; }
  .node-label { font-family: sans-serif; font-size: %dpx; fill: #333; text-anchor: middle; }
  .edge { fill: none; stroke: #333; stroke-width: 1.5; marker-end: url(#arrowhead); }
  .branch-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; }
  </style>
`, opts.FontSize, opts.LabelSize))

	sb.WriteString(fmt.Sprintf(`  <rect width="%.0f" height="%.0f" fill="white"/>
`, width, height))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%.0f" y="%d" class="node-label" font-weight="bold">%s</text>
`, width/2, opts.FontSize+10, html.EscapeString(opts.Title)))
	}

	// Edges first so nodes draw over them.
	for _, e := range w.Edges {
		src, okFrom := w.Node(e.From)
		dst, okTo := w.Node(e.To)
		if !okFrom || !okTo {
			continue
		}

		dist := distributions[src.ID]
		idx := w.BranchIndex(e.ID)
		if idx < 0 || idx >= len(dist.Anchors) {
			continue
		}
		anchor := dist.Anchors[idx]

		target := Point{X: dst.X + dst.Width/2, Y: dst.Y}
		count, member := w.ParallelGroup(e.ID)
		curve := EdgeCurve(anchor.Point(), target, count, member)

		sb.WriteString(fmt.Sprintf(`  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" class="edge"/>
`,
			curve.Start.X+offX, curve.Start.Y+offY,
			curve.Control1.X+offX, curve.Control1.Y+offY,
			curve.Control2.X+offX, curve.Control2.Y+offY,
			curve.End.X+offX, curve.End.Y+offY))
	}

	// Nodes.
	for _, n := range w.Nodes {
		class := "node"
		switch n.Kind {
		case workflow.KindCondition:
			class = "node node-condition"
		case workflow.KindTrigger:
			class = "node node-trigger"
		}

		sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" class="%s"/>
`, n.X+offX, n.Y+offY, n.Width, n.Height, opts.CornerRadius, class))

		label := n.Label
		if label == "" {
			label = string(n.Kind)
		}
		sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" class="node-label">%s</text>
`, n.X+n.Width/2+offX, n.Y+n.Height/2+float64(opts.FontSize)/3+offY, html.EscapeString(label)))
	}

	// Anchors and their branch labels, over everything.
	for _, n := range w.Nodes {
		for _, a := range distributions[n.ID].Anchors {
			bl := Label(a.Semantic)
			sb.WriteString(fmt.Sprintf(`  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="white" stroke-width="1"/>
`, a.X+offX, a.Y+offY, opts.AnchorRadius, svgColor(bl.Color)))

			if a.Label != "" {
				sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" class="branch-label" fill="%s">%s</text>
`, a.X+offX, a.Y+offY+float64(opts.LabelSize)+opts.AnchorRadius+2, svgColor(bl.Color), html.EscapeString(a.Label)))
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// contentBounds returns the bounding box of all nodes and anchors.
func contentBounds(w *workflow.Workflow, distributions map[string]Distribution) (minX, minY, maxX, maxY float64) {
	first := true
	extend := func(x, y float64) {
		if first {
			minX, maxX = x, x
			minY, maxY = y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, n := range w.Nodes {
		extend(n.X, n.Y)
		extend(n.X+n.Width, n.Y+n.Height)
		for _, a := range distributions[n.ID].Anchors {
			extend(a.X, a.Y)
		}
	}

	if first {
		return 0, 0, 100, 100
	}
	return minX, minY, maxX, maxY
}
