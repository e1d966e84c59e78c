// Native PNG rendering for workflow canvases.
// Mirrors the SVG renderer output using Go's image packages.

package canvas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width    int
	Height   int
	Padding  int
	FontSize int
	Title    string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:    800,
		Height:   600,
		Padding:  50,
		FontSize: 14,
	}
}

// Colors used in rendering
var (
	pngWhite        = color.RGBA{255, 255, 255, 255}
	pngBlack        = color.RGBA{51, 51, 51, 255}   // #333
	pngGreen        = color.RGBA{46, 125, 50, 255}  // #2e7d32
	pngRed          = color.RGBA{198, 40, 40, 255}  // #c62828
	pngNeutral      = color.RGBA{158, 158, 158, 255} // #9e9e9e
	pngConditionBdr = color.RGBA{21, 101, 192, 255} // #1565c0
	pngTriggerBdr   = color.RGBA{46, 125, 50, 255}  // #2e7d32
)

func pngColor(token ColorToken) color.RGBA {
	switch token {
	case ColorGreen:
		return pngGreen
	case ColorRed:
		return pngRed
	default:
		return pngNeutral
	}
}

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64 // multiplier for line thickness, arrow size, etc.
	lineWidth float64
	face      font.Face
}

func newRenderContext(img *image.RGBA, scale int, fontSize int) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // should never happen with embedded font
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone, // no hinting - we supersample instead
	})
	if err != nil {
		panic(err)
	}

	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
	}
}

// RenderPNG renders a workflow canvas to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(wf *workflow.Workflow, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}

	scale := 4
	largeImg := renderPNGInternal(wf, opts, scale)

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderPNGInternal(wf *workflow.Workflow, opts PNGOptions, scale int) *image.RGBA {
	width := opts.Width * scale
	height := opts.Height * scale
	padding := float64(opts.Padding * scale)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ctx := newRenderContext(img, scale, opts.FontSize)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, pngWhite)
		}
	}

	distributions := make(map[string]Distribution, len(wf.Nodes))
	for _, n := range wf.Nodes {
		distributions[n.ID] = LayoutHandles(
			wf.BranchCount(n.ID), n.Kind,
			Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height},
		)
	}

	minX, minY, maxX, maxY := contentBounds(wf, distributions)
	contentW := maxX - minX
	contentH := maxY - minY
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = 35 * ctx.scale
	}

	fit := math.Min(
		(float64(width)-2*padding)/contentW,
		(float64(height)-2*padding-titleSpace)/contentH,
	)
	if fit > 1.5*ctx.scale {
		fit = 1.5 * ctx.scale
	}

	offX := padding + (float64(width)-2*padding-contentW*fit)/2 - minX*fit
	offY := padding + titleSpace + (float64(height)-2*padding-titleSpace-contentH*fit)/2 - minY*fit

	tx := func(p Point) (float64, float64) {
		return p.X*fit + offX, p.Y*fit + offY
	}

	// Edges first so nodes draw over them.
	for _, e := range wf.Edges {
		src, okFrom := wf.Node(e.From)
		dst, okTo := wf.Node(e.To)
		if !okFrom || !okTo {
			continue
		}

		dist := distributions[src.ID]
		idx := wf.BranchIndex(e.ID)
		if idx < 0 || idx >= len(dist.Anchors) {
			continue
		}

		target := Point{X: dst.X + dst.Width/2, Y: dst.Y}
		count, member := wf.ParallelGroup(e.ID)
		curve := EdgeCurve(dist.Anchors[idx].Point(), target, count, member)

		drawCurveArrow(ctx, curve, tx, pngBlack)
	}

	// Nodes.
	for _, n := range wf.Nodes {
		border := pngBlack
		switch n.Kind {
		case workflow.KindCondition:
			border = pngConditionBdr
		case workflow.KindTrigger:
			border = pngTriggerBdr
		}

		x1, y1 := tx(Point{X: n.X, Y: n.Y})
		x2, y2 := tx(Point{X: n.X + n.Width, Y: n.Y + n.Height})
		drawRect(ctx, x1, y1, x2, y2, border)

		label := n.Label
		if label == "" {
			label = string(n.Kind)
		}
		cx, cy := tx(Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2})
		drawTextCentered(ctx, int(cx), int(cy), label, pngBlack)
	}

	// Anchors and branch labels.
	for _, n := range wf.Nodes {
		for _, a := range distributions[n.ID].Anchors {
			bl := Label(a.Semantic)
			ax, ay := tx(a.Point())
			drawDot(ctx, ax, ay, 4*ctx.scale, pngColor(bl.Color))

			if a.Label != "" {
				drawTextCentered(ctx, int(ax), int(ay+18*ctx.scale), a.Label, pngColor(bl.Color))
			}
		}
	}

	if opts.Title != "" {
		drawTextCentered(ctx, width/2, int(20*ctx.scale), opts.Title, pngBlack)
	}

	return img
}

// drawLine draws a thick line between two points.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawRect draws a rectangle outline.
func drawRect(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	drawLine(ctx, x1, y1, x2, y1, c)
	drawLine(ctx, x2, y1, x2, y2, c)
	drawLine(ctx, x2, y2, x1, y2, c)
	drawLine(ctx, x1, y2, x1, y1, c)
}

// drawDot draws a filled circle.
func drawDot(ctx *renderContext, cx, cy, r float64, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				ctx.img.Set(int(cx+dx), int(cy+dy), c)
			}
		}
	}
}

// drawCurveArrow draws a cubic Bezier edge with an arrowhead at the end.
// tx maps canvas coordinates to image coordinates.
func drawCurveArrow(ctx *renderContext, curve Curve, tx func(Point) (float64, float64), c color.Color) {
	steps := 100.0
	var prevX, prevY float64

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		x, y := tx(curve.At(t))
		if i > 0 {
			drawLine(ctx, prevX, prevY, x, y, c)
		}
		prevX, prevY = x, y
	}

	// Arrowhead along the end tangent.
	tangent := curve.TangentAt(1)
	dist := math.Sqrt(tangent.X*tangent.X + tangent.Y*tangent.Y)
	if dist < 0.001 {
		return
	}
	nx := tangent.X / dist
	ny := tangent.Y / dist

	ex, ey := tx(curve.End)
	arrowLen := 8.0 * ctx.scale
	arrowWidth := 4.0 * ctx.scale

	ax1 := ex - nx*arrowLen + ny*arrowWidth
	ay1 := ey - ny*arrowLen - nx*arrowWidth
	ax2 := ex - nx*arrowLen - ny*arrowWidth
	ay2 := ey - ny*arrowLen + nx*arrowWidth

	drawLine(ctx, ex, ey, ax1, ay1, c)
	drawLine(ctx, ex, ey, ax2, ay2, c)
	for t := 0.0; t <= 1.0; t += 0.05 {
		mx := ax1 + (ax2-ax1)*t
		my := ay1 + (ay2-ay1)*t
		drawLine(ctx, ex, ey, mx, my, c)
	}
}

// drawTextCentered draws text centered at the given position using Go Regular font.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()

	metrics := ctx.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.15)

	point := fixed.Point26_6{
		X: fixed.I(x - width/2),
		Y: fixed.I(baselineY),
	}

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  point,
	}
	d.DrawString(text)
}
