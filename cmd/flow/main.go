// Command flow is a CLI tool for inspecting and rendering workflow canvases.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ha1tch/flow-toolkit/pkg/canvas"
	"github.com/ha1tch/flow-toolkit/pkg/workflow"
)

const usage = `flow - workflow canvas toolkit

Usage:
  flow <command> [options]

Commands:
  info       Show workflow summary
  anchors    Print the anchor table for each node
  svg        Render the workflow to SVG
  png        Render the workflow to PNG
  layout     Write/refresh the layout file from node positions

Examples:
  flow info workflow.json
  flow anchors workflow.json
  flow svg workflow.json -o workflow.svg -t "My Workflow"
  flow png workflow.json -o workflow.png
  flow layout workflow.json -o workflow.layout.toml

Use "flow <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "info":
		cmdInfo(args)
	case "anchors":
		cmdAnchors(args)
	case "svg":
		cmdSVG(args)
	case "png":
		cmdPNG(args)
	case "layout":
		cmdLayout(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// loadWorkflow reads a workflow JSON file and applies a sibling layout file
// if one exists next to it.
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

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flow info <input>")
		os.Exit(1)
	}

	w, err := loadWorkflow(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	bold := color.New(color.Bold)
	bold.Printf("Workflow: ")
	if w.Name != "" {
		fmt.Println(w.Name)
	} else {
		fmt.Println("(unnamed)")
	}
	fmt.Printf("Nodes: %d\n", len(w.Nodes))
	fmt.Printf("Edges: %d\n", len(w.Edges))

	if err := w.Validate(); err != nil {
		color.Red("Invalid: %v", err)
		os.Exit(1)
	}

	kinds := make(map[workflow.NodeKind]int)
	for _, n := range w.Nodes {
		kinds[n.Kind]++
	}
	for _, k := range workflow.Kinds {
		if kinds[k] > 0 {
			fmt.Printf("  %-10s %d\n", k, kinds[k])
		}
	}

	color.Green("OK")
}

func cmdAnchors(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flow anchors <input>")
		os.Exit(1)
	}

	w, err := loadWorkflow(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, n := range w.Nodes {
		branches := w.BranchCount(n.ID)
		dist := canvas.LayoutHandles(branches, n.Kind,
			canvas.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height})

		label := n.Label
		if label == "" {
			label = n.ID
		}
		bold.Printf("%s", label)
		fmt.Printf(" (%s, %d branches, %s strategy)\n", n.Kind, branches, dist.Strategy)

		for i, a := range dist.Anchors {
			line := fmt.Sprintf("  [%d] (%7.2f, %7.2f) %6.1f° %-10s %s",
				i, a.X, a.Y, a.Angle, a.Class, a.Semantic)
			switch canvas.Label(a.Semantic).Color {
			case canvas.ColorGreen:
				green.Println(line)
			case canvas.ColorRed:
				red.Println(line)
			default:
				fmt.Println(line)
			}
		}
	}
}

func cmdSVG(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flow svg <input> [-o output] [-t title]")
		os.Exit(1)
	}

	input := args[0]
	var output, title string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		}
	}

	w, err := loadWorkflow(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	opts := canvas.DefaultSVGOptions()
	if title != "" {
		opts.Title = title
	} else {
		opts.Title = w.Name
	}

	svg := canvas.RenderSVG(w, opts)

	if output != "" {
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
		fmt.Printf("Written: %s\n", output)
	} else {
		fmt.Print(svg)
	}
}

func cmdPNG(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flow png <input> [-o output] [-t title]")
		os.Exit(1)
	}

	input := args[0]
	output := strings.TrimSuffix(input, ".json") + ".png"
	var title string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		}
	}

	w, err := loadWorkflow(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	opts := canvas.DefaultPNGOptions()
	if title != "" {
		opts.Title = title
	} else {
		opts.Title = w.Name
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", output, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := canvas.RenderPNG(w, out, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}

func cmdLayout(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flow layout <input> [-o output]")
		os.Exit(1)
	}

	input := args[0]
	output := strings.TrimSuffix(input, ".json") + ".layout.toml"

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	w, err := loadWorkflow(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if err := workflow.SaveLayout(output, workflow.LayoutFromWorkflow(w, 0, 0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}
