package lineage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/atlan-go/pkg/model"
)

// ToDOT converts a lineage response to Graphviz DOT format, left to right.
// Processes are drawn as ellipses and the base entity is highlighted.
func ToDOT(r *Response) string {
	g := r.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, guid := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(r, guid))}
		if g.IsProcess(guid) {
			attrs = append(attrs, "shape=ellipse", "fillcolor=lightgrey")
		}
		if guid == r.BaseEntityGUID {
			attrs = append(attrs, "penwidth=2", "fillcolor=\"#d9f2ef\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", guid, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(r *Response, guid string) string {
	e, ok := r.Entity(guid)
	if !ok {
		return guid
	}
	name := model.DisplayName(e)
	if name == "" {
		name = guid
	}
	return name + "\n" + e.Header().TypeName
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
