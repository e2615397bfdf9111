// Package render draws a resolution result as a graph: local packages on
// one side, the repositories they pull in on the other, with each edge
// labelled by the resolved version.
//
// [ToDOT] produces Graphviz DOT text. [SVG] renders DOT in-process through
// go-graphviz, so no Graphviz installation is required.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/checkout"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// ToDOT converts a result to Graphviz DOT. Repositories appear in name order
// and packages in the order they first contributed to a repository, so equal
// results give identical output.
func ToDOT(result *deps.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pandoradep {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	records := checkout.Sorted(result)
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, pkg := range rec.Packages {
			if seen[pkg] {
				continue
			}
			seen[pkg] = true
			fmt.Fprintf(&buf, "  %q [label=%q];\n", "pkg:"+pkg, pkg)
		}
	}
	for _, rec := range records {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", "repo:"+rec.Repo, rec.Repo)
	}

	buf.WriteString("\n")
	for _, rec := range records {
		for _, pkg := range rec.Packages {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", "pkg:"+pkg, "repo:"+rec.Repo, rec.Version)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders a DOT graph to SVG.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the image scales from its
// viewBox instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
