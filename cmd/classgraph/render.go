package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"classgraph/internal/classfile"
)

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	dir := fs.String("dir", "", "classpath root to scan")
	relationName := fs.String("relation", "", "relation to render")
	out := fs.String("out", "", "output .dot path (default: stdout)")
	blacklistCSV := fs.String("blacklist", "", "comma-separated package prefixes to exclude")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *relationName == "" {
		return fmt.Errorf("--dir and --relation are required")
	}

	relation, err := parseRelation(*relationName)
	if err != nil {
		return err
	}

	res, err := buildGraphFromDir(*dir, classfile.Options{Mode: classfile.ModeBestEffort}, splitCSV(*blacklistCSV))
	if err != nil {
		return err
	}

	lg := res.Graph.Export(relation)

	var b strings.Builder
	b.WriteString("digraph classgraph {\n")
	b.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&b, "  // relation: %s\n", *relationName)
	b.WriteByte('\n')
	for _, n := range lg.Nodes {
		fmt.Fprintf(&b, "  %s [label=%q];\n", dotNodeID(n), dotLabel(n, 40))
	}
	b.WriteByte('\n')
	for _, e := range lg.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", dotNodeID(e.Caller), dotNodeID(e.Callee))
	}
	b.WriteString("}\n")

	if *out == "" {
		fmt.Print(b.String())
		return nil
	}
	return os.WriteFile(*out, []byte(b.String()), 0o644)
}

// dotNodeID creates a safe DOT identifier from a dotted class name: every
// byte outside [A-Za-z0-9] (underscore included) is escaped as "_XX" (its
// value as two hex digits), so two distinct class names never collide on
// the same identifier.
func dotNodeID(name string) string {
	var b strings.Builder
	b.WriteString("n_")
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

// dotLabel renders a dotted class name for display: the package prefix is
// dropped in favor of the simple class name, and the result is capped at
// maxLen with a trailing "..." so deeply nested or heavily generic names
// (e.g. inner classes with long Scala-mangled suffixes) don't blow out
// node widths in the rendered graph. The full name is always recoverable
// from dotNodeID, which this never shortens.
func dotLabel(name string, maxLen int) string {
	label := name
	if i := strings.LastIndexByte(label, '.'); i >= 0 {
		label = label[i+1:]
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
