package main

import (
	"fmt"

	"classgraph/internal/classfile"
	"classgraph/internal/classpath"
	"classgraph/internal/graph"
	"classgraph/internal/intern"
	"classgraph/internal/scanfilter"
)

// buildResult bundles the linked graph with every diagnostic collected
// while scanning, in classfile-input order.
type buildResult struct {
	Graph *graph.Graph
	Diags []classfile.Diag
}

func buildGraphFromDir(dir string, opts classfile.Options, blacklist []string) (*buildResult, error) {
	entries, err := classpath.WalkDirs(dir)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	filter := scanfilter.AllowAll
	if len(blacklist) > 0 {
		filter = scanfilter.Blacklist(blacklist...)
	}

	interner := intern.New()
	parser := classfile.NewParser()
	builder := graph.NewBuilder()

	var allDiags []classfile.Diag
	for _, e := range entries {
		rc, err := e.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", e.RelativePath, err)
		}
		rec, diags, err := parser.Parse(rc, e.RelativePath, nil, filter, interner, opts)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.RelativePath, err)
		}
		allDiags = append(allDiags, diags.Items()...)
		if rec == nil {
			continue
		}
		if err := builder.Add(rec); err != nil {
			return nil, fmt.Errorf("linking %s: %w", e.RelativePath, err)
		}
	}

	return &buildResult{Graph: builder.Graph(), Diags: allDiags}, nil
}

func parseRelation(name string) (graph.Relation, error) {
	switch name {
	case "superclass":
		return graph.Superclass, nil
	case "subclass":
		return graph.Subclass, nil
	case "implemented_interface":
		return graph.ImplementedInterface, nil
	case "implementing_class":
		return graph.ImplementingClass, nil
	case "annotation":
		return graph.Annotation, nil
	case "annotated_class":
		return graph.AnnotatedClass, nil
	case "field_type":
		return graph.FieldType, nil
	default:
		return 0, fmt.Errorf("unknown relation %q", name)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
