package main

import (
	"flag"
	"fmt"
	"sort"

	"classgraph/internal/classfile"
	"classgraph/internal/graph"
)

func cmdQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	dir := fs.String("dir", "", "classpath root to scan")
	className := fs.String("class", "", "dotted class name to query from")
	relationName := fs.String("relation", "", "relation to traverse")
	reachable := fs.Bool("reachable", false, "compute the transitive closure instead of direct edges")
	includeExternals := fs.Bool("include-externals", false, "include nodes that were only referenced, not scanned")
	category := fs.String("category", "any", "filter result by category: any, class, interface, annotation")
	blacklistCSV := fs.String("blacklist", "", "comma-separated package prefixes to exclude")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *className == "" || *relationName == "" {
		return fmt.Errorf("--dir, --class, and --relation are required")
	}

	relation, err := parseRelation(*relationName)
	if err != nil {
		return err
	}
	cat, err := parseCategory(*category)
	if err != nil {
		return err
	}

	res, err := buildGraphFromDir(*dir, classfile.Options{Mode: classfile.ModeBestEffort}, splitCSV(*blacklistCSV))
	if err != nil {
		return err
	}

	node := res.Graph.Node(*className)
	if node == nil {
		return fmt.Errorf("class %q was never observed in %s", *className, *dir)
	}

	var results []*graph.ClassInfo
	if *reachable {
		results = graph.Reachable(node, relation)
	} else {
		results = graph.Direct(node, relation)
	}
	results = graph.Filter(results, *includeExternals, cat)

	names := make([]string, 0, len(results))
	for _, n := range results {
		names = append(names, n.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func parseCategory(name string) (graph.Category, error) {
	switch name {
	case "any":
		return graph.CategoryAny, nil
	case "class":
		return graph.CategoryStandardClass, nil
	case "interface":
		return graph.CategoryInterface, nil
	case "annotation":
		return graph.CategoryAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown category %q", name)
	}
}
