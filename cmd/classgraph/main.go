// Command classgraph parses a directory of JVM classfiles and answers
// cross-linking queries over the resulting class graph.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = cmdScan(os.Args[2:])
	case "query":
		err = cmdQuery(os.Args[2:])
	case "render":
		err = cmdRender(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `classgraph — JVM classfile cross-linker

Usage:
  classgraph scan   --dir <path> [--strict] [--blacklist pkg,...]   Scan a classpath root and print a summary
  classgraph query  --dir <path> --class <name> --relation <rel>    Query the graph built from a classpath root
  classgraph render --dir <path> --relation <rel> --out <file.dot>  Render one relation as Graphviz DOT

Relations: superclass, subclass, implemented_interface, implementing_class, annotation, annotated_class, field_type
`)
}
