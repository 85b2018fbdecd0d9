// Package classpath supplies the scan driver with an ordered stream of
// (relative path, byte source) pairs discovered by walking one or more
// directory roots. Archive (zip/jar) traversal and class-loader-root
// discovery from a running JVM are external collaborators this package
// does not implement.
package classpath

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one discovered classfile: a whitelisted relative path
// together with a function that opens its byte source on demand.
type Entry struct {
	RelativePath string
	Open         func() (io.ReadCloser, error)
}

// WalkDirs discovers every ".class" file under the given directory
// roots, in root order and then lexical path order within each root.
// A relative path already seen under an earlier root masks any later
// occurrence under a subsequent root, mirroring classpath precedence.
func WalkDirs(roots ...string) ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry

	for _, root := range roots {
		var rootEntries []Entry
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ".class") {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("classpath: relativizing %s under %s: %w", path, root, err)
			}
			rel = filepath.ToSlash(rel)
			if seen[rel] {
				return nil
			}
			seen[rel] = true
			capturedPath := path
			rootEntries = append(rootEntries, Entry{
				RelativePath: rel,
				Open: func() (io.ReadCloser, error) {
					return os.Open(capturedPath)
				},
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("classpath: walking %s: %w", root, err)
		}
		sort.Slice(rootEntries, func(i, j int) bool {
			return rootEntries[i].RelativePath < rootEntries[j].RelativePath
		})
		entries = append(entries, rootEntries...)
	}
	return entries, nil
}
