package classify

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadManifest returns the testcase paths listed in the manifest file, one
// per non-empty trimmed line, in file order. A repeated path is kept at its
// first position only.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	return Unique(entries), nil
}

// Unique drops repeated entries, keeping the first occurrence of each.
func Unique(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
