// Package categories loads the externally maintained error-category
// membership lists and assigns testcases to a single bucket.
package categories

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bucket names one partition of a command's failing testcases.
type Bucket string

const (
	Core         Bucket = "core"
	NCDiff       Bucket = "nc_diff"
	SimulateDiff Bucket = "simulate_diff"
	Others       Bucket = "others"
)

// Buckets lists every bucket in precedence order.
var Buckets = []Bucket{Core, NCDiff, SimulateDiff, Others}

// ParseBucket validates a bucket name.
func ParseBucket(s string) (Bucket, bool) {
	for _, b := range Buckets {
		if string(b) == s {
			return b, true
		}
	}
	return "", false
}

// File names of the membership lists inside the lists directory.
const (
	CoreFile         = "list_core"
	NCDiffFile       = "list_nc_diff"
	SimulateDiffFile = "list_simulate_diff"
)

// Set is a set of testcase identities.
type Set map[string]struct{}

// Has reports whether id is a member of s.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// LoadSet reads a newline-delimited membership list. Lines are trimmed and
// empty lines dropped. A missing file is an empty set.
func LoadSet(path string) (Set, error) {
	set := Set{}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return set, nil
	}
	if err != nil {
		return set, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			set[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return set, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return set, nil
}

// Membership holds the three named category sets.
type Membership struct {
	Core         Set
	NCDiff       Set
	SimulateDiff Set
}

// Load reads the three membership lists from dir. Sets that could be read
// are returned even when another list fails; the joined error names the
// failures.
func Load(dir string) (Membership, error) {
	var errs []error
	load := func(name string) Set {
		s, err := LoadSet(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
		}
		return s
	}

	m := Membership{
		Core:         load(CoreFile),
		NCDiff:       load(NCDiffFile),
		SimulateDiff: load(SimulateDiffFile),
	}
	return m, errors.Join(errs...)
}

// Classify assigns id to the first named set containing it, in the order
// core, nc_diff, simulate_diff, and to others otherwise.
func (m Membership) Classify(id string) Bucket {
	switch {
	case m.Core.Has(id):
		return Core
	case m.NCDiff.Has(id):
		return NCDiff
	case m.SimulateDiff.Has(id):
		return SimulateDiff
	default:
		return Others
	}
}
