// Package clusters groups classification records by failing command and
// error tag and derives the ranked summary and cross-tabulated tables.
//
// Every view preserves first-seen order of commands, tags and testcases,
// so repeated passes over the same records yield identical output.
package clusters

import (
	"github.com/JaimeStill/regtriage/internal/classify"
)

// Cluster is the set of testcases that failed the same command with the
// same tag. ErrorMessage is the message of the first record seen.
type Cluster struct {
	Command      string   `json:"command"`
	Tag          string   `json:"tag"`
	ErrorMessage string   `json:"error_message"`
	Testcases    []string `json:"testcases"`
}

type commandGroup struct {
	tags  []string
	byTag map[string]*Cluster
}

// Clusters indexes records as command -> tag -> cluster.
type Clusters struct {
	commands  []string
	byCommand map[string]*commandGroup
}

// Build groups records in their given order.
func Build(records []classify.Record) *Clusters {
	c := &Clusters{byCommand: make(map[string]*commandGroup)}

	for _, r := range records {
		g, ok := c.byCommand[r.FailingCommand]
		if !ok {
			g = &commandGroup{byTag: make(map[string]*Cluster)}
			c.byCommand[r.FailingCommand] = g
			c.commands = append(c.commands, r.FailingCommand)
		}

		cl, ok := g.byTag[r.Tag]
		if !ok {
			cl = &Cluster{
				Command:      r.FailingCommand,
				Tag:          r.Tag,
				ErrorMessage: r.ErrorMessage,
			}
			g.byTag[r.Tag] = cl
			g.tags = append(g.tags, r.Tag)
		}
		cl.Testcases = append(cl.Testcases, r.TestcasePath)
	}

	return c
}

// Commands returns the failing commands in first-seen order.
func (c *Clusters) Commands() []string {
	return c.commands
}

// Tags returns the tags of command in first-seen order.
func (c *Clusters) Tags(command string) []string {
	if g, ok := c.byCommand[command]; ok {
		return g.tags
	}
	return nil
}

// Cluster returns the cluster for (command, tag).
func (c *Clusters) Cluster(command, tag string) (Cluster, bool) {
	g, ok := c.byCommand[command]
	if !ok {
		return Cluster{}, false
	}
	cl, ok := g.byTag[tag]
	if !ok {
		return Cluster{}, false
	}
	return *cl, true
}

// Testcases returns the distinct testcases of command across all of its
// tags, in first-seen order.
func (c *Clusters) Testcases(command string) []string {
	g, ok := c.byCommand[command]
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, tag := range g.tags {
		for _, id := range g.byTag[tag].Testcases {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Has reports whether command has any cluster.
func (c *Clusters) Has(command string) bool {
	_, ok := c.byCommand[command]
	return ok
}

// Len returns the number of distinct failing commands.
func (c *Clusters) Len() int {
	return len(c.commands)
}
