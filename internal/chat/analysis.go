package chat

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/regtriage/internal/classify"
)

// Analysis is the aggregate view the responder answers from.
type Analysis struct {
	TotalFailures         int           `json:"total_failures"`
	UniqueCommands        int           `json:"unique_commands"`
	UniqueTags            int           `json:"unique_tags"`
	CommandStats          *Counter      `json:"command_stats"`
	TagStats              *Counter      `json:"tag_stats"`
	MostCommonCommand     *Count        `json:"most_common_command"`
	MostCommonTag         *Count        `json:"most_common_tag"`
	ErrorPatterns         *Counter      `json:"error_patterns"`
	PathAnalysis          *Counter      `json:"path_analysis"`
	CommandTagCorrelation *Correlation  `json:"command_tag_correlation"`
	FailureDistribution   *Distribution `json:"failure_distribution"`
}

// Distribution summarizes failures per command.
type Distribution struct {
	MinFailures                  int     `json:"min_failures"`
	MaxFailures                  int     `json:"max_failures"`
	AvgFailures                  float64 `json:"avg_failures"`
	MedianFailures               float64 `json:"median_failures"`
	CommandsWithSingleFailure    int     `json:"commands_with_single_failure"`
	CommandsWithMultipleFailures int     `json:"commands_with_multiple_failures"`

	wholeMedian bool
}

// Median formats the median: an integer for an odd number of commands,
// a decimal otherwise.
func (d *Distribution) Median() string {
	if d.wholeMedian {
		return strconv.Itoa(int(d.MedianFailures))
	}
	return formatFloat(d.MedianFailures)
}

// Average formats the mean rounded to two decimals.
func (d *Distribution) Average() string {
	return formatFloat(d.AvgFailures)
}

// Correlation counts tags per failing command, commands in first-seen order.
type Correlation struct {
	commands []string
	tags     map[string]*Counter
}

func newCorrelation() *Correlation {
	return &Correlation{tags: make(map[string]*Counter)}
}

func (c *Correlation) add(command, tag string) {
	counter, ok := c.tags[command]
	if !ok {
		counter = NewCounter()
		c.tags[command] = counter
		c.commands = append(c.commands, command)
	}
	counter.Add(tag)
}

// Commands returns the correlated commands in first-seen order.
func (c *Correlation) Commands() []string {
	return c.commands
}

// Tags returns the tag counter of command.
func (c *Correlation) Tags(command string) *Counter {
	return c.tags[command]
}

// Len returns the number of correlated commands.
func (c *Correlation) Len() int {
	return len(c.commands)
}

// MarshalJSON encodes the correlation as an ordered object of counters.
func (c *Correlation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cmd := range c.commands {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cmd)
		if err != nil {
			return nil, err
		}
		val, err := c.tags[cmd].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type keyword struct {
	key   string
	match func(lower string) bool
}

var errorPatterns = []keyword{
	{"license_issues", func(s string) bool { return strings.Contains(s, "license") }},
	{"file_not_found", func(s string) bool {
		return strings.Contains(s, "file") &&
			(strings.Contains(s, "not found") || strings.Contains(s, "cannot open"))
	}},
	{"parameter_issues", func(s string) bool { return strings.Contains(s, "parameter") }},
	{"build_issues", func(s string) bool { return strings.Contains(s, "build") }},
	{"test_issues", func(s string) bool { return strings.Contains(s, "test") }},
}

var pathCategories = []struct {
	key    string
	marker string
}{
	{"customer_tests", "customer"},
	{"diagnostics_tests", "diagnostics"},
	{"flow_tests", "flow"},
	{"eta_tests", "eta"},
	{"sanity_tests", "sanity"},
	{"misc_tests", "misc"},
}

// BuildAnalysis aggregates records. It returns nil when there are none.
func BuildAnalysis(records []classify.Record) *Analysis {
	if len(records) == 0 {
		return nil
	}

	a := &Analysis{
		TotalFailures:         len(records),
		CommandStats:          NewCounter(),
		TagStats:              NewCounter(),
		ErrorPatterns:         NewCounter(),
		PathAnalysis:          NewCounter(),
		CommandTagCorrelation: newCorrelation(),
	}

	for _, r := range records {
		a.CommandStats.Add(r.FailingCommand)
		a.TagStats.Add(r.Tag)
		a.CommandTagCorrelation.add(r.FailingCommand, r.Tag)

		if strings.Contains(r.ErrorMessage, "ERROR") {
			lower := strings.ToLower(r.ErrorMessage)
			for _, p := range errorPatterns {
				if p.match(lower) {
					a.ErrorPatterns.Add(p.key)
				}
			}
		}

		for _, pc := range pathCategories {
			if strings.Contains(r.TestcasePath, pc.marker) {
				a.PathAnalysis.Add(pc.key)
			}
		}
	}

	a.UniqueCommands = a.CommandStats.Len()
	a.UniqueTags = a.TagStats.Len()

	if top := a.CommandStats.MostCommon(1); len(top) > 0 {
		a.MostCommonCommand = &top[0]
	}
	if top := a.TagStats.MostCommon(1); len(top) > 0 {
		a.MostCommonTag = &top[0]
	}

	a.FailureDistribution = distribution(a.CommandStats.Counts())
	return a
}

func distribution(counts []Count) *Distribution {
	if len(counts) == 0 {
		return nil
	}

	values := make([]int, 0, len(counts))
	sum := 0
	d := &Distribution{}
	for _, c := range counts {
		values = append(values, c.Count)
		sum += c.Count
		if c.Count == 1 {
			d.CommandsWithSingleFailure++
		} else {
			d.CommandsWithMultipleFailures++
		}
	}
	slices.Sort(values)

	n := len(values)
	d.MinFailures = values[0]
	d.MaxFailures = values[n-1]
	d.AvgFailures = math.Round(float64(sum)/float64(n)*100) / 100

	if n%2 == 1 {
		d.MedianFailures = float64(values[n/2])
		d.wholeMedian = true
	} else {
		d.MedianFailures = float64(values[n/2-1]+values[n/2]) / 2
	}
	return d
}

// formatFloat renders v in shortest form, always with a decimal point.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
