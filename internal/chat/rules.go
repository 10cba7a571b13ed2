package chat

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaimeStill/regtriage/internal/classify"
)

// NotUnderstood is returned when no rule can answer a query.
const NotUnderstood = "I'm not sure how to answer that. Try asking about total failures, most common commands/tags, error patterns, or type 'help' for more options."

// NoData is returned when no analysis has produced records yet.
const NoData = "No data available for analysis."

// HelpText lists example questions.
const HelpText = "You can ask me things like:\n" +
	"• How many testcase failures are there?\n" +
	"• Which command fails most often?\n" +
	"• What are the most common error tags?\n" +
	"• Show error patterns in failures\n" +
	"• Which testcase categories have most failures?\n" +
	"• Show failure statistics\n" +
	"• What should I fix first?\n" +
	"Or just enter an error tag (like TTM-004) to get help for that error."

const exportText = "💾 Export Options:\n• Use the export button in the main table\n• Data can be exported as CSV\n• Chatbot analysis can be copied from responses"

// Rule answers queries that its predicate accepts. Answer reports false
// when the rule matched but has nothing to say.
type Rule struct {
	Name   string
	Match  func(query string) bool
	Answer func(query string, a *Analysis, records []classify.Record) (string, bool)
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// label turns a snake_case key into a title. Casers are stateful, so each
// call gets its own.
func label(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

// Rules is the ordered rule table. The first matching rule answers.
var Rules = []Rule{
	{
		Name:  "totals",
		Match: func(q string) bool { return containsAny(q, "total", "count", "how many") },
		Answer: func(q string, a *Analysis, _ []classify.Record) (string, bool) {
			switch {
			case containsAny(q, "failure", "testcase"):
				return fmt.Sprintf("📊 Total testcase failures: %d", a.TotalFailures), true
			case strings.Contains(q, "command"):
				return fmt.Sprintf("📊 Total unique failing commands: %d", a.UniqueCommands), true
			case containsAny(q, "tag", "error"):
				return fmt.Sprintf("📊 Total unique error tags: %d", a.UniqueTags), true
			}
			return "", false
		},
	},
	{
		Name:  "most_common",
		Match: func(q string) bool { return containsAny(q, "most common", "frequent", "fails most often") },
		Answer: func(q string, a *Analysis, _ []classify.Record) (string, bool) {
			switch {
			case strings.Contains(q, "command") && a.MostCommonCommand != nil:
				c := a.MostCommonCommand
				return fmt.Sprintf("🔍 Most common failing command: '%s' with %d failures", c.Key, c.Count), true
			case strings.Contains(q, "tag") && a.MostCommonTag != nil:
				t := a.MostCommonTag
				return fmt.Sprintf("🔍 Most common error tag: '%s' with %d occurrences", t.Key, t.Count), true
			}
			return "", false
		},
	},
	{
		Name:  "list_commands",
		Match: func(q string) bool { return strings.Contains(q, "command") && strings.Contains(q, "list") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			var b strings.Builder
			b.WriteString("📋 Top 5 failing commands:\n")
			for i, c := range a.CommandStats.MostCommon(5) {
				fmt.Fprintf(&b, "%d. %s: %d failures\n", i+1, c.Key, c.Count)
			}
			return b.String(), true
		},
	},
	{
		Name: "list_tags",
		Match: func(q string) bool {
			return (strings.Contains(q, "tag") && strings.Contains(q, "list")) ||
				strings.Contains(q, "most common error tags")
		},
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			var b strings.Builder
			b.WriteString("🏷️ Top 5 error tags:\n")
			for i, t := range a.TagStats.MostCommon(5) {
				fmt.Fprintf(&b, "%d. %s: %d occurrences\n", i+1, t.Key, t.Count)
			}
			return b.String(), true
		},
	},
	{
		Name:  "patterns",
		Match: func(q string) bool { return containsAny(q, "pattern", "type") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			if a.ErrorPatterns.Len() == 0 {
				return "No common error patterns identified.", true
			}
			var b strings.Builder
			b.WriteString("🔍 Common error patterns:\n")
			for _, p := range a.ErrorPatterns.Counts() {
				fmt.Fprintf(&b, "• %s: %d cases\n", label(p.Key), p.Count)
			}
			return b.String(), true
		},
	},
	{
		Name:  "categories",
		Match: func(q string) bool { return containsAny(q, "category", "categories", "path") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			if a.PathAnalysis.Len() == 0 {
				return "No path analysis available.", true
			}
			var b strings.Builder
			b.WriteString("📁 Testcase categories:\n")
			for _, p := range a.PathAnalysis.Counts() {
				fmt.Fprintf(&b, "• %s: %d cases\n", label(p.Key), p.Count)
			}
			return b.String(), true
		},
	},
	{
		Name:  "specific",
		Match: func(q string) bool { return containsAny(q, "specific", "find", "failures for") },
		Answer: func(q string, a *Analysis, records []classify.Record) (string, bool) {
			for _, r := range records {
				if strings.Contains(q, strings.ToLower(r.FailingCommand)) {
					return fmt.Sprintf("🔍 Command '%s' has %d failures", r.FailingCommand, a.CommandStats.Get(r.FailingCommand)), true
				}
				if strings.Contains(q, strings.ToLower(r.Tag)) {
					return fmt.Sprintf("🔍 Tag '%s' has %d occurrences", r.Tag, a.TagStats.Get(r.Tag)), true
				}
			}
			return "", false
		},
	},
	{
		Name:  "help",
		Match: func(q string) bool { return containsAny(q, "help", "what can") },
		Answer: func(string, *Analysis, []classify.Record) (string, bool) {
			return HelpText, true
		},
	},
	{
		Name:   "statistics",
		Match:  func(q string) bool { return containsAny(q, "statistics", "stats") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) { return statistics(a), true },
	},
	{
		Name:  "distribution",
		Match: func(q string) bool { return strings.Contains(q, "distribution") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			d := a.FailureDistribution
			if d == nil {
				return "No distribution data available.", true
			}
			return fmt.Sprintf("📈 Failure Distribution Analysis:\n"+
				"• Minimum failures per command: %d\n"+
				"• Maximum failures per command: %d\n"+
				"• Average failures per command: %s\n"+
				"• Median failures per command: %s\n"+
				"• Commands with single failure: %d\n"+
				"• Commands with multiple failures: %d",
				d.MinFailures, d.MaxFailures, d.Average(), d.Median(),
				d.CommandsWithSingleFailure, d.CommandsWithMultipleFailures), true
		},
	},
	{
		Name:  "correlation",
		Match: func(q string) bool { return containsAny(q, "correlation", "command tag") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			corr := a.CommandTagCorrelation
			if corr == nil || corr.Len() == 0 {
				return "No correlation data available.", true
			}
			var b strings.Builder
			b.WriteString("🔗 Command-Tag Correlations:\n")
			cmds := corr.Commands()
			for _, cmd := range cmds[:min(len(cmds), 5)] {
				fmt.Fprintf(&b, "• %s:\n", cmd)
				for _, t := range corr.Tags(cmd).MostCommon(3) {
					fmt.Fprintf(&b, "  - %s: %d times\n", t.Key, t.Count)
				}
			}
			return b.String(), true
		},
	},
	{
		Name:  "export",
		Match: func(q string) bool { return containsAny(q, "export", "download") },
		Answer: func(string, *Analysis, []classify.Record) (string, bool) {
			return exportText, true
		},
	},
	{
		Name:  "recommend",
		Match: func(q string) bool { return containsAny(q, "recommend", "suggestion", "priority", "fix first") },
		Answer: func(_ string, a *Analysis, _ []classify.Record) (string, bool) {
			if a.MostCommonCommand == nil || a.MostCommonTag == nil {
				return "No recommendations available without data analysis.", true
			}
			return fmt.Sprintf("🎯 Priority Recommendations:\n"+
				"• Focus on command '%s' (most failures: %d)\n"+
				"• Address error tag '%s' (most occurrences: %d)\n"+
				"• Check for common error patterns in the data\n"+
				"• Review testcase categories with highest failure rates",
				a.MostCommonCommand.Key, a.MostCommonCommand.Count,
				a.MostCommonTag.Key, a.MostCommonTag.Count), true
		},
	},
}

func statistics(a *Analysis) string {
	cmdName, cmdCount := "N/A", 0
	if c := a.MostCommonCommand; c != nil {
		cmdName, cmdCount = c.Key, c.Count
	}
	tagName, tagCount := "N/A", 0
	if t := a.MostCommonTag; t != nil {
		tagName, tagCount = t.Key, t.Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Testcase Failure Statistics:\n"+
		"• Total failures: %d\n"+
		"• Unique commands: %d\n"+
		"• Unique error tags: %d\n"+
		"• Most common command: %s (%d failures)\n"+
		"• Most common tag: %s (%d occurrences)",
		a.TotalFailures, a.UniqueCommands, a.UniqueTags,
		cmdName, cmdCount, tagName, tagCount)

	if d := a.FailureDistribution; d != nil {
		fmt.Fprintf(&b, "\n📈 Failure Distribution:\n"+
			"• Min failures per command: %d\n"+
			"• Max failures per command: %d\n"+
			"• Average failures per command: %s\n"+
			"• Median failures per command: %s\n"+
			"• Commands with single failure: %d\n"+
			"• Commands with multiple failures: %d",
			d.MinFailures, d.MaxFailures, d.Average(), d.Median(),
			d.CommandsWithSingleFailure, d.CommandsWithMultipleFailures)
	}
	return b.String()
}
