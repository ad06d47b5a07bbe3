// Package report renders license records and checks them against a deny
// list.
//
// Output formats are json (an array of {Name, Meta, Classifier} objects),
// csv (header row, every value quoted) and table. Table style names from
// tabulate (github, grid, plain, ...) select a border layout.
//
// [Check] cleans each record's license strings and asks a [Matcher] for
// close deny-list entries:
//
//	violations := report.Check(records, []string{"gpl", "agpl"}, report.SimilarityMatcher{Cutoff: 0.6})
//	if report.Banned(violations) {
//	    os.Exit(1)
//	}
package report
