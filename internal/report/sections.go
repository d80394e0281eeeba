package report

import (
	"fmt"
	"strings"
)

// DailySections is the required section order for daily reports.
var DailySections = []string{
	"## What I Did Today",
	"## Problems / Blockers",
	"## Root Cause",
	"## Attempts & Fixes",
	"## Key Learnings",
	"## Metrics",
	"## Next Steps (Tomorrow)",
}

// WeeklySections is the required section order for weekly summaries.
var WeeklySections = []string{
	"## Weekly Highlights",
	"## Progress by Area",
	"## Problems / Blockers",
	"## Risks",
	"## Key Learnings",
	"## Next Week Plan",
	"## Metrics",
}

// EnsureSections returns text unchanged when every required section is
// present; otherwise it wraps the output into the standard skeleton with
// the raw model output preserved in an appendix.
func EnsureSections(text, titleLine string, required []string) string {
	complete := true
	for _, sec := range required {
		if !strings.Contains(text, sec) {
			complete = false
			break
		}
	}
	if complete {
		return text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleLine)
	for _, sec := range required {
		// Next steps render as an open task so the placeholder is
		// actionable; every other section gets a plain bullet.
		if sec == "## Next Steps (Tomorrow)" {
			fmt.Fprintf(&b, "%s\n- [ ] N/A\n\n", sec)
		} else {
			fmt.Fprintf(&b, "%s\n- N/A\n\n", sec)
		}
	}
	b.WriteString("---\n\n### Raw Model Output\n")
	b.WriteString(text)
	return b.String()
}
