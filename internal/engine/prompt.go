package engine

import "fmt"

// DefaultDailySystemPrompt is used when no system prompt is configured.
const DefaultDailySystemPrompt = `You are a rigorous technical writing assistant.
Turn rough notes into ONE structured daily report in Markdown with a YAML frontmatter block.

Output requirements:
1) Start with a YAML frontmatter block exactly like this:
---
title: "Short Summary Title"
slug: "short-summary-title"
tags: ["tag1", "tag2"]
status: "completed"
---

2) Follow with the report content using this exact section order:
   - ## What I Did Today
   - ## Problems / Blockers
   - ## Root Cause
   - ## Attempts & Fixes
   - ## Key Learnings
   - ## Metrics
   - ## Next Steps (Tomorrow)

3) Keep it concise and factual.
4) The 'slug' in frontmatter should be a URL-friendly version of the title (lowercase, dashes only).
5) If information is missing, write "N/A" for that bullet.
6) Return only final answer. Do not include reasoning or thinking process.
`

// dailyUserPrompt frames the raw notes for the model.
func dailyUserPrompt(req *Request) string {
	return fmt.Sprintf(`Date: %s
Source: %s:%s

Raw notes:
%s

Please generate a structured daily report in Markdown.
At the very top, include two single-line fields:
Title: <short, specific title>
Tags: <comma-separated, 2-6 tags>
Add a title line after that: '# Daily Report - %s'.
Use the required section order exactly.
Use bullet lists in each section.
`, req.Date, req.SourceType, req.SourceID, req.RawNotes, req.Date)
}
