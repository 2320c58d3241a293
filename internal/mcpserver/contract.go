package mcpserver

// DiaryFormatContract describes the three-section Markdown diary format
// that LLM consumers should follow when reading or generating diary text.
const DiaryFormatContract = `# Daybook Diary Format Contract

Every diary file stored in Daybook follows this three-section structure.

## Structure

` + "```" + `markdown
## TODO
- [ ] { priority:high, work} open task text
- [x] done task text
## Notes
- [09:30] [[Note Title]]

## Summary
free-form summary text
` + "```" + `

## Rules

1. **Sections appear in order:** TODO, Notes, Summary. Each starts with a
   ` + "`" + `## ` + "`" + ` heading line.
2. **Tasks** live under TODO, one per line, ` + "`" + `- [ ]` + "`" + ` for open and
   ` + "`" + `- [x]` + "`" + ` for done.
3. **Task metadata** is an optional ` + "`" + `{...}` + "`" + ` block right after the
   checkbox: a ` + "`" + `priority:<value>` + "`" + ` entry plus comma-separated tags.
   The task text follows the closing brace.
4. **Note links** live under Notes as ` + "`" + `- [HH:mm] [[Title]]` + "`" + ` lines. They
   point at quick-note files named ` + "`" + `yyyyMMdd_Title_#tag.md` + "`" + `.
5. **Summary** is free-form text; everything after the Summary heading
   belongs to it verbatim.
6. **Dates** are yyyy-MM-dd; one diary file per day.
7. **Encoding** is UTF-8.

## Example

` + "```" + `markdown
## TODO
- [ ] { priority:high, work} finish quarterly report
- [x] book dentist appointment
## Notes
- [14:05] [[Standup Notes]]

## Summary
Productive day. Report nearly done.
` + "```" + `
`
