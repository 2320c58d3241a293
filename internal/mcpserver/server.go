// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Daybook journal tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/daybook/internal/diary"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/storage"
)

const dateLayout = "2006-01-02"

// Server wraps the MCP server with Daybook tools. All tools operate on
// a single configured user: the stdio transport serves one person.
type Server struct {
	mcp   *server.MCPServer
	svc   *journal.Service
	store storage.Provider
	user  string
}

// New creates a new MCP server with all Daybook tools registered.
func New(svc *journal.Service, store storage.Provider, user string) *Server {
	s := &Server{svc: svc, store: store, user: user}

	s.mcp = server.NewMCPServer(
		"Daybook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_diary",
		mcp.WithDescription("Read the parsed diary (tasks, note links, summary) for a date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Diary date in yyyy-MM-dd form")),
	), s.readDiary)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Append a task to the diary of a date. Only the TODO section is rewritten."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Diary date in yyyy-MM-dd form")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task text")),
		mcp.WithString("priority", mcp.Description("Optional priority, e.g. high/medium/low")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark the task at a zero-based index as done for a date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Diary date in yyyy-MM-dd form")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based task index")),
	), s.completeTask)

	s.mcp.AddTool(mcp.NewTool("month_overview",
		mcp.WithDescription("List which days of a month have a diary and which still have open to-dos."),
		mcp.WithNumber("year", mcp.Required(), mcp.Description("Calendar year")),
		mcp.WithNumber("month", mcp.Required(), mcp.Description("Calendar month, 1-12")),
	), s.monthOverview)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the stored quick-notes (filename is the primary key)."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a quick-note."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Quick-note filename, e.g. 20240101_Trip_#travel.md")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_diary_contract",
		mcp.WithDescription("Returns the three-section diary format contract. "+
			"Call this before generating diary text to ensure correct structure."),
	), s.getDiaryContract)

	// Resource: the diary file format contract.
	s.mcp.AddResource(
		mcp.NewResource("daybook://diary-format", "Diary Format Contract",
			mcp.WithResourceDescription("The three-section Markdown format every diary file follows."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDiaryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func parseDate(req mcp.CallToolRequest) (time.Time, error) {
	raw, err := req.RequireString("date")
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want yyyy-MM-dd", raw)
	}
	return d, nil
}

func (s *Server) readDiary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := parseDate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc := s.svc.Load(s.user, date)
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := parseDate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	priority := req.GetString("priority", "")

	doc := s.svc.Load(s.user, date)
	doc.AddTask(diary.Task{Text: text, Priority: priority})
	if err := s.svc.SaveTasks(s.user, date, doc.Tasks); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added task %d to %s", len(doc.Tasks)-1, date.Format(dateLayout))), nil
}

func (s *Server) completeTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := parseDate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc := s.svc.Load(s.user, date)
	if err := doc.SetTaskDone(index, true); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SaveTasks(s.user, date, doc.Tasks); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("completed task %d on %s", index, date.Format(dateLayout))), nil
}

func (s *Server) monthOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year, err := req.RequireInt("year")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	month, err := req.RequireInt("month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if month < 1 || month > 12 {
		return mcp.NewToolResultError("month must be 1-12"), nil
	}

	dates, err := s.svc.DatesWithDiary(s.user, year, time.Month(month))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	open, err := s.svc.DatesWithOpenTodos(s.user, year, time.Month(month))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string][]string{"dates": {}, "open_todos": {}}
	for _, d := range dates {
		payload["dates"] = append(payload["dates"], d.Format(dateLayout))
	}
	for _, d := range open {
		payload["open_todos"] = append(payload["open_todos"], d.Format(dateLayout))
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.ListNotes(s.user)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(names, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.store.LoadNote(s.user, filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", filename)), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) getDiaryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DiaryFormatContract), nil
}

func (s *Server) readDiaryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "daybook://diary-format",
			MIMEType: "text/markdown",
			Text:     DiaryFormatContract,
		},
	}, nil
}
