// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/store"
)

// WeatherFetcher is the optional weather capability exposed as a tool.
type WeatherFetcher interface {
	FetchByCity(ctx context.Context, city string) (*models.WeatherInfo, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherInfo, error)
}

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp     *server.MCPServer
	repo    *journal.Repository
	files   storage.Provider
	gateway WeatherFetcher
}

// New creates a new MCP server with all Raido tools registered.
// gateway may be nil when the weather integration is not configured.
func New(repo *journal.Repository, files storage.Provider, gateway WeatherFetcher) *Server {
	s := &Server{repo: repo, files: files, gateway: gateway}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_hikes",
		mcp.WithDescription("List all hikes in the journal, ordered by date, newest first."),
	), s.listHikes)

	s.mcp.AddTool(mcp.NewTool("search_hikes",
		mcp.WithDescription("Search the hike journal. All parameters are optional; "+
			"omitted ones impose no constraint. Results are ordered by date, newest first."),
		mcp.WithString("name", mcp.Description("Name prefix to match")),
		mcp.WithString("location", mcp.Description("Location substring to match")),
		mcp.WithNumber("min_length", mcp.Description("Minimum length in kilometers, inclusive")),
		mcp.WithNumber("max_length", mcp.Description("Maximum length in kilometers, inclusive")),
		mcp.WithString("start_date", mcp.Description("Earliest date, YYYY-MM-DD inclusive")),
		mcp.WithString("end_date", mcp.Description("Latest date, YYYY-MM-DD inclusive")),
	), s.searchHikes)

	s.mcp.AddTool(mcp.NewTool("get_hike",
		mcp.WithDescription("Read one hike with its observations and media references."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Hike identifier")),
	), s.getHike)

	s.mcp.AddTool(mcp.NewTool("create_hike",
		mcp.WithDescription("Create a new hike journal entry. Name, location, a positive "+
			"length in kilometers, and a difficulty label are required. Read the entry "+
			"contract first via the get_hike_contract tool or the raido://hike-format resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Hike name")),
		mcp.WithString("location", mcp.Required(), mcp.Description("Where the hike is")),
		mcp.WithNumber("length_km", mcp.Required(), mcp.Description("Trail length in kilometers, > 0")),
		mcp.WithString("difficulty", mcp.Required(), mcp.Description("Difficulty label, e.g. easy, moderate, hard")),
		mcp.WithString("date", mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithBoolean("parking", mcp.Description("Whether parking is available")),
		mcp.WithString("description", mcp.Description("Free-text description")),
		mcp.WithString("terrain", mcp.Description("Terrain notes")),
		mcp.WithString("expected_weather", mcp.Description("Expected weather notes")),
	), s.createHike)

	s.mcp.AddTool(mcp.NewTool("delete_hike",
		mcp.WithDescription("Delete a hike together with all of its observations and media."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Hike identifier")),
	), s.deleteHike)

	s.mcp.AddTool(mcp.NewTool("add_observation",
		mcp.WithDescription("Attach a free-text observation to a hike."),
		mcp.WithNumber("hike_id", mcp.Required(), mcp.Description("Owning hike identifier")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Observation text")),
		mcp.WithString("comment", mcp.Description("Optional extra comment")),
	), s.addObservation)

	s.mcp.AddTool(mcp.NewTool("list_observations",
		mcp.WithDescription("List the observations recorded on a hike, newest first."),
		mcp.WithNumber("hike_id", mcp.Required(), mcp.Description("Owning hike identifier")),
	), s.listObservations)

	s.mcp.AddTool(mcp.NewTool("search_observations",
		mcp.WithDescription("Free-text search across all observations."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchObservations)

	s.mcp.AddTool(mcp.NewTool("attach_photo",
		mcp.WithDescription("Attach a photo to a hike. Accepts a base64 data URI or an "+
			"http(s) URL; the image is stored content-addressed and linked to the hike."),
		mcp.WithNumber("hike_id", mcp.Required(), mcp.Description("Owning hike identifier")),
		mcp.WithString("url", mcp.Required(), mcp.Description("data: URI or http(s) URL of the image")),
	), s.attachPhoto)

	s.mcp.AddTool(mcp.NewTool("current_weather",
		mcp.WithDescription("Look up current weather for a place name."),
		mcp.WithString("city", mcp.Required(), mcp.Description("City or place name, at least 2 characters")),
	), s.currentWeather)

	s.mcp.AddTool(mcp.NewTool("get_hike_contract",
		mcp.WithDescription("Returns the canonical hike journal entry contract. "+
			"Call this before creating hikes to ensure correct structure."),
	), s.getHikeContract)

	// Resource: hike entry contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://hike-format", "Hike Entry Contract",
			mcp.WithResourceDescription("Canonical hike journal entry format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readHikeFormatResource,
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

func (s *Server) listHikes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hikes, err := s.repo.SearchHikes(store.Filter{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hikes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchHikes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f store.Filter
	if v, err := req.RequireString("name"); err == nil && v != "" {
		f.Name = &v
	}
	if v, err := req.RequireString("location"); err == nil && v != "" {
		f.Location = &v
	}
	if v, err := req.RequireFloat("min_length"); err == nil {
		f.MinLength = &v
	}
	if v, err := req.RequireFloat("max_length"); err == nil {
		f.MaxLength = &v
	}
	if v, err := req.RequireString("start_date"); err == nil && v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date: %s", v)), nil
		}
		f.StartDate = &t
	}
	if v, err := req.RequireString("end_date"); err == nil && v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %s", v)), nil
		}
		f.EndDate = &t
	}

	hikes, err := s.repo.SearchHikes(f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hikes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hike, err := s.repo.Hike(int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: hike %d", int64(id))), nil
	}
	obs, _ := s.repo.Observations(hike.ID)
	media, _ := s.repo.MediaForHike(hike.ID)

	out, _ := json.MarshalIndent(map[string]any{
		"hike":         hike,
		"observations": obs,
		"media":        media,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	length, err := req.RequireFloat("length_km")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	difficulty, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h := models.Hike{
		Name:       name,
		Location:   location,
		LengthKm:   length,
		Difficulty: difficulty,
	}
	if v, err := req.RequireString("date"); err == nil && v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", v)), nil
		}
		h.Date = &t
	}
	if v, err := req.RequireBool("parking"); err == nil {
		h.Parking = v
	}
	if v, err := req.RequireString("description"); err == nil {
		h.Description = v
	}
	if v, err := req.RequireString("terrain"); err == nil {
		h.Terrain = v
	}
	if v, err := req.RequireString("expected_weather"); err == nil {
		h.ExpectedWeather = v
	}

	if verr := models.ValidateHike(&h); verr != nil {
		return mcp.NewToolResultError(verr.Message), nil
	}

	saved, err := s.repo.SaveHike(h)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: hike %d (%s)", saved.ID, saved.Name)), nil
}

func (s *Server) deleteHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.repo.DeleteHike(int64(id)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: hike %d", int64(id))), nil
}

func (s *Server) addObservation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hikeID, err := req.RequireFloat("hike_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	o := models.Observation{HikeID: int64(hikeID), Text: text}
	if v, err := req.RequireString("comment"); err == nil {
		o.Comment = v
	}
	if verr := models.ValidateObservation(&o); verr != nil {
		return mcp.NewToolResultError(verr.Message), nil
	}
	saved, err := s.repo.AddObservation(o)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: observation %d on hike %d", saved.ID, saved.HikeID)), nil
}

func (s *Server) listObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hikeID, err := req.RequireFloat("hike_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.repo.Hike(int64(hikeID)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: hike %d", int64(hikeID))), nil
	}
	obs, err := s.repo.Observations(int64(hikeID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(obs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.repo.SearchObservations(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) currentWeather(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.gateway == nil {
		return mcp.NewToolResultError("weather integration is not configured"), nil
	}
	city, err := req.RequireString("city")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if verr := models.ValidatePlace(city); verr != nil {
		return mcp.NewToolResultError(verr.Message), nil
	}
	info, err := s.gateway.FetchByCity(ctx, city)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getHikeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(HikeFormatContract), nil
}

func (s *Server) readHikeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://hike-format",
			MIMEType: "text/markdown",
			Text:     HikeFormatContract,
		},
	}, nil
}
