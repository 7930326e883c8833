package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/store"
)

func testServer(t *testing.T) (*Server, *journal.Repository) {
	t.Helper()

	mediaDir := t.TempDir()
	files, err := storage.NewFS(mediaDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "raido-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	repo := journal.NewRepository(db, nil)
	srv := New(repo, files, nil)
	return srv, repo
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_hikes":
		result, err = srv.listHikes(ctx, req)
	case "search_hikes":
		result, err = srv.searchHikes(ctx, req)
	case "get_hike":
		result, err = srv.getHike(ctx, req)
	case "create_hike":
		result, err = srv.createHike(ctx, req)
	case "delete_hike":
		result, err = srv.deleteHike(ctx, req)
	case "add_observation":
		result, err = srv.addObservation(ctx, req)
	case "list_observations":
		result, err = srv.listObservations(ctx, req)
	case "search_observations":
		result, err = srv.searchObservations(ctx, req)
	case "attach_photo":
		result, err = srv.attachPhoto(ctx, req)
	case "current_weather":
		result, err = srv.currentWeather(ctx, req)
	case "get_hike_contract":
		result, err = srv.getHikeContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndGetHike(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_hike", map[string]interface{}{
		"name":       "Doi Inthanon Summit Loop",
		"location":   "Chiang Mai, Thailand",
		"length_km":  8.4,
		"difficulty": "moderate",
		"date":       "2025-01-12",
	})
	text := resultText(r)
	if r.IsError || !strings.HasPrefix(text, "created: hike ") {
		t.Fatalf("create result = %q", text)
	}

	r = callTool(t, srv, "get_hike", map[string]interface{}{"id": float64(1)})
	if r.IsError {
		t.Fatalf("get_hike error: %q", resultText(r))
	}
	var payload struct {
		Hike models.Hike `json:"hike"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Hike.Name != "Doi Inthanon Summit Loop" {
		t.Errorf("name = %q", payload.Hike.Name)
	}
}

func TestCreateHikeValidation(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_hike", map[string]interface{}{
		"name":       "X",
		"location":   "Y",
		"length_km":  float64(0),
		"difficulty": "easy",
	})
	if !r.IsError {
		t.Fatal("expected validation error for zero length")
	}
	if resultText(r) != "Length must be greater than zero" {
		t.Errorf("message = %q", resultText(r))
	}
}

func TestSearchHikes(t *testing.T) {
	srv, repo := testServer(t)
	seed := []models.Hike{
		{Name: "Doi Suthep Monk's Trail", Location: "Chiang Mai", LengthKm: 4.2, Difficulty: "easy"},
		{Name: "Besseggen Ridge", Location: "Jotunheimen", LengthKm: 14.0, Difficulty: "hard"},
	}
	for _, h := range seed {
		if _, err := repo.SaveHike(h); err != nil {
			t.Fatal(err)
		}
	}

	r := callTool(t, srv, "search_hikes", map[string]interface{}{"name": "Doi"})
	var hikes []models.Hike
	if err := json.Unmarshal([]byte(resultText(r)), &hikes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(hikes) != 1 || hikes[0].Name != "Doi Suthep Monk's Trail" {
		t.Errorf("search results: %+v", hikes)
	}

	r = callTool(t, srv, "list_hikes", map[string]interface{}{})
	_ = json.Unmarshal([]byte(resultText(r)), &hikes)
	if len(hikes) != 2 {
		t.Errorf("list returned %d hikes, want 2", len(hikes))
	}
}

func TestDeleteHike(t *testing.T) {
	srv, repo := testServer(t)
	h, err := repo.SaveHike(models.Hike{Name: "Gone", Location: "L", LengthKm: 1, Difficulty: "easy"})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "delete_hike", map[string]interface{}{"id": float64(h.ID)})
	if r.IsError {
		t.Fatalf("delete error: %q", resultText(r))
	}

	r = callTool(t, srv, "get_hike", map[string]interface{}{"id": float64(h.ID)})
	if !r.IsError {
		t.Error("expected error for deleted hike")
	}
}

func TestAddAndSearchObservations(t *testing.T) {
	srv, repo := testServer(t)
	h, _ := repo.SaveHike(models.Hike{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	r := callTool(t, srv, "add_observation", map[string]interface{}{
		"hike_id": float64(h.ID),
		"text":    "gibbons at dawn",
	})
	if r.IsError {
		t.Fatalf("add_observation error: %q", resultText(r))
	}

	r = callTool(t, srv, "search_observations", map[string]interface{}{"query": "gibbons"})
	var obs []models.Observation
	if err := json.Unmarshal([]byte(resultText(r)), &obs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(obs) != 1 {
		t.Errorf("search returned %d observations, want 1", len(obs))
	}

	r = callTool(t, srv, "list_observations", map[string]interface{}{"hike_id": float64(h.ID)})
	obs = nil
	if err := json.Unmarshal([]byte(resultText(r)), &obs); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(obs) != 1 || obs[0].Text != "gibbons at dawn" {
		t.Errorf("list returned %+v", obs)
	}

	r = callTool(t, srv, "list_observations", map[string]interface{}{"hike_id": float64(404)})
	if !r.IsError {
		t.Error("list_observations on a missing hike should error")
	}
}

func TestAttachPhotoFromDataURI(t *testing.T) {
	srv, repo := testServer(t)
	h, _ := repo.SaveHike(models.Hike{Name: "H", Location: "L", LengthKm: 1, Difficulty: "easy"})

	// Minimal valid PNG header so content sniffing agrees with the MIME type.
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	r := callTool(t, srv, "attach_photo", map[string]interface{}{
		"hike_id": float64(h.ID),
		"url":     uri,
	})
	if r.IsError {
		t.Fatalf("attach_photo error: %q", resultText(r))
	}
	var res attachResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.HasSuffix(res.URI, ".png") {
		t.Errorf("stored name = %q", res.URI)
	}

	media, _ := repo.MediaForHike(h.ID)
	if len(media) != 1 || media[0].URI != res.URI {
		t.Errorf("media rows: %+v", media)
	}
}

func TestAttachPhotoMissingHike(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "attach_photo", map[string]interface{}{
		"hike_id": float64(999),
		"url":     "data:image/png;base64,aGk=",
	})
	if !r.IsError {
		t.Error("expected error for missing hike")
	}
}

func TestCurrentWeatherUnconfigured(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "current_weather", map[string]interface{}{"city": "Oslo"})
	if !r.IsError {
		t.Error("expected error when weather is not configured")
	}
}

func TestHikeContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_hike_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "length_km") || !strings.Contains(text, "YYYY-MM-DD") {
		t.Errorf("contract missing expected fields: %q", text)
	}
}
