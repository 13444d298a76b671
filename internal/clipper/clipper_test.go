package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/database"
	"pantrypilot/internal/recipe"
)

// --- Mocks ---

type MockTextGenerator struct {
	Response    string
	ShouldError bool
	LastPrompt  string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return "", fmt.Errorf("mock ai error")
	}
	return m.Response, nil
}

func newTestClipper(t *testing.T, ai *MockTextGenerator) (*Clipper, *recipe.Repository, *catalog.Repository) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	recipes := recipe.NewRepository(db.SQL)
	foods := catalog.NewRepository(db.SQL)
	return NewClipper(recipes, foods, ai), recipes, foods
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	c, _, _ := newTestClipper(t, &MockTextGenerator{})

	cleanText, err := c.fetchAndCleanHTML(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("Failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("Failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("Failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Tasty Recipe") {
		t.Error("Expected to find 'Tasty Recipe'")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("Expected to find body content")
	}
}

func TestStripCodeFence(t *testing.T) {
	want := `{"a":1}`
	inputs := []string{
		`{"a":1}`,
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"  ```json\n{\"a\":1}\n```\n  ",
	}
	for _, in := range inputs {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClipURL_Success(t *testing.T) {
	aiResponse := `{"title": "Mock Pie", "servings": "8", "ingredients": [
		{"name": "apple", "quantity": 4, "unit": "whole"},
		{"name": "secret spice", "quantity": 0, "unit": ""}
	]}`

	mockAI := &MockTextGenerator{Response: aiResponse}
	c, recipes, foods := newTestClipper(t, mockAI)
	ctx := context.Background()

	// Reuse an existing catalog food to prove clipping doesn't duplicate it.
	appleID, err := foods.CreateFood(ctx, &catalog.Food{Name: "Apple"})
	if err != nil {
		t.Fatalf("CreateFood: %v", err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Some Content</body></html>"))
	}))
	defer ts.Close()

	rec, err := c.ClipURL(ctx, ts.URL, "user-1")
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if rec.Name != "Mock Pie" {
		t.Errorf("Expected title 'Mock Pie', got '%s'", rec.Name)
	}
	if rec.NumberOfServings == nil || *rec.NumberOfServings != 8 {
		t.Errorf("Expected 8 servings, got %v", rec.NumberOfServings)
	}
	if len(rec.Ingredients) != 2 {
		t.Fatalf("Expected 2 ingredients, got %d", len(rec.Ingredients))
	}
	if rec.Ingredients[0].FoodID != appleID {
		t.Errorf("Expected apple to reuse existing food %d, got %d", appleID, rec.Ingredients[0].FoodID)
	}
	if rec.Ingredients[0].NumberOfServings == nil || *rec.Ingredients[0].NumberOfServings != 4 {
		t.Errorf("Expected quantity 4, got %v", rec.Ingredients[0].NumberOfServings)
	}
	if rec.Ingredients[1].NumberOfServings != nil {
		t.Errorf("Expected unknown quantity to stay nil, got %v", *rec.Ingredients[1].NumberOfServings)
	}

	spice, err := foods.SearchFoods(ctx, "secret spice", 5)
	if err != nil {
		t.Fatalf("SearchFoods: %v", err)
	}
	if len(spice) != 1 {
		t.Errorf("Expected new catalog food for unknown ingredient, got %d hits", len(spice))
	}

	stored, err := recipes.Get(ctx, rec.ID)
	if err != nil || stored == nil {
		t.Fatalf("Get after clip: %v, %v", stored, err)
	}
	if !strings.Contains(mockAI.LastPrompt, "Some Content") {
		t.Error("Expected page text in the extraction prompt")
	}
}

func TestClipURL_BadAIResponse(t *testing.T) {
	mockAI := &MockTextGenerator{Response: "sorry, no recipe here"}
	c, _, _ := newTestClipper(t, mockAI)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Nothing</body></html>"))
	}))
	defer ts.Close()

	if _, err := c.ClipURL(context.Background(), ts.URL, "user-1"); err == nil {
		t.Fatal("Expected error for unparsable AI response")
	}
}
