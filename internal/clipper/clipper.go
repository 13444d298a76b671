// Package clipper imports recipes from arbitrary web pages. It strips the
// page down to its text, asks the LLM for a structured extraction, and
// persists the result as a regular recipe.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantrypilot/internal/catalog"
	"pantrypilot/internal/llm"
	"pantrypilot/internal/recipe"

	"github.com/PuerkitoBio/goquery"
)

// Clipper fetches a URL and turns its recipe into a stored recipe.
type Clipper struct {
	recipes *recipe.Repository
	foods   *catalog.Repository
	textGen llm.TextGenerator
	client  *http.Client
}

// ExtractedIngredient is one ingredient line as structured by the AI.
type ExtractedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ExtractedRecipe represents the data structured by the AI.
type ExtractedRecipe struct {
	Title       string                `json:"title"`
	Servings    string                `json:"servings"`
	Ingredients []ExtractedIngredient `json:"ingredients"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(recipes *recipe.Repository, foods *catalog.Repository, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		recipes: recipes,
		foods:   foods,
		textGen: textGen,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the recipe using AI, and saves it for
// the user. The returned recipe has its ids populated.
func (c *Clipper) ClipURL(ctx context.Context, url, userID string) (*recipe.Recipe, error) {
	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "servings": "4",
  "ingredients": [
    {"name": "onion", "quantity": 2, "unit": "whole"},
    {"name": "olive oil", "quantity": 1.5, "unit": "tbsp"}
  ]
}
Use plain ingredient names without quantities baked in. Quantity 0 means unknown.

Page Content:
%s
`, content)

	llmResponse, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(llmResponse)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}
	if extracted.Title == "" {
		return nil, fmt.Errorf("no recipe found at %s", url)
	}

	rec := &recipe.Recipe{
		UserID: userID,
		Name:   extracted.Title,
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(extracted.Servings), 64); err == nil && n > 0 {
		rec.NumberOfServings = &n
	}

	for i, ing := range extracted.Ingredients {
		foodID, err := c.resolveFood(ctx, ing.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ingredient %q: %w", ing.Name, err)
		}
		line := recipe.Ingredient{FoodID: foodID, Position: i}
		if ing.Quantity > 0 {
			qty := ing.Quantity
			line.NumberOfServings = &qty
		}
		rec.Ingredients = append(rec.Ingredients, line)
	}

	id, err := c.recipes.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return c.recipes.Get(ctx, id)
}

// resolveFood reuses an existing catalog food with the same name, creating
// a provider-less one otherwise.
func (c *Clipper) resolveFood(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	matches, err := c.foods.SearchFoods(ctx, name, 5)
	if err != nil {
		return 0, err
	}
	for _, f := range matches {
		if strings.EqualFold(f.Name, name) {
			return f.ID, nil
		}
	}
	return c.foods.CreateFood(ctx, &catalog.Food{Name: name})
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

// stripCodeFence unwraps ```json blocks some models insist on emitting.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
