package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// spoonacularClient is the concrete Spoonacular API client.
type spoonacularClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewSpoonacularClient creates a Spoonacular API client.
func NewSpoonacularClient(baseURL, apiKey string) Provider {
	return &spoonacularClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type spoonacularServing struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Units       float64 `json:"units"`
}

type spoonacularFood struct {
	ID       int64                `json:"id"`
	Name     string               `json:"name"`
	Aisle    string               `json:"aisle"`
	Brand    string               `json:"brand"`
	Servings []spoonacularServing `json:"servings"`
}

type spoonacularSearchResponse struct {
	Results []spoonacularFood `json:"results"`
}

// SearchFoods queries the Spoonacular ingredient search endpoint.
func (c *spoonacularClient) SearchFoods(ctx context.Context, query string, limit int) ([]FoodResult, error) {
	endpoint := fmt.Sprintf("%s/food/ingredients/search?query=%s&number=%s&apiKey=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(limit), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spoonacular api error: status %d", resp.StatusCode)
	}

	var searchResp spoonacularSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]FoodResult, 0, len(searchResp.Results))
	for _, f := range searchResp.Results {
		foodType := ""
		if f.Brand != "" {
			foodType = "Brand"
		}
		result := FoodResult{
			Provider:   ProviderSpoonacular,
			ExternalID: strconv.FormatInt(f.ID, 10),
			Name:       f.Name,
			Aisle:      f.Aisle,
			FoodType:   foodType,
		}
		for _, s := range f.Servings {
			result.Servings = append(result.Servings, ServingResult{
				ExternalID:         strconv.FormatInt(s.ID, 10),
				ServingDescription: s.Description,
				NumberOfUnits:      s.Units,
			})
		}
		results = append(results, result)
	}
	return results, nil
}
