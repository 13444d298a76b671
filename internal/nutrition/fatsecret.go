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

// fatSecretClient is the concrete FatSecret API client.
type fatSecretClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewFatSecretClient creates a FatSecret API client.
func NewFatSecretClient(baseURL, apiKey string) Provider {
	return &fatSecretClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type fatSecretServing struct {
	MeasurementDescription string  `json:"measurement_description"`
	ServingDescription     string  `json:"serving_description"`
	NumberOfUnits          float64 `json:"number_of_units"`
}

type fatSecretFood struct {
	FoodID   string             `json:"food_id"`
	FoodName string             `json:"food_name"`
	FoodType string             `json:"food_type"`
	Aisle    string             `json:"aisle"`
	Servings []fatSecretServing `json:"servings"`
}

type fatSecretSearchResponse struct {
	Foods []fatSecretFood `json:"foods"`
}

// SearchFoods queries the FatSecret food search endpoint.
func (c *fatSecretClient) SearchFoods(ctx context.Context, query string, limit int) ([]FoodResult, error) {
	endpoint := fmt.Sprintf("%s/foods/search?search_expression=%s&max_results=%s&key=%s",
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
		return nil, fmt.Errorf("fatsecret api error: status %d", resp.StatusCode)
	}

	var searchResp fatSecretSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]FoodResult, 0, len(searchResp.Foods))
	for _, f := range searchResp.Foods {
		result := FoodResult{
			Provider:   ProviderFatSecret,
			ExternalID: f.FoodID,
			Name:       f.FoodName,
			Aisle:      f.Aisle,
			FoodType:   f.FoodType,
		}
		for _, s := range f.Servings {
			result.Servings = append(result.Servings, ServingResult{
				MeasurementDescription: s.MeasurementDescription,
				ServingDescription:     s.ServingDescription,
				NumberOfUnits:          s.NumberOfUnits,
			})
		}
		results = append(results, result)
	}
	return results, nil
}
