// Package cms matches extracted facilities against the CMS provider
// registry to pull certification numbers, star ratings and watch-list
// status.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Match is the best registry candidate for an extracted facility.
type Match struct {
	CCN          string  `json:"ccn"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Beds         int     `json:"beds"`
	Rating       int     `json:"rating"`
	SpecialFocus bool    `json:"special_focus"`
	Confidence   float64 `json:"confidence"`
}

// Matcher is the external-registry lookup contract consumed by the
// Assemble phase. A nil result with nil error means no plausible match.
type Matcher interface {
	Match(ctx context.Context, name, city, state string, beds int) (*Match, error)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

var _ Matcher = &Client{}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type providerRecord struct {
	CCN          string `json:"federal_provider_number"`
	Name         string `json:"provider_name"`
	City         string `json:"provider_city"`
	State        string `json:"provider_state"`
	Beds         int    `json:"number_of_certified_beds"`
	Rating       int    `json:"overall_rating"`
	SpecialFocus string `json:"special_focus_status"`
}

func (c *Client) Match(ctx context.Context, name, city, state string, beds int) (*Match, error) {
	q := url.Values{}
	q.Set("provider_name", name)
	if state != "" {
		q.Set("provider_state", state)
	}

	endpoint := fmt.Sprintf("%s/providers?%s", c.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("cms registry returned %d: %s", resp.StatusCode, string(body))
	}

	var records []providerRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode cms response: %w", err)
	}

	best, score := pickBest(records, name, city, beds)
	if best == nil {
		return nil, nil
	}

	return &Match{
		CCN:          best.CCN,
		Name:         best.Name,
		City:         best.City,
		State:        best.State,
		Beds:         best.Beds,
		Rating:       best.Rating,
		SpecialFocus: strings.EqualFold(best.SpecialFocus, "SFF") || strings.EqualFold(best.SpecialFocus, "SFF Candidate"),
		Confidence:   score,
	}, nil
}

// pickBest scores candidates on name token overlap, city equality and bed
// count proximity. Below 0.5 nothing is returned; a wrong match is worse
// than no match.
func pickBest(records []providerRecord, name, city string, beds int) (*providerRecord, float64) {
	var best *providerRecord
	bestScore := 0.0

	for i := range records {
		r := &records[i]
		score := nameSimilarity(name, r.Name) * 0.7

		if city != "" && strings.EqualFold(city, r.City) {
			score += 0.2
		}
		if beds > 0 && r.Beds > 0 {
			diff := float64(beds - r.Beds)
			if diff < 0 {
				diff = -diff
			}
			if diff/float64(beds) < 0.1 {
				score += 0.1
			}
		}

		if score > bestScore {
			best = r
			bestScore = score
		}
	}

	if bestScore < 0.5 {
		return nil, 0
	}
	return best, bestScore
}

func nameSimilarity(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	hits := 0
	for _, t := range tb {
		if set[t] {
			hits++
		}
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(hits) / float64(denom)
}

func tokens(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
