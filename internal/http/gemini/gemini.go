package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/klokal/databuilder/internal/model"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient handles communication with the Generative Language API.
type GeminiClient struct {
	APIKey string // IMPORTANT: Handle your API Key securely! Load from environment variable.
	Model  string
	Client *http.Client
}

// NewGeminiClient creates a new Gemini client instance
func NewGeminiClient(apiKey, geminiModel string) *GeminiClient {
	if apiKey == "" {
		log.Println("Warning: Gemini API Key is empty.")
	}
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}
	return &GeminiClient{
		APIKey: apiKey,
		Model:  geminiModel,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// --- Request/response structures for generateContent ---

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// draftSchema constrains the structured draft response to the subset of spot
// fields the generator may fill.
var draftSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "place_name": {"type": "STRING"},
    "address": {"type": "STRING", "nullable": true},
    "region": {"type": "STRING", "nullable": true},
    "location": {
      "type": "OBJECT",
      "properties": {
        "latitude": {"type": "NUMBER"},
        "longitude": {"type": "NUMBER"}
      },
      "nullable": true
    },
    "average_duration_minutes": {"type": "NUMBER", "nullable": true},
    "public_info": {
      "type": "OBJECT",
      "properties": {
        "operating_hours": {"type": "STRING", "nullable": true},
        "phone_number": {"type": "STRING", "nullable": true},
        "website_url": {"type": "STRING", "nullable": true},
        "closed_days": {"type": "ARRAY", "items": {"type": "STRING"}, "nullable": true}
      },
      "nullable": true
    },
    "tags": {"type": "ARRAY", "items": {"type": "STRING"}, "nullable": true},
    "attributes": {
      "type": "OBJECT",
      "properties": {
        "targetAudience": {"type": "ARRAY", "items": {"type": "STRING"}},
        "recommendedSeasons": {"type": "ARRAY", "items": {"type": "STRING"}},
        "withKids": {"type": "STRING"},
        "withPets": {"type": "STRING"},
        "parkingDifficulty": {"type": "STRING"},
        "admissionFee": {"type": "STRING"},
        "recommended_time_of_day": {"type": "ARRAY", "items": {"type": "STRING"}, "nullable": true}
      }
    },
    "category_specific_info": {
      "type": "OBJECT",
      "properties": {
        "signatureMenu": {"type": "STRING", "nullable": true},
        "priceRange": {"type": "STRING", "nullable": true},
        "difficulty": {"type": "STRING", "nullable": true}
      },
      "nullable": true
    },
    "expert_tip_final": {"type": "STRING"},
    "comments": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "type": {"type": "STRING"},
          "content": {"type": "STRING"}
        }
      },
      "nullable": true
    }
  },
  "required": ["place_name", "attributes", "expert_tip_final"]
}`)

// GenerateDraft asks the model for a structured partial spot record built
// from the expert's form input.
func (g *GeminiClient) GenerateDraft(ctx context.Context, form model.FormInput) (model.DraftFields, error) {
	referenceURL := form.ImportURL
	if referenceURL == "" {
		referenceURL = "Not provided."
	}

	prompt := fmt.Sprintf(`# ROLE & GOAL
You are an AI data assistant for K-LOKAL, a Jeju travel platform. Your goal is to create a structured JSON data draft for a travel spot. You will use a mandatory expert description as the primary source of truth, and an optional URL for supplementary, objective information.

# INPUTS
1. **Spot Name**: %q
2. **Categories**: [%s]
3. **Expert's Description (Primary Source)**:
"""
%s
"""
4. **Reference URL (Optional, for factual data)**: %s

# INSTRUCTIONS
1. Use the expert's description for subjective data: 'expert_tip_final', 'comments', 'attributes', 'tags'. Break the description into 2-3 structured comments where possible.
2. Use the reference URL, if provided, for objective data: 'address', 'region', 'public_info', 'location'.
3. Infer 'average_duration_minutes' from the description (photo spot ~20, cafe ~60, major attraction ~120).
4. 'region' must be one of: %s.
5. Return ONLY the JSON object conforming to the schema, with place_name exactly %q.`,
		form.SpotName,
		strings.Join(form.Categories, ", "),
		form.SpotDescription,
		referenceURL,
		strings.Join(model.Regions, ", "),
		form.SpotName,
	)

	raw, err := g.generate(ctx, prompt, &generationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   draftSchema,
	})
	if err != nil {
		return model.DraftFields{}, err
	}

	var fields model.DraftFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.DraftFields{}, fmt.Errorf("failed to parse draft response: %w", err)
	}
	return fields, nil
}

// GenerateText runs a plain prompt/response exchange for the chat
// assistants.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	fullURL := fmt.Sprintf("%s/%s:generateContent?key=%s", baseURL, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var genResp generateResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned an empty response")
	}

	text := strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini API returned an empty response")
	}
	return text, nil
}
