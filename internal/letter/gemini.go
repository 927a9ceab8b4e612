package letter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"civiclens/internal/api"
	"civiclens/internal/complaint"
	cerrors "civiclens/internal/errors"
)

const letterSystemPrompt = `You are a civic assistant that drafts formal complaint letters to Indian municipal authorities.
Rules:
- Write the entire letter in the requested language
- Plain text only: no markdown, no asterisks, no headings
- Structure: date line, recipient block, subject line, salutation, two or three body paragraphs, polite closing with "A Concerned Citizen"
- Reference the photo evidence if one is attached
- Output ONLY the letter text, nothing else`

const chatSystemPrompt = `You are the CivicLens assistant. CivicLens helps Indian citizens draft and send formal complaint letters about civic issues (water, roads, garbage, streetlights, drainage) to municipal authorities.
Rules:
- Answer questions about filing complaints, the letter wizard, exporting letters and tracking complaint status
- Keep answers short and practical, plain text only
- Reply in the language the citizen writes in`

// toneInstructions maps a template to the phrasing guidance embedded
// in the prompt.
var toneInstructions = map[complaint.Template]string{
	complaint.TemplateNormal:   "Use a standard formal tone for reporting a new issue.",
	complaint.TemplateUrgent:   "Use an urgent tone: the issue is hazardous and needs immediate action. Request a response within 48 hours.",
	complaint.TemplateReminder: "Write as a follow-up reminder: an earlier complaint about this issue saw no action. Reference the earlier complaint politely but firmly.",
}

// GeminiGenerator calls the Gemini generateContent REST API.
type GeminiGenerator struct {
	apiKey string
	model  string
	client *http.Client
}

// NewGeminiGenerator creates a Gemini-backed Generator.
func NewGeminiGenerator(apiKey, model string, timeout time.Duration) *GeminiGenerator {
	c := api.GetHTTPClient()
	if timeout > 0 {
		c = api.NewHTTPClient(timeout)
	}
	return &GeminiGenerator{
		apiKey: apiKey,
		model:  model,
		client: c,
	}
}

// baseURL is a variable so tests can point the generator at a local
// HTTP server.
var baseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiRequest / geminiResponse for the REST API
type geminiRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// dataURLPattern splits a data URL into mime type and payload.
var dataURLPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// GenerateLetter produces the formal letter for a draft.
//
// The prompt embeds every draft field; an attached photo rides along
// as an inline binary part. The raw response text is returned verbatim
// apart from surrounding whitespace.
func (g *GeminiGenerator) GenerateLetter(ctx context.Context, d *complaint.Draft) (string, error) {
	tone := toneInstructions[d.Template]
	prompt := fmt.Sprintf(
		"Generate a formal complaint letter in %s.\n"+
			"Complaint category: %s\n"+
			"Location: %s, %s, %s\n"+
			"Addressed to:\n%s\n"+
			"Citizen's description of the issue: %s\n"+
			"Tone: %s",
		d.Language, d.Type,
		d.Location.Area, d.Location.City, d.Location.State,
		d.Authority, d.Description, tone)

	parts := []part{{Text: prompt}}
	if d.Image != "" {
		if m := dataURLPattern.FindStringSubmatch(d.Image); m != nil {
			parts = append(parts, part{InlineData: &inlineData{MimeType: m[1], Data: m[2]}})
		}
	}

	return g.generate(ctx, letterSystemPrompt, parts)
}

// GenerateDescription produces a two-sentence description of the issue
// for the auto-fill affordance.
func (g *GeminiGenerator) GenerateDescription(ctx context.Context, d *complaint.Draft) (string, error) {
	prompt := fmt.Sprintf(
		"Write a 2-sentence description, in %s, for a %s complaint at %s, %s. Plain text only.",
		d.Language, d.Type, d.Location.Area, d.Location.City)

	return g.generate(ctx, "", []part{{Text: prompt}})
}

// ChatReply answers a free-form assistant message. A signed-in
// citizen's name rides along so the reply can address them.
func (g *GeminiGenerator) ChatReply(ctx context.Context, message, userName string) (string, error) {
	prompt := message
	if userName != "" {
		prompt = fmt.Sprintf("The citizen is signed in as %s.\n\n%s", userName, message)
	}
	return g.generate(ctx, chatSystemPrompt, []part{{Text: prompt}})
}

// Available probes the model endpoint. Used once at startup to decide
// between the real and template variants.
func (g *GeminiGenerator) Available(ctx context.Context) bool {
	endpoint := fmt.Sprintf("%s/models/%s?key=%s", baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// generate performs one generateContent round trip.
func (g *GeminiGenerator) generate(ctx context.Context, system string, parts []part) (string, error) {
	reqBody := geminiRequest{
		Contents: []content{{Parts: parts}},
	}
	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", cerrors.NewServiceCallError("gemini", "failed to marshal request", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", cerrors.NewServiceCallError("gemini", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", cerrors.NewServiceCallError("gemini", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", cerrors.NewServiceCallError("gemini", "failed to read response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", cerrors.NewServiceCallError("gemini", "rate limited", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", cerrors.NewServiceCallError("gemini",
			fmt.Sprintf("API error %d: %s", resp.StatusCode, string(body)), nil)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", cerrors.NewServiceCallError("gemini", "failed to parse response", err)
	}
	if geminiResp.Error != nil {
		return "", cerrors.NewServiceCallError("gemini", geminiResp.Error.Message, nil)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", cerrors.NewServiceCallError("gemini", "empty response", nil)
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
