// Package letter produces the formal complaint letter from a completed
// draft.
//
// Two Generator variants exist and one is selected once at startup:
//   - GeminiGenerator: calls the Gemini generateContent REST API with
//     the draft fields and optional photo evidence
//   - TemplateGenerator: deterministic per-language skeleton used when
//     no API key is configured or the service fails
//
// The Pipeline wraps the selected variant and guarantees the wizard
// always receives a usable plain-text letter: no error ever crosses
// the pipeline boundary.
package letter

import (
	"context"
	"log"
	"strings"

	"civiclens/internal/complaint"
	"civiclens/internal/config"
	cerrors "civiclens/internal/errors"
)

// Generator produces letter text, short descriptions and assistant
// chat replies.
type Generator interface {
	GenerateLetter(ctx context.Context, d *complaint.Draft) (string, error)
	GenerateDescription(ctx context.Context, d *complaint.Draft) (string, error)
	ChatReply(ctx context.Context, message, userName string) (string, error)
}

// Pipeline is the letter generation entry point used by the wizard.
//
// Letter and Description never return an error: any failure of the
// primary generator degrades to the deterministic template output.
type Pipeline struct {
	primary  Generator // nil when running template-only
	fallback *TemplateGenerator
}

// NewPipeline selects the generator variant from configuration.
//
// Selection happens exactly once, here: when an API key is present and
// the service answers the availability probe within the configured
// timeout, the Gemini variant is used; otherwise the pipeline runs
// template-only. Call sites never branch on key presence again.
func NewPipeline(ctx context.Context, cfg *config.Config) *Pipeline {
	p := &Pipeline{fallback: NewTemplateGenerator()}

	gemini, err := newPrimaryGenerator(cfg)
	if err != nil {
		if cerrors.IsConfigMissing(err) {
			log.Printf("⚠️  %v. Letters will use the template fallback.", err)
		}
		return p
	}
	if cfg.DebugMode {
		log.Println("🐛 DEBUG MODE ENABLED - letter generation will use the template fallback")
		return p
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()
	if !gemini.Available(probeCtx) {
		log.Println("⚠️  Gemini unreachable at startup. Letters will use the template fallback.")
		return p
	}

	log.Println("✓ Gemini letter generation configured successfully")
	p.primary = gemini
	return p
}

// newPrimaryGenerator builds the Gemini variant, or reports why the
// configuration cannot support one.
func newPrimaryGenerator(cfg *config.Config) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, cerrors.NewConfigMissingError("GEMINI_API_KEY")
	}
	return NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.HTTPTimeout), nil
}

// Letter generates the letter body for a draft.
//
// Returns the text and whether the template fallback produced it.
func (p *Pipeline) Letter(ctx context.Context, d *complaint.Draft) (string, bool) {
	if p.primary != nil {
		text, err := p.primary.GenerateLetter(ctx, d)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), false
		}
		if err != nil {
			log.Printf("⚠️  Letter generation failed, using fallback: %v", err)
		}
	}

	text, _ := p.fallback.GenerateLetter(ctx, d)
	return text, true
}

// Description generates a short complaint description for the
// auto-fill affordance on the details step.
func (p *Pipeline) Description(ctx context.Context, d *complaint.Draft) string {
	if p.primary != nil {
		text, err := p.primary.GenerateDescription(ctx, d)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			log.Printf("⚠️  Description auto-fill failed, using fallback: %v", err)
		}
	}

	text, _ := p.fallback.GenerateDescription(ctx, d)
	return text
}

// Chat answers an assistant message for the floating helper widget.
//
// Returns the reply and whether the canned fallback produced it.
func (p *Pipeline) Chat(ctx context.Context, message, userName string) (string, bool) {
	if p.primary != nil {
		text, err := p.primary.ChatReply(ctx, message, userName)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), false
		}
		if err != nil {
			log.Printf("⚠️  Chat reply failed, using fallback: %v", err)
		}
	}

	text, _ := p.fallback.ChatReply(ctx, message, userName)
	return text, true
}

// UsingFallbackOnly reports whether the pipeline runs template-only.
// Exposed for the health endpoint.
func (p *Pipeline) UsingFallbackOnly() bool {
	return p.primary == nil
}
