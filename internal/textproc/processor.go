// Package textproc implements the optional text-processing collaborator
// used by the summary editor: a handful of local transformations plus
// Ollama-backed spell check, translation, polishing, and summarizing.
//
// Every operation follows the (text) -> (result, method) contract and
// degrades gracefully: when the model is unreachable the local fallback
// answers instead, and the caller never sees an error.
package textproc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
)

const (
	methodLocal  = "local"
	methodOllama = "ollama"

	requestTimeout = 15 * time.Second
	warmupTimeout  = 30 * time.Second
)

// Processor holds the Ollama client configuration.
type Processor struct {
	url     string
	model   string
	enabled bool
	client  *http.Client
	logger  *slog.Logger
}

// New creates a processor. An empty url or model disables the model
// path entirely; the local methods keep working.
func New(url, model string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		url:     strings.TrimRight(url, "/"),
		model:   model,
		enabled: url != "" && model != "",
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// WarmUp fires a background request that loads the model so the first
// real call is fast. It is fire-and-forget: nothing awaits it and no
// document load/save path is affected by its outcome.
func (p *Processor) WarmUp() {
	if !p.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		defer cancel()
		start := time.Now()
		if _, err := p.generate(ctx, " "); err != nil {
			p.logger.Warn("textproc: warm-up failed", slog.String("error", err.Error()))
			return
		}
		p.logger.Info("textproc: model warmed up",
			slog.String("model", p.model),
			slog.Duration("elapsed", time.Since(start)))
	}()
}

// SwapCase flips the case of every letter. Always local.
func (p *Processor) SwapCase(text string) (string, string) {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, text), methodLocal
}

// Capitalize upper-cases the first letter and lower-cases the rest.
// Always local.
func (p *Processor) Capitalize(text string) (string, string) {
	if text == "" {
		return "", methodLocal
	}
	runes := []rune(strings.ToLower(text))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), methodLocal
}

// Highlight toggles <strong> emphasis around the text. Always local.
func (p *Processor) Highlight(text string) (string, string) {
	if strings.Contains(text, "<strong>") && strings.Contains(text, "</strong>") {
		text = strings.ReplaceAll(text, "<strong>", "")
		return strings.ReplaceAll(text, "</strong>", ""), methodLocal
	}
	return "<strong>" + text + "</strong>", methodLocal
}

// SpellCheck corrects spelling via the model, falling back to the
// unchanged text when the model is unavailable.
func (p *Processor) SpellCheck(ctx context.Context, text string) (string, string) {
	prompt := fmt.Sprintf("Correct the spelling mistakes in the following text. Reply with the corrected text only, no explanations.\n\n%s", text)
	if out, ok := p.tryModel(ctx, prompt); ok {
		return out, methodOllama
	}
	return text, methodLocal
}

// Translate translates the text into targetLang via the model; without
// a model the text is returned unchanged.
func (p *Processor) Translate(ctx context.Context, text, targetLang string) (string, string) {
	if targetLang == "" {
		targetLang = "English"
	}
	prompt := fmt.Sprintf("Translate the following text into %s. Reply with the translation only.\n\n%s", targetLang, text)
	if out, ok := p.tryModel(ctx, prompt); ok {
		return out, methodOllama
	}
	return text, methodLocal
}

// Polish improves wording via the model; the local fallback collapses
// runs of whitespace.
func (p *Processor) Polish(ctx context.Context, text string) (string, string) {
	prompt := fmt.Sprintf("Polish the following text for clarity and style. Reply with the improved text only.\n\n%s", text)
	if out, ok := p.tryModel(ctx, prompt); ok {
		return out, methodOllama
	}
	return strings.Join(strings.Fields(text), " "), methodLocal
}

// Summarize condenses the text via the model; the local fallback keeps
// the first two sentences.
func (p *Processor) Summarize(ctx context.Context, text string) (string, string) {
	prompt := fmt.Sprintf("Summarize the following text in a few short sentences. Reply with the summary only.\n\n%s", text)
	if out, ok := p.tryModel(ctx, prompt); ok {
		return out, methodOllama
	}
	return firstSentences(text, 2), methodLocal
}

// tryModel runs the prompt against the model, reporting whether a
// usable answer came back.
func (p *Processor) tryModel(ctx context.Context, prompt string) (string, bool) {
	if !p.enabled {
		return "", false
	}
	out, err := p.generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("textproc: model call failed", slog.String("error", err.Error()))
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (p *Processor) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: p.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("textproc: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("textproc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("textproc: call model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("textproc: model returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("textproc: decode response: %w", err)
	}
	return out.Response, nil
}

// firstSentences returns the first n sentences of text.
func firstSentences(text string, n int) string {
	var b strings.Builder
	count := 0
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= n {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}
