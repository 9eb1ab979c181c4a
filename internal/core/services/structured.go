package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// structuredCaller performs one bounded structured call against the model.
type structuredCaller struct {
	llm       driven.LLMService
	prompts   driven.PromptStore
	timeout   time.Duration
	component string
}

// call sends prompt and returns the decoded JSON object.
// Errors wrap one of domain.ErrServiceUnavailable, domain.ErrServiceError
// or domain.ErrMalformedResponse.
func (c *structuredCaller) call(ctx context.Context, prompt string, schema driven.ResponseSchema) (gjson.Result, error) {
	start := time.Now()
	obj, err := c.do(ctx, prompt, schema)

	status := domain.CallSucceeded
	if err != nil {
		status = domain.CallDegraded
	}
	keyvals := []any{
		"component", c.component,
		"prompt_len", len(prompt),
		"latency", time.Since(start).Round(time.Millisecond),
		"status", status,
	}
	if err != nil {
		keyvals = append(keyvals, "reason", err)
	}
	logger.Event("model call", keyvals...)

	return obj, err
}

func (c *structuredCaller) do(ctx context.Context, prompt string, schema driven.ResponseSchema) (gjson.Result, error) {
	if c.llm == nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", c.component, domain.ErrServiceUnavailable)
	}

	timeout := c.timeout
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.llm.GenerateStructured(callCtx, prompt, schema)
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return gjson.Result{}, fmt.Errorf("%s: %w", c.component, err)
		}
		return gjson.Result{}, fmt.Errorf("%s: %w: %w", c.component, domain.ErrServiceError, err)
	}
	// A late response to a cancelled call is not delivered.
	if err := callCtx.Err(); err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w: %w", c.component, domain.ErrServiceError, err)
	}

	body := stripCodeFence(raw)
	if !gjson.Valid(body) {
		return gjson.Result{}, fmt.Errorf("%s: %w: invalid JSON", c.component, domain.ErrMalformedResponse)
	}
	obj := gjson.Parse(body)
	if !obj.IsObject() {
		return gjson.Result{}, fmt.Errorf("%s: %w: expected object, got %s",
			c.component, domain.ErrMalformedResponse, obj.Type)
	}
	return obj, nil
}

// template loads a prompt by name, falling back to the built-in default.
func (c *structuredCaller) template(name string) string {
	if c.prompts != nil {
		if tmpl, err := c.prompts.Load(name); err == nil && tmpl != "" {
			return tmpl
		}
		logger.Debug("Prompt %q unavailable, using built-in default", name)
	}
	return driven.DefaultPrompts()[name]
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// stringField returns a non-empty string property.
func stringField(obj gjson.Result, name string) (string, bool) {
	v := obj.Get(gjsonKey(name))
	if v.Type != gjson.String {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	return s, s != ""
}

// stringArrayField returns the string elements of an array property.
// Non-string elements are dropped.
func stringArrayField(obj gjson.Result, name string) ([]string, bool) {
	v := obj.Get(gjsonKey(name))
	if !v.IsArray() {
		return nil, false
	}
	out := []string{}
	for _, el := range v.Array() {
		if el.Type == gjson.String {
			out = append(out, el.String())
		}
	}
	return out, true
}

// gjsonKey escapes path syntax in a literal property name.
func gjsonKey(name string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(name)
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
