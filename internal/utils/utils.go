package utils

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Simple retry check for model calls.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	// A cancelled request is never worth repeating.
	if errors.Is(err, context.Canceled) {
		return false
	}
	// Retry on transient errors like rate limits or server errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "500 internal server error") ||
		strings.Contains(errMsg, "502 bad gateway") ||
		strings.Contains(errMsg, "503 service unavailable") ||
		strings.Contains(errMsg, "504 gateway timeout") ||
		strings.Contains(errMsg, "connection reset by peer") {
		return true
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		if openAIErr.HTTPStatusCode >= 500 || openAIErr.HTTPStatusCode == 429 {
			return true
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == 429
	}
	return false
}

var fence = regexp.MustCompile("```[a-zA-Z]*\\s*")

// StripCodeFence removes markdown code fences models like to wrap JSON in.
func StripCodeFence(s string) string {
	return strings.TrimSpace(fence.ReplaceAllString(strings.TrimSpace(s), ""))
}

// ExtractJSONArray returns the outermost [...] span of s, or "" if there is none.
func ExtractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
