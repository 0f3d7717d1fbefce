// Package prompts provides the resume assistant's prompt templates.
// The templates live in assistant.json as key/template pairs, embedded at compile time.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed assistant.json
var assistantJSON []byte

// Key names a template in assistant.json.
type Key string

// Template keys
const (
	KeyChatSystem          Key = "chat-system"
	KeyExtractConversation Key = "extract-conversation"
	KeyExtractFile         Key = "extract-file"
	KeyResumeStructure     Key = "resume-structure"
)

// Keys lists every template the assistant needs.
var Keys = []Key{KeyChatSystem, KeyExtractConversation, KeyExtractFile, KeyResumeStructure}

// templates parses assistant.json once and checks that no key is missing.
var templates = sync.OnceValues(func() (map[Key]string, error) {
	var parsed map[Key]string
	if err := json.Unmarshal(assistantJSON, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse assistant.json: %w", err)
	}
	for _, key := range Keys {
		if strings.TrimSpace(parsed[key]) == "" {
			return nil, fmt.Errorf("prompt key %q missing from assistant.json", key)
		}
	}
	return parsed, nil
})

// Get returns the template stored under key.
func Get(key Key) (string, error) {
	all, err := templates()
	if err != nil {
		return "", err
	}
	prompt, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// MustGet is Get for templates required at startup. It panics on a missing key.
func MustGet(key Key) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Name}} placeholders with values from data.
// Placeholders without a value are left as they are.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

// build formats the template under key, requiring a value for every placeholder.
func build(key Key, data map[string]string) (string, error) {
	template, err := Get(key)
	if err != nil {
		return "", err
	}
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			return "", fmt.Errorf("prompt %q: no value for placeholder %q", key, name)
		}
	}
	return Format(template, data), nil
}

// Placeholders lists the {{.Name}} placeholders in template, in order of appearance.
func Placeholders(template string) []string {
	var out []string
	for {
		start := strings.Index(template, "{{.")
		if start < 0 {
			return out
		}
		end := strings.Index(template[start:], "}}")
		if end < 0 {
			return out
		}
		out = append(out, template[start+3:start+end])
		template = template[start+end+2:]
	}
}
