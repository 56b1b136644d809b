// Package fallback подбирает заготовленный ответ по ключевым словам,
// когда LLM-провайдер недоступен или вернул пустой результат.
package fallback

import (
	"embed"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/ux-assistant/internal/agents"
)

//go:embed responses/*.md
var responsesFS embed.FS

// category описывает одну тематическую рубрику: набор ключевых слов
// и имя файла с заготовленным ответом.
type category struct {
	name     string
	keywords []string
	file     string
}

// Порядок рубрик фиксирован: побеждает первая рубрика,
// ключевое слово которой встретилось в сообщении.
var categories = []category{
	{"job_story", []string{"job story", "user story", "story writing"}, "job_story.md"},
	{"strategy", []string{"align", "strategy", "business goals", "roadmap"}, "strategy.md"},
	{"usability", []string{"usability test", "user test", "testing", "test plan"}, "usability.md"},
	{"user_flow", []string{"user flow", "flow", "user journey", "journey map"}, "user_flow.md"},
	{"analytics", []string{"analytics", "metrics", "data", "measurement"}, "analytics.md"},
	{"workflow", []string{"workflow", "process", "methodology", "framework"}, "workflow.md"},
	{"research", []string{"user research", "research methods", "b2b research"}, "research.md"},
}

// Файлы с ответами по умолчанию для каждого типа агента.
var defaults = map[agents.Kind]string{
	agents.Workflow: "default_workflow.md",
	agents.Thinking: "default_thinking.md",
	agents.Writing:  "default_writing.md",
	agents.Triage:   "default_triage.md",
}

// Classifier хранит загруженные тексты ответов.
type Classifier struct {
	byCategory map[string]string
	byAgent    map[agents.Kind]string
}

// NewClassifier загружает встроенные файлы ответов.
func NewClassifier() (*Classifier, error) {
	const op = "fallback.NewClassifier"

	c := &Classifier{
		byCategory: make(map[string]string, len(categories)),
		byAgent:    make(map[agents.Kind]string, len(defaults)),
	}
	for _, cat := range categories {
		data, err := responsesFS.ReadFile("responses/" + cat.file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.byCategory[cat.name] = strings.TrimSpace(string(data))
	}
	for kind, file := range defaults {
		data, err := responsesFS.ReadFile("responses/" + file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.byAgent[kind] = strings.TrimSpace(string(data))
	}
	return c, nil
}

// Classify возвращает заготовленный ответ для сообщения и имя рубрики.
// Рубрики проверяются по порядку, побеждает первое совпадение,
// иначе берётся ответ по умолчанию для типа агента (рубрика "default").
func (c *Classifier) Classify(message string, agent agents.Kind) (string, string) {
	lower := strings.ToLower(message)
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return c.byCategory[cat.name], cat.name
			}
		}
	}
	if text, ok := c.byAgent[agent]; ok {
		return text, "default"
	}
	return c.byAgent[agents.Triage], "default"
}
