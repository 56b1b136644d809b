// Package agents содержит реестр персон ассистента.
//
// Набор агентов закрыт: workflow, thinking, writing, triage. Инструкции
// персон лежат в embedded-файлах prompts/*.md и загружаются один раз
// при старте процесса; после инициализации реестр только читается.
package agents

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.md
var promptsFS embed.FS

// Kind — идентификатор агента из закрытого набора.
type Kind string

// Допустимые агенты.
const (
	Workflow Kind = "workflow"
	Thinking Kind = "thinking"
	Writing  Kind = "writing"
	Triage   Kind = "triage"
)

// Agent — неизменяемая конфигурация одной персоны.
type Agent struct {
	Kind         Kind   // Идентификатор
	Name         string // Человекочитаемое имя специалиста
	Description  string // Краткое описание возможностей
	Instructions string // Системный промпт персоны
}

var agentMeta = []struct {
	kind        Kind
	name        string
	description string
}{
	{Workflow, "UX Workflow Specialist", "UX Workflow Specialist - Process optimization and methodology"},
	{Thinking, "UX Strategic Thinker", "UX Strategic Thinker - Strategy and user psychology"},
	{Writing, "UX Writing Expert", "UX Writing Expert - Content and microcopy"},
	{Triage, "UX Request Triage", "UX Request Triage - Routes requests to appropriate specialists"},
}

// Registry хранит закрытый набор агентов.
type Registry struct {
	agents map[Kind]Agent
}

// NewRegistry загружает инструкции всех персон из embedded-файлов.
func NewRegistry() (*Registry, error) {
	const op = "agents.NewRegistry"
	reg := &Registry{agents: make(map[Kind]Agent, len(agentMeta))}
	for _, meta := range agentMeta {
		raw, err := promptsFS.ReadFile(fmt.Sprintf("prompts/%s.md", meta.kind))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reg.agents[meta.kind] = Agent{
			Kind:         meta.kind,
			Name:         meta.name,
			Description:  meta.description,
			Instructions: strings.TrimSpace(string(raw)),
		}
	}
	return reg, nil
}

// Resolve возвращает агента по идентификатору.
// Неизвестные идентификаторы разрешаются в triage, ошибки не возникает.
func (r *Registry) Resolve(id string) Agent {
	if a, ok := r.agents[Kind(strings.ToLower(strings.TrimSpace(id)))]; ok {
		return a
	}
	return r.agents[Triage]
}

// Descriptions возвращает фиксированное отображение идентификатор → описание.
func (r *Registry) Descriptions() map[string]string {
	res := make(map[string]string, len(r.agents))
	for kind, a := range r.agents {
		res[string(kind)] = a.Description
	}
	return res
}
