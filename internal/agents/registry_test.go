package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Descriptions(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	got := reg.Descriptions()
	assert.Equal(t, map[string]string{
		"workflow": "UX Workflow Specialist - Process optimization and methodology",
		"thinking": "UX Strategic Thinker - Strategy and user psychology",
		"writing":  "UX Writing Expert - Content and microcopy",
		"triage":   "UX Request Triage - Routes requests to appropriate specialists",
	}, got)
}

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		want Kind
	}{
		{"Успех - известный агент", "writing", Writing},
		{"Успех - регистр и пробелы нормализуются", "  Workflow ", Workflow},
		{"Успех - неизвестный агент разрешается в triage", "pirate", Triage},
		{"Успех - пустой идентификатор разрешается в triage", "", Triage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := reg.Resolve(tt.id)
			assert.Equal(t, tt.want, a.Kind)
			assert.NotEmpty(t, a.Instructions)
		})
	}
}
