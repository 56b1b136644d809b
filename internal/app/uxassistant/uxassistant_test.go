package uxassistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/ux-assistant/internal/config"
)

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want time.Duration
	}{
		{
			name: "Успех - ollama с таймаутом длиннее серверного",
			cfg: &config.Config{
				HTTPServer: config.HTTPServer{TimeoutHTTP: 30 * time.Second},
				LLM:        config.LLM{Provider: "ollama", OllamaTimeout: 60 * time.Second},
			},
			want: 65 * time.Second,
		},
		{
			name: "Успех - серверный таймаут уже достаточен",
			cfg: &config.Config{
				HTTPServer: config.HTTPServer{TimeoutHTTP: 2 * time.Minute},
				LLM:        config.LLM{Provider: "ollama", OllamaTimeout: 60 * time.Second},
			},
			want: 2 * time.Minute,
		},
		{
			name: "Успех - gemini использует серверный таймаут",
			cfg: &config.Config{
				HTTPServer: config.HTTPServer{TimeoutHTTP: 30 * time.Second},
				LLM:        config.LLM{Provider: "gemini", OllamaTimeout: 60 * time.Second},
			},
			want: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeTimeout(tt.cfg))
		})
	}
}
