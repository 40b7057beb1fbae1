package provider

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "fenced json block",
			content: "Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy!",
			want:    `{"a": 1}`,
		},
		{
			name:    "fenced block without language tag",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "object surrounded by prose",
			content: `Sure! The result is {"a": 1} as requested.`,
			want:    `{"a": 1}`,
		},
		{
			name:    "empty response",
			content: "",
			wantErr: true,
		},
		{
			name:    "no json at all",
			content: "I could not produce a response.",
			wantErr: true,
		},
		{
			name:    "broken json",
			content: `{"a": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrGeneration) {
					t.Errorf("expected ErrGeneration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
