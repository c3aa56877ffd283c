package main

import (
	"testing"

	"payme-tui/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceIDFromLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{"query link", "http://localhost:8080/?invoiceId=abc-123", "abc-123", false},
		{"query with other params", "https://pay.example/checkout?ref=x&invoiceId=inv9", "inv9", false},
		{"bare id", "3f0c6b2e-1111-4c4c-9d9d-000000000000", "3f0c6b2e-1111-4c4c-9d9d-000000000000", false},
		{"link without id", "https://pay.example/checkout?ref=x", "", true},
		{"empty", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoiceIDFromLink(tt.link)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/tmp/a.json", resolveConfigPath("/tmp/a.json", config.Env{ConfigPath: "/tmp/b.json"}))
	assert.Equal(t, "/tmp/b.json", resolveConfigPath("", config.Env{ConfigPath: "/tmp/b.json"}))
	assert.Equal(t, config.DefaultPath(), resolveConfigPath("", config.Env{}))
}

func TestRootCommandWiring(t *testing.T) {
	cmd := rootCmd()
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "receipt")
	assert.Contains(t, names, "devserver")
	assert.NotNil(t, cmd.Flags().Lookup("invoice"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}
