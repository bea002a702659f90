package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
		want    []Service
	}{
		{
			name: "canonical fields",
			records: []map[string]any{
				{"name": "http", "port": "80", "protocol": "tcp", "product": "nginx", "version": "1.25"},
			},
			want: []Service{{Name: "http", Port: "80", Protocol: "tcp", Product: "nginx", Version: "1.25"}},
		},
		{
			name: "aliased fields",
			records: []map[string]any{
				{"service": "ssh", "portid": "22", "proto": "TCP", "banner_product": "OpenSSH"},
			},
			want: []Service{{Name: "ssh", Port: "22", Protocol: "tcp", Product: "OpenSSH"}},
		},
		{
			name: "numeric port coerced",
			records: []map[string]any{
				{"name": "mysql", "port": 3306},
			},
			want: []Service{{Name: "mysql", Port: "3306"}},
		},
		{
			name: "record without port skipped",
			records: []map[string]any{
				{"name": "mystery"},
				{"name": "http", "port": "80"},
			},
			want: []Service{{Name: "http", Port: "80"}},
		},
		{
			name:    "nil record skipped",
			records: []map[string]any{nil, {"name": "ftp", "port": "21"}},
			want:    []Service{{Name: "ftp", Port: "21"}},
		},
		{
			name:    "empty input",
			records: nil,
			want:    []Service{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.records)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	got := Normalize([]map[string]any{{"name": "  http ", "port": " 80 "}})
	require.Len(t, got, 1)
	assert.Equal(t, "http", got[0].Name)
	assert.Equal(t, "80", got[0].Port)
}
