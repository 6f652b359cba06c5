package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/redact"
)

func TestSecrets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "  no secrets here ", want: "no secrets here"},
		{name: "bearer", in: "Authorization: Bearer abc.def.ghi", want: "Authorization: Bearer <redacted>"},
		{name: "header echo", in: "auth-client-secret: s3cr3t rejected", want: "auth-client-secret: <redacted> rejected"},
		{name: "json echo", in: `{"auth-client-secret":"s3cr3t","x":1}`, want: `{"auth-client-secret":"<redacted>","x":1}`},
		{name: "client_secret kv", in: "client_secret=abc123", want: "client_secret=<redacted>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redact.Secrets(tt.in))
		})
	}
}
