package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "disabled", config: Config{Enabled: false}, wantErr: false},
		{name: "enabled with name", config: Config{Enabled: true, ServiceName: "analogd"}, wantErr: false},
		{name: "enabled without name", config: Config{Enabled: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDisabled(t *testing.T) {
	tel, err := New(&Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tel)

	// Shutdown on a no-op instance is safe.
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestShutdownNil(t *testing.T) {
	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
}
