package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "30", "-r", "24", "-m", "720",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expectPanic: false,
			expected: &Config{
				EndpointAddr:                           "127.0.0.1:9090",
				DatabaseDSN:                            "db",
				SecretKey:                              "secret",
				AccessTokenValidityDuration:            30 * time.Minute,
				RefreshTokenValidityDuration:           24 * time.Hour,
				RefreshTokenRememberMeValidityDuration: 720 * time.Hour,
				S3RootUser:                             "user",
				S3RootPassword:                         "password",
				S3Bucket:                               "bucket",
				S3Region:                               "us-west-1",
				S3BaseEndpoint:                         "http://endpoint",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
