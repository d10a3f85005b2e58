package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/salesreport/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "service account",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          500,
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:      "client",
				RefreshToken:  "token",
				BatchSize:     500,
				RetryAttempts: 3,
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both methods",
			config: Config{
				ClientID:           "client",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          500,
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "zero batch size",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          500,
				RetryAttempts:      3,
				RetryDelay:         -time.Second,
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
		{
			name: "unknown time zone",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          500,
				TimeZone:           "Mars/Olympus_Mons",
			},
			wantErr: true,
			errMsg:  "time zone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	wb := &Workbook{Title: "x"}

	assert.NoError(t, mock.Write(context.Background(), wb))
	mock.SetWriteError(assert.AnError)
	assert.ErrorIs(t, mock.Write(context.Background(), wb), assert.AnError)

	calls := mock.GetWriteCalls()
	assert.Len(t, calls, 2)
	assert.Same(t, wb, mock.LastWorkbook)
	assert.ErrorIs(t, calls[1].Error, assert.AnError)

	mock.Reset()
	assert.Zero(t, mock.WriteCallCount)
	assert.Nil(t, mock.LastWorkbook)
}
