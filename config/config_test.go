package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	log := logger.New("test")

	testCases := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:   "defaults",
			config: Config{ServerPort: 8080, ImportChunkSize: DEFAULT_IMPORT_CHUNK_SIZE},
		},
		{
			name:      "zero chunk size",
			config:    Config{ServerPort: 8080, ImportChunkSize: 0},
			wantError: true,
		},
		{
			name: "invalid owner id",
			config: Config{
				ServerPort:      8080,
				ImportChunkSize: 100,
				ImportOwnerID:   "not-a-uuid",
			},
			wantError: true,
		},
		{
			name: "schedule without dataset",
			config: Config{
				ServerPort:            8080,
				ImportChunkSize:       100,
				ImportScheduleEnabled: true,
			},
			wantError: true,
		},
		{
			name: "schedule with dataset",
			config: Config{
				ServerPort:            8080,
				ImportChunkSize:       100,
				ImportScheduleEnabled: true,
				ImportDatasetPath:     "/data/releases.json",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateConfig(tc.config, log)
			if tc.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_OwnerID(t *testing.T) {
	assert.Equal(t, uuid.Nil, Config{}.OwnerID())

	id := uuid.New()
	assert.Equal(t, id, Config{ImportOwnerID: id.String()}.OwnerID())
}
