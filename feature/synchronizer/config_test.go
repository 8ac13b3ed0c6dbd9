package synchronizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{VersionMode: VersionModeHash, StateBackend: StateBackendDatabase}
	assert.NoError(t, valid.Validate())

	sum := valid
	sum.VersionMode = VersionModeSum
	sum.StateBackend = StateBackendObject
	assert.NoError(t, sum.Validate())

	badMode := valid
	badMode.VersionMode = "xor"
	assert.ErrorContains(t, badMode.Validate(), "version mode")

	badBackend := valid
	badBackend.StateBackend = "redis"
	assert.ErrorContains(t, badBackend.Validate(), "state backend")

	negative := valid
	negative.Interval = -1
	assert.Error(t, negative.Validate())
}

func TestConfig_BatchSize(t *testing.T) {
	assert.Equal(t, 500, Config{}.batchSize())
	assert.Equal(t, 10, Config{DeleteBatchSize: 10}.batchSize())
}
