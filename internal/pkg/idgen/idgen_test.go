package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	id := idgen.NewUUID("build").Generate()

	require.True(t, strings.HasPrefix(id, "build_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "build_"))
	assert.NoError(t, err)

	bare := idgen.NewUUID("").Generate()
	_, err = uuid.Parse(bare)
	assert.NoError(t, err)
	assert.NotEqual(t, bare, idgen.NewUUID("").Generate())
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("build")
	assert.Equal(t, "build_1", gen.Generate())
	assert.Equal(t, "build_2", gen.Generate())

	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}
