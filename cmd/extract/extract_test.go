package extract_test

import (
	"testing"

	"fjacquet/statement-analyzer/cmd/extract"

	"github.com/stretchr/testify/assert"
)

func TestExtractCommand_Metadata(t *testing.T) {
	assert.Equal(t, "extract", extract.Cmd.Use)
	assert.Contains(t, extract.Cmd.Short, "Extract categorized transactions")
	assert.Contains(t, extract.Cmd.Long, ".json")
	assert.Contains(t, extract.Cmd.Long, "Example")
	assert.NotNil(t, extract.Cmd.RunE)
}
