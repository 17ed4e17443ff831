package generate_test

import (
	"testing"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/cmd/generate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommand_Metadata(t *testing.T) {
	assert.Equal(t, "generate", generate.Cmd.Use)
	assert.Contains(t, generate.Cmd.Short, "Generate a statement parser")
	assert.NotNil(t, generate.Cmd.RunE)
}

func TestGenerateCommand_Flags(t *testing.T) {
	targetFlag := generate.Cmd.Flags().Lookup("target")
	require.NotNil(t, targetFlag)
	assert.Equal(t, "t", targetFlag.Shorthand)

	pdfFlag := generate.Cmd.Flags().Lookup("pdf")
	require.NotNil(t, pdfFlag)
	assert.Equal(t, "p", pdfFlag.Shorthand)

	csvFlag := generate.Cmd.Flags().Lookup("csv")
	require.NotNil(t, csvFlag)
	assert.Equal(t, "c", csvFlag.Shorthand)

	providerFlag := generate.Cmd.Flags().Lookup("provider")
	require.NotNil(t, providerFlag)
	assert.Equal(t, "", providerFlag.DefValue)

	iterFlag := generate.Cmd.Flags().Lookup("max-iterations")
	require.NotNil(t, iterFlag)
	assert.Equal(t, "0", iterFlag.DefValue)

	outputFlag := generate.Cmd.Flags().Lookup("output-dir")
	require.NotNil(t, outputFlag)
}

func TestGenerateCommand_RequiredFlags(t *testing.T) {
	for _, name := range []string{"target", "pdf", "csv"} {
		flag := generate.Cmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		assert.Equal(t, "true", flag.Annotations["cobra_annotation_bash_completion_one_required_flag"][0],
			"flag %q must be required", name)
	}
}
