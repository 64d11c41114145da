package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFlagSpellings(t *testing.T) {
	// Both the dashed and the underscore spellings resolve to the same flag.
	dashed := updateCmd.Flags().Lookup("skip-search")
	require.NotNil(t, dashed)
	assert.Same(t, dashed, updateCmd.Flags().Lookup("skip_search"))

	require.NoError(t, updateCmd.Flags().Set("skip_details", "true"))
	assert.True(t, *skipDetails)
	require.NoError(t, updateCmd.Flags().Set("skip_details", "false"))
}

func TestFatalErrorsPrintOnce(t *testing.T) {
	failure := errors.New("store exploded")
	failing := &cobra.Command{
		Use:  "failing",
		RunE: func(cmd *cobra.Command, args []string) error { return failure },
	}
	rootCmd.AddCommand(failing)
	defer rootCmd.RemoveCommand(failing)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"failing"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.ErrorIs(t, err, failure)

	// Execute's caller prints the error; cobra itself must stay quiet and
	// not dump the usage text on a non-usage error.
	assert.Empty(t, out.String())
}
