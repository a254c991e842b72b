package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/chatprep/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	records := []internal.Record{
		{Text: "<|im_start|>Bob\n>>>one\n>>>two<|im_end|>"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(records, &buf))

	var got []internal.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, records, got)
}
