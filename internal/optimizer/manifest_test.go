package optimizer

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexMarshalNullMapping(t *testing.T) {
	index := &Index{
		TotalRows:  10,
		TableRows:  10,
		DetailRows: 10,
		AvailableColumns: ColumnSets{
			Table:  []string{"prompt", "model"},
			Detail: []string{"prompt", "model", "reason"},
		},
	}

	out, err := index.Marshal()
	require.NoError(t, err)

	// A full detail view must render the mapping as null, not []
	assert.Contains(t, string(out), `"row_id_mapping": null`)
	assert.NotContains(t, string(out), `"row_id_mapping": []`)
}

func TestIndexMarshalSampledMapping(t *testing.T) {
	index := &Index{
		TotalRows:    10,
		TableRows:    10,
		DetailRows:   3,
		RowIDMapping: []int{7, 2, 9},
	}

	out, err := index.Marshal()
	require.NoError(t, err)
	assert.Contains(t, strings.Join(strings.Fields(string(out)), ""), `"row_id_mapping":[7,2,9]`)

	var decoded Index
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []int{7, 2, 9}, decoded.RowIDMapping)
}

func TestIndexMarshalEmptyVsNil(t *testing.T) {
	// An empty (non-nil) mapping renders as a list; only nil renders as
	// null. The pipeline only ever produces nil or a full list, but the
	// encoding distinction is what consumers depend on.
	withEmpty := &Index{RowIDMapping: []int{}}
	out, err := withEmpty.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"row_id_mapping": []`)
}
