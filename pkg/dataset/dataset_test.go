package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `prompt,model,category,evidence,extra
p1,m1,c1,e1,x1
p2,m2,c2,e2,x2
p3,m3,c3,e3,x3
p4,m4,c4,e4,x4
`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	d, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return d
}

func TestReadCSV(t *testing.T) {
	d := loadSample(t)
	assert.Equal(t, []string{"prompt", "model", "category", "evidence", "extra"}, d.Columns)
	assert.Equal(t, 4, d.NumRows())
	assert.Equal(t, "e3", d.Rows[2][3])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestSelectPreservesAllowListOrder(t *testing.T) {
	d := loadSample(t)

	// Allow-list order wins, absent columns are dropped
	p := d.Select([]string{"model", "missing", "prompt"})
	assert.Equal(t, []string{"model", "prompt"}, p.Columns)
	assert.Equal(t, []string{"m1", "p1"}, p.Rows[0])
	assert.Equal(t, 4, p.NumRows())
}

func TestSelectCopies(t *testing.T) {
	d := loadSample(t)
	p := d.Select([]string{"prompt"})
	p.Rows[0][0] = "mutated"
	assert.Equal(t, "p1", d.Rows[0][0])
}

func TestAppendColumn(t *testing.T) {
	d := loadSample(t)

	err := d.AppendColumn("row_id", []string{"0", "1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, "row_id", d.Columns[len(d.Columns)-1])
	assert.Equal(t, "2", d.Rows[2][len(d.Columns)-1])

	// Length mismatch and duplicate names are rejected
	require.Error(t, d.AppendColumn("short", []string{"0"}))
	require.Error(t, d.AppendColumn("row_id", []string{"0", "1", "2", "3"}))
}

func TestTruncateColumnRunes(t *testing.T) {
	d := New([]string{"text"})
	d.Rows = [][]string{
		{"héllo wörld"},
		{"ok"},
	}

	require.True(t, d.TruncateColumn("text", 5))
	assert.Equal(t, "héllo", d.Rows[0][0])
	assert.Equal(t, "ok", d.Rows[1][0])

	assert.False(t, d.TruncateColumn("absent", 5))
}

func TestSampleDeterministic(t *testing.T) {
	d := loadSample(t)

	s1, ids1 := d.Sample(2, 42)
	s2, ids2 := d.Sample(2, 42)

	assert.Equal(t, ids1, ids2)
	assert.Equal(t, s1.Rows, s2.Rows)
	assert.Equal(t, 2, s1.NumRows())

	for _, id := range ids1 {
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, d.NumRows())
	}

	// Distinct indices
	assert.NotEqual(t, ids1[0], ids1[1])
}

func TestSampleNoOpWhenUnderCap(t *testing.T) {
	d := loadSample(t)
	s, ids := d.Sample(10, 42)
	assert.Same(t, d, s)
	assert.Nil(t, ids)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	d := loadSample(t)

	var buf bytes.Buffer
	require.NoError(t, d.WriteCSV(&buf))

	again, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.Columns, again.Columns)
	assert.Equal(t, d.Rows, again.Rows)
}
