package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `x1,x2,target
1.0,2.0,3.0
4.0,5.0,6.0
7.0,8.0,9.0`

	ds, err := LoadCSVFromReader(strings.NewReader(csvData), CSVOptions{HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, 3, ds.NSamples())
	assert.Equal(t, 2, ds.NFeatures())
	assert.Equal(t, []string{"x1", "x2"}, ds.FeatureNames)
	assert.Equal(t, "target", ds.TargetName)

	assert.InDelta(t, 4.0, ds.X.At(1, 0), 1e-12)
	assert.InDelta(t, 6.0, ds.Y.At(1, 0), 1e-12)
}

func TestLoadCSVTargetColumn(t *testing.T) {
	csvData := `label,a,b
1,0.5,0.6
0,0.7,0.8`

	ds, err := LoadCSVFromReader(strings.NewReader(csvData), CSVOptions{
		HasHeader:    true,
		TargetColumn: "label",
	})
	require.NoError(t, err)

	assert.Equal(t, "label", ds.TargetName)
	assert.Equal(t, []string{"a", "b"}, ds.FeatureNames)
	assert.InDelta(t, 1.0, ds.Y.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, ds.X.At(0, 0), 1e-12)
}

func TestLoadCSVNoHeader(t *testing.T) {
	csvData := "1.0,2.0\n3.0,4.0\n"

	ds, err := LoadCSVFromReader(strings.NewReader(csvData), CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"x0"}, ds.FeatureNames)
	assert.Equal(t, "x1", ds.TargetName)
	assert.InDelta(t, 2.0, ds.Y.At(0, 0), 1e-12)
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts CSVOptions
	}{
		{
			name: "empty file",
			data: "",
			opts: CSVOptions{},
		},
		{
			name: "header only",
			data: "a,b\n",
			opts: CSVOptions{HasHeader: true},
		},
		{
			name: "single column",
			data: "a\n1.0\n",
			opts: CSVOptions{HasHeader: true},
		},
		{
			name: "unknown target",
			data: "a,b\n1,2\n",
			opts: CSVOptions{HasHeader: true, TargetColumn: "c"},
		},
		{
			name: "non numeric cell",
			data: "a,b\n1,oops\n",
			opts: CSVOptions{HasHeader: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSVFromReader(strings.NewReader(tt.data), tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestDatasetLabels(t *testing.T) {
	csvData := "a,y\n1,0\n2,1\n3,1\n"
	ds, err := LoadCSVFromReader(strings.NewReader(csvData), CSVOptions{HasHeader: true})
	require.NoError(t, err)

	labels, err := ds.Labels()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, labels)
}

func TestDatasetLabelsNonInteger(t *testing.T) {
	csvData := "a,y\n1,0.5\n"
	ds, err := LoadCSVFromReader(strings.NewReader(csvData), CSVOptions{HasHeader: true})
	require.NoError(t, err)

	_, err = ds.Labels()
	assert.Error(t, err)
}
