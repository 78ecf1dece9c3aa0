package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/history/entry"
)

// three groups: {main.go, util.go} at 30s, {README.md} at 20s,
// {main.go, api.go, Makefile} at 10s
func viewEntries() []*entry.Entry {
	return []*entry.Entry{
		mk("/w/main.go", 30_000), mk("/w/util.go", 29_000),
		mk("/w/README.md", 20_000),
		mk("/w/main.go", 10_000), mk("/w/api.go", 9_500), mk("/w/Makefile", 9_000),
	}
}

func keys(groups []*entry.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key()
	}
	return out
}

func TestView_SortOrders(t *testing.T) {
	cases := []struct {
		order SortOrder
		want  []string
	}{
		{NewestFirst, []string{"30000", "20000", "10000"}},
		{OldestFirst, []string{"10000", "20000", "30000"}},
		{MostFiles, []string{"10000", "30000", "20000"}},
		{FewestFiles, []string{"20000", "30000", "10000"}},
	}
	for _, tt := range cases {
		t.Run(string(tt.order), func(t *testing.T) {
			v := NewView()
			v.SetSortOrder(tt.order)
			assert.Equal(t, tt.want, keys(v.Apply(viewEntries())))
		})
	}
}

func TestView_FileCountFilter(t *testing.T) {
	cases := []struct {
		name string
		mode FilterMode
		n    int
		want []string
	}{
		{"none", NoFilter, 0, []string{"30000", "20000", "10000"}},
		{"min 2", MinFiles, 2, []string{"30000", "10000"}},
		{"exact 1", ExactFiles, 1, []string{"20000"}},
		{"exact 3", ExactFiles, 3, []string{"10000"}},
		{"min 4", MinFiles, 4, []string{}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView()
			require.NoError(t, v.SetFileCountFilter(tt.mode, tt.n))
			assert.Equal(t, tt.want, keys(v.Apply(viewEntries())))
		})
	}

	v := NewView()
	assert.Error(t, v.SetFileCountFilter(MinFiles, 0))
}

func TestView_Search(t *testing.T) {
	v := NewView()
	v.SetSearch("  MAIN ")
	assert.Equal(t, []string{"30000", "10000"}, keys(v.Apply(viewEntries())))

	v.SetSearch("make")
	assert.Equal(t, []string{"10000"}, keys(v.Apply(viewEntries())))

	// directories are not searched
	v.SetSearch("w")
	assert.Empty(t, v.Apply(viewEntries()))

	v.SetSearch("")
	assert.Len(t, v.Apply(viewEntries()), 3)
}

func TestView_TimeWindow(t *testing.T) {
	v := NewView()
	assert.Equal(t, DefaultWindow, v.Window())

	require.NoError(t, v.SetTimeWindowSeconds(15))
	assert.Equal(t, 15*time.Second, v.Window())
	assert.Equal(t, []string{"30000", "10000"}, keys(v.Apply(viewEntries())))

	assert.Error(t, v.SetTimeWindowSeconds(0))
	assert.Error(t, v.SetTimeWindowSeconds(-3))
	assert.Equal(t, 15*time.Second, v.Window())
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("Most-Files")
	require.NoError(t, err)
	assert.Equal(t, MostFiles, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, NewestFirst, o)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}
