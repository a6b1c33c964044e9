package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
)

func TestFlatExportImport(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)

	data, err := MarshalFlat(r.Columns())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"101","title":"Design project wireframe","description":"","date":"","stage":"todo"},
		{"id":"201","title":"Develop authentication system","description":"","date":"","stage":"in_progress"},
		{"id":"301","title":"Test responsiveness on mobile","description":"","date":"","stage":"completed"}
	]`, string(data))

	other := newRepo(t, nil)
	_, err = other.Remove(ctx, "101")
	require.NoError(t, err)
	n, err := other.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, r.Tasks(), other.Tasks())
}

func TestUnmarshalFlatKeepsStageOrder(t *testing.T) {
	data := []byte(`[
		{"id":"a","title":"A","description":"","date":"2024-05-01","stage":"completed"},
		{"id":"b","title":"B","description":"d","date":"","stage":"todo"},
		{"id":"c","title":"C","description":"","date":"","stage":"completed"}
	]`)
	cols, err := UnmarshalFlat(data, DefaultColumnIDs())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(cols[0].Items))
	assert.Empty(t, cols[1].Items)
	assert.Equal(t, []string{"a", "c"}, ids(cols[2].Items))
	require.NotNil(t, cols[2].Items[0].Date)
	assert.Equal(t, "2024-05-01", cols[2].Items[0].Date.String())
}

func TestUnmarshalFlatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{"not json", `{`, clierr.InvalidInput},
		{"unknown stage", `[{"id":"a","title":"A","stage":"later"}]`, clierr.ColumnNotFound},
		{"duplicate id", `[{"id":"a","title":"A","stage":"todo"},{"id":"a","title":"B","stage":"todo"}]`, clierr.InvalidInput},
		{"bad date", `[{"id":"a","title":"A","date":"May 1","stage":"todo"}]`, clierr.InvalidDate},
		{"not an array", `{"id":"a"}`, clierr.InvalidInput},
		{"missing stage", `[{"id":"a","title":"A"}]`, clierr.InvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalFlat([]byte(tt.data), []string{config.StageTodo})
			assert.True(t, clierr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestUnmarshalFlatSchemaPath(t *testing.T) {
	_, err := UnmarshalFlat([]byte(`[{"id":"a","title":"A","stage":"todo"},{"id":"b","title":7,"stage":"todo"}]`),
		[]string{config.StageTodo})
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.InvalidInput, cliErr.Code)
	assert.Equal(t, "/1/title", cliErr.Details["path"])
}
