package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
)

func TestNearestInsertion(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		mids []float64
		want int
	}{
		{"between first and second", 25, []float64{10, 30, 50}, 1},
		{"above all", 0, []float64{10, 30, 50}, 0},
		{"below all appends", 60, []float64{10, 30, 50}, 3},
		{"on a midpoint goes after it", 30, []float64{10, 30, 50}, 2},
		{"empty zone", 5, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearestInsertion(tt.y, tt.mids))
		})
	}
}

func cols() []board.Column {
	return []board.Column{
		{ID: "todo", Items: []board.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		{ID: "done", Items: []board.Item{{ID: "x"}}},
	}
}

func itemIDs(c board.Column) []string {
	var out []string
	for _, it := range c.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestOverIgnoresDraggedCard(t *testing.T) {
	var c Coordinator
	c.Start("a", "todo", 0)

	// a occupies 1-3, b 4-6, c 7-9; pointer at 6 is below b's midpoint.
	siblings := []Sibling{{"a", 1, 3}, {"b", 4, 3}, {"c", 7, 3}}
	c.Over("todo", 6, siblings)

	g, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "todo", g.Column)
	assert.Equal(t, 1, g.Index)
	assert.Equal(t, []string{"b", "a", "c"}, itemIDs(c.Preview(cols())[0]))
}

func TestDropIntoOtherZone(t *testing.T) {
	var c Coordinator
	c.Start("b", "todo", 1)
	c.Over("done", 0, []Sibling{{"x", 1, 3}})

	preview := c.Preview(cols())
	assert.Equal(t, []string{"a", "c"}, itemIDs(preview[0]))
	assert.Equal(t, []string{"b", "x"}, itemIDs(preview[1]))

	drop, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, Drop{ItemID: "b", Column: "done", Position: 0, Moved: true}, drop)
	assert.False(t, c.Dragging())
}

func TestDropOutsideReverts(t *testing.T) {
	var c Coordinator
	c.Start("b", "todo", 1)
	c.Over("done", 10, nil)
	c.Leave()

	assert.Equal(t, cols(), c.Preview(cols()))
	_, ok := c.End()
	assert.False(t, ok)
	assert.False(t, c.Dragging())
}

func TestCancel(t *testing.T) {
	var c Coordinator
	c.Start("c", "todo", 2)
	c.Place("done", 0, 1)
	c.Cancel()

	assert.False(t, c.Dragging())
	_, ok := c.End()
	assert.False(t, ok)
	assert.Equal(t, cols(), c.Preview(cols()))
}

func TestDropInPlaceIsNotAMove(t *testing.T) {
	var c Coordinator
	c.Start("c", "todo", 2)
	c.Place("todo", 7, 2)

	drop, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, 2, drop.Position)
	assert.False(t, drop.Moved)
}

func TestPreviewDoesNotModifyInput(t *testing.T) {
	var c Coordinator
	in := cols()
	c.Start("a", "todo", 0)
	c.Place("done", 1, 1)
	out := c.Preview(in)

	assert.Equal(t, cols(), in)
	assert.Equal(t, []string{"x", "a"}, itemIDs(out[1]))
}
