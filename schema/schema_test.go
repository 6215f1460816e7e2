package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/schema"
)

func TestCommentAnnotation(t *testing.T) {
	t.Run("Name", func(t *testing.T) {
		ann := &schema.CommentAnnotation{Text: "test comment"}
		assert.Equal(t, "Comment", ann.Name())
	})

	t.Run("Comment_constructor", func(t *testing.T) {
		ann := schema.Comment("User holds account information")
		require.NotNil(t, ann)
		assert.Equal(t, "User holds account information", ann.Text)
		assert.Equal(t, "Comment", ann.Name())
	})

	t.Run("implements_Annotation", func(_ *testing.T) {
		var _ schema.Annotation = (*schema.CommentAnnotation)(nil)
	})
}

// mergeList is a test annotation that implements both Annotation and Merger.
type mergeList struct {
	name   string
	values []string
}

func (m *mergeList) Name() string { return m.name }

func (m *mergeList) Merge(other schema.Annotation) schema.Annotation {
	if o, ok := other.(*mergeList); ok {
		return &mergeList{name: m.name, values: append(m.values, o.values...)}
	}
	return m
}

func TestMergerInterface(t *testing.T) {
	m1 := &mergeList{name: "Test", values: []string{"a", "b"}}
	m2 := &mergeList{name: "Test", values: []string{"c"}}

	merged, ok := schema.Annotation(m1).(schema.Merger)
	require.True(t, ok)
	result := merged.Merge(m2)
	assert.Equal(t, []string{"a", "b", "c"}, result.(*mergeList).values)

	// Merging an unrelated annotation keeps the receiver.
	other := schema.Comment("unrelated")
	assert.Equal(t, m1, m1.Merge(other))
}
