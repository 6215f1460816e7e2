// Package schema contains the contracts shared by all schema metadata
// producers: code-defined schemas, mixins, and descriptors synthesized
// from XML mapping documents.
package schema

type (
	// Annotation is used to attach arbitrary metadata to schema objects.
	// The metadata can be consumed at binding time or by code generation.
	//
	// An example of an annotation is declaring the SQL table name of an
	// entity, or the referential action of a relationship's foreign key.
	Annotation interface {
		// Name defines the name of the annotation to be retrieved by the
		// consumer. Two annotations with the same name that appear on the
		// same object are merged if they implement the Merger interface.
		Name() string
	}

	// Merger wraps the single Merge function that allows an annotation
	// to be merged with another annotation carrying the same name.
	Merger interface {
		Merge(Annotation) Annotation
	}
)

// CommentAnnotation is a builtin annotation for attaching comments to
// schema objects. The comment may be carried into the database when the
// dialect supports it.
type CommentAnnotation struct {
	Text string // Comment text.
}

// Name implements the Annotation interface.
func (*CommentAnnotation) Name() string {
	return "Comment"
}

// Comment is a helper for building a comment annotation:
//
//	func (User) Annotations() []schema.Annotation {
//		return []schema.Annotation{
//			schema.Comment("User holds account information"),
//		}
//	}
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}
