package xmlmap

import "github.com/strataorm/strata/schema"

// AnnotationName is the name used for mapping annotations synthesized
// from XML descriptors.
const AnnotationName = "mapping"

// Fetch modes of a relation.
const (
	FetchLazy  = "LAZY"
	FetchEager = "EAGER"
)

// Annotation carries the relation metadata synthesized from an XML
// mapping element. It is attached to the loaded edge so downstream
// consumers see the same annotation surface as with code-defined
// schemas.
type Annotation struct {
	TargetEntity  string   `json:"target_entity,omitempty"`
	Fetch         string   `json:"fetch,omitempty"`
	MappedBy      string   `json:"mapped_by,omitempty"`
	OrphanRemoval bool     `json:"orphan_removal,omitempty"`
	Cascade       []string `json:"cascade,omitempty"`
	OrderBy       string   `json:"order_by,omitempty"`
	MapKey        string   `json:"map_key,omitempty"`
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements schema.Merger. Non-zero settings of the other
// annotation override the receiver's.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	o, ok := other.(Annotation)
	if !ok {
		if p, ok := other.(*Annotation); ok {
			o = *p
		} else {
			return a
		}
	}
	if o.TargetEntity != "" {
		a.TargetEntity = o.TargetEntity
	}
	if o.Fetch != "" {
		a.Fetch = o.Fetch
	}
	if o.MappedBy != "" {
		a.MappedBy = o.MappedBy
	}
	if o.OrphanRemoval {
		a.OrphanRemoval = true
	}
	if len(o.Cascade) > 0 {
		a.Cascade = o.Cascade
	}
	if o.OrderBy != "" {
		a.OrderBy = o.OrderBy
	}
	if o.MapKey != "" {
		a.MapKey = o.MapKey
	}
	return a
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)
