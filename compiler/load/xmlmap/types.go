// Package xmlmap loads entity schemas from XML mapping descriptors.
// The descriptors are decoded into the element types below and then
// "mocked" into the same load.Schema objects that code-defined schemas
// produce, so the generator and the schema exporter cannot tell the two
// sources apart.
package xmlmap

import "encoding/xml"

// EntityMappings is the root <entity-mappings> element of a mapping
// descriptor file.
type EntityMappings struct {
	XMLName  xml.Name  `xml:"entity-mappings"`
	Version  string    `xml:"version,attr"`
	Defaults *Defaults `xml:"defaults"`
	Entities []Entity  `xml:"entity"`
}

// Defaults holds the <defaults> element: descriptor-wide settings that
// apply to every entity unless overridden on the element itself.
type Defaults struct {
	// Package is prepended to unqualified target-entity references.
	Package string `xml:"package"`
	// Schema is the default database schema of the mapped tables.
	Schema string `xml:"schema"`
	// CascadePersist adds the persist action to every cascade set.
	CascadePersist *struct{} `xml:"cascade-persist"`
}

// Entity is a single <entity> mapping element.
type Entity struct {
	Name       string      `xml:"name,attr"`
	Class      string      `xml:"class,attr"`
	Table      *Table      `xml:"table"`
	Attributes *Attributes `xml:"attributes"`
}

// Table is the <table> element of an entity.
type Table struct {
	Name   string `xml:"name,attr"`
	Schema string `xml:"schema,attr"`
}

// Attributes groups the persistent attributes of an entity.
type Attributes struct {
	IDs        []ID       `xml:"id"`
	Basics     []Basic    `xml:"basic"`
	OneToMany  []Relation `xml:"one-to-many"`
	ManyToOne  []Relation `xml:"many-to-one"`
	ManyToMany []Relation `xml:"many-to-many"`
}

// ID is an <id> attribute element.
type ID struct {
	Name           string          `xml:"name,attr"`
	Type           string          `xml:"type,attr"`
	Column         *Column         `xml:"column"`
	GeneratedValue *GeneratedValue `xml:"generated-value"`
}

// GeneratedValue marks an id attribute as database-generated.
type GeneratedValue struct {
	Strategy string `xml:"strategy,attr"`
}

// Basic is a <basic> attribute element.
type Basic struct {
	Name     string  `xml:"name,attr"`
	Type     string  `xml:"type,attr"`
	Optional *bool   `xml:"optional,attr"`
	Column   *Column `xml:"column"`
}

// Column is the <column> element of an id or basic attribute.
type Column struct {
	Name             string `xml:"name,attr"`
	Length           int64  `xml:"length,attr"`
	Unique           bool   `xml:"unique,attr"`
	Nullable         *bool  `xml:"nullable,attr"`
	ColumnDefinition string `xml:"column-definition,attr"`
}

// Relation is a <one-to-many>, <many-to-one> or <many-to-many> element.
type Relation struct {
	Name          string       `xml:"name,attr"`
	TargetEntity  string       `xml:"target-entity,attr"`
	Fetch         string       `xml:"fetch,attr"`
	MappedBy      string       `xml:"mapped-by,attr"`
	OrphanRemoval bool         `xml:"orphan-removal,attr"`
	Cascade       *Cascade     `xml:"cascade"`
	JoinColumns   []JoinColumn `xml:"join-column"`
	JoinTable     *JoinTable   `xml:"join-table"`
	OrderBy       string       `xml:"order-by"`
	MapKey        string       `xml:"map-key"`
}

// Cascade is the <cascade> element listing the cascaded operations.
// Each operation is a presence element.
type Cascade struct {
	All     *struct{} `xml:"cascade-all"`
	Persist *struct{} `xml:"cascade-persist"`
	Merge   *struct{} `xml:"cascade-merge"`
	Remove  *struct{} `xml:"cascade-remove"`
	Refresh *struct{} `xml:"cascade-refresh"`
	Detach  *struct{} `xml:"cascade-detach"`
}

// Actions returns the cascade set as a sorted list of action names,
// with the descriptor-wide persist default applied.
func (c *Cascade) Actions(defaultPersist bool) []string {
	var actions []string
	add := func(name string, set *struct{}) {
		if set != nil {
			actions = append(actions, name)
		}
	}
	if c != nil {
		if c.All != nil {
			return []string{"all"}
		}
		add("detach", c.Detach)
		add("merge", c.Merge)
		add("persist", c.Persist)
		add("refresh", c.Refresh)
		add("remove", c.Remove)
	}
	if defaultPersist && !contains(actions, "persist") {
		actions = append(actions, "persist")
	}
	return actions
}

// JoinColumn is a <join-column> or <inverse-join-column> element.
type JoinColumn struct {
	Name                 string `xml:"name,attr"`
	ReferencedColumnName string `xml:"referenced-column-name,attr"`
}

// JoinTable is the <join-table> element of a many-to-many relation.
type JoinTable struct {
	Name               string       `xml:"name,attr"`
	JoinColumns        []JoinColumn `xml:"join-column"`
	InverseJoinColumns []JoinColumn `xml:"inverse-join-column"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
