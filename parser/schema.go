package parser

import (
	"bytes"
	"encoding/json"
)

// Schema is an OpenAPI Schema Object.
//
// Type is kept as any because OAS 3.1 allows an array of types. Numeric
// bounds are pointers so that an explicit zero survives a round trip.
// Keywords not declared here (unevaluatedItems, contains, if/then/else and
// the like) are kept in Extra.
type Schema struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        any    `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`

	Enum     []any `json:"enum,omitempty"`
	Const    any   `json:"const,omitempty"`
	Default  any   `json:"default,omitempty"`
	Example  any   `json:"example,omitempty"`
	Examples []any `json:"examples,omitempty"`

	Nullable   bool `json:"nullable,omitempty"`
	ReadOnly   bool `json:"readOnly,omitempty"`
	WriteOnly  bool `json:"writeOnly,omitempty"`
	Deprecated bool `json:"deprecated,omitempty"`

	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMaximum any      `json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMinimum any      `json:"exclusiveMinimum,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	MinLength        *int     `json:"minLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
	MaxProperties    *int     `json:"maxProperties,omitempty"`
	MinProperties    *int     `json:"minProperties,omitempty"`
	Required         []string `json:"required,omitempty"`

	Properties           map[string]*RefOr[Schema] `json:"properties,omitempty"`
	AdditionalProperties *AdditionalProperties     `json:"additionalProperties,omitempty"`
	Items                *RefOr[Schema]            `json:"items,omitempty"`
	PrefixItems          []*RefOr[Schema]          `json:"prefixItems,omitempty"` // JSON Schema Draft 2020-12
	AllOf                []*RefOr[Schema]          `json:"allOf,omitempty"`
	OneOf                []*RefOr[Schema]          `json:"oneOf,omitempty"`
	AnyOf                []*RefOr[Schema]          `json:"anyOf,omitempty"`
	Not                  *RefOr[Schema]            `json:"not,omitempty"`

	Discriminator *Discriminator `json:"discriminator,omitempty"`
	XML           *XML           `json:"xml,omitempty"`
	ExternalDocs  *ExternalDocs  `json:"externalDocs,omitempty"`

	Defs map[string]*RefOr[Schema] `json:"$defs,omitempty"`

	Extra map[string]any `json:"-"`
}

// AdditionalProperties is either a boolean or a schema.
type AdditionalProperties struct {
	// Allowed is set when the member is a boolean
	Allowed *bool
	// Schema is set when the member is a schema or a pointer to one
	Schema *RefOr[Schema]
}

// MarshalJSON emits the boolean or the schema form.
func (a *AdditionalProperties) MarshalJSON() ([]byte, error) {
	if a.Schema != nil {
		return json.Marshal(a.Schema)
	}
	if a.Allowed != nil {
		return json.Marshal(*a.Allowed)
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts a boolean or a schema object.
func (a *AdditionalProperties) UnmarshalJSON(data []byte) error {
	*a = AdditionalProperties{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) {
		allowed := trimmed[0] == 't'
		a.Allowed = &allowed
		return nil
	}
	a.Schema = new(RefOr[Schema])
	return json.Unmarshal(data, a.Schema)
}

func (a *AdditionalProperties) tree() any {
	if a.Schema != nil {
		return Tree(a.Schema)
	}
	if a.Allowed != nil {
		return *a.Allowed
	}
	return true
}

// Discriminator aids polymorphic deserialization. Mapping values are
// usually schema pointers.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
	Extra        map[string]any    `json:"-"`
}

// XML describes the XML representation of a property.
type XML struct {
	Name      string         `json:"name,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
	Prefix    string         `json:"prefix,omitempty"`
	Attribute bool           `json:"attribute,omitempty"`
	Wrapped   bool           `json:"wrapped,omitempty"`
	Extra     map[string]any `json:"-"`
}
