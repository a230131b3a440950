package parser

import (
	"encoding/json"
	"reflect"

	"github.com/erraggy/oasmerge/parser/internal/jsonhelpers"
)

// The model types marshal their known members through a method-less alias and
// splice the members held in Extra into the encoded object. Unmarshaling does
// the reverse: the alias decodes the known members and every other member,
// extension or not, is collected into Extra.

func marshalExtensible(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonhelpers.AppendExtensions(data, extra)
}

func unmarshalExtensible(data []byte, v any) (map[string]any, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return jsonhelpers.ExtractExtras(data, jsonhelpers.KnownFields(reflect.TypeOf(v))), nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	a := alias(*d)
	if a.Paths == nil {
		a.Paths = Paths{}
	}
	return marshalExtensible(&a, d.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	extra, err := unmarshalExtensible(data, (*alias)(d))
	d.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler. A nil map encodes as an empty object.
func (p Paths) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]*PathItem(p))
}

// UnmarshalJSON implements json.Unmarshaler. x-* members of the Paths
// object are dropped.
func (p *Paths) UnmarshalJSON(data []byte) error {
	members, _, err := jsonhelpers.DecodeMembers[*PathItem](data)
	*p = members
	return err
}

// MarshalJSON implements json.Marshaler. A nil map encodes as an empty object.
func (r Responses) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]*RefOr[Response](r))
}

// UnmarshalJSON implements json.Unmarshaler. x-* members of the Responses
// object are dropped.
func (r *Responses) UnmarshalJSON(data []byte) error {
	members, _, err := jsonhelpers.DecodeMembers[*RefOr[Response]](data)
	*r = members
	return err
}

// MarshalJSON implements json.Marshaler. A nil map encodes as an empty object.
func (c Callback) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]*PathItem(c))
}

// UnmarshalJSON implements json.Unmarshaler. x-* members of the Callback
// object are dropped.
func (c *Callback) UnmarshalJSON(data []byte) error {
	members, _, err := jsonhelpers.DecodeMembers[*PathItem](data)
	*c = members
	return err
}

// MarshalJSON implements json.Marshaler.
func (i *Info) MarshalJSON() ([]byte, error) {
	type alias Info
	return marshalExtensible((*alias)(i), i.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Info) UnmarshalJSON(data []byte) error {
	type alias Info
	extra, err := unmarshalExtensible(data, (*alias)(i))
	i.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (c *Contact) MarshalJSON() ([]byte, error) {
	type alias Contact
	return marshalExtensible((*alias)(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Contact) UnmarshalJSON(data []byte) error {
	type alias Contact
	extra, err := unmarshalExtensible(data, (*alias)(c))
	c.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (l *License) MarshalJSON() ([]byte, error) {
	type alias License
	return marshalExtensible((*alias)(l), l.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *License) UnmarshalJSON(data []byte) error {
	type alias License
	extra, err := unmarshalExtensible(data, (*alias)(l))
	l.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (s *Server) MarshalJSON() ([]byte, error) {
	type alias Server
	return marshalExtensible((*alias)(s), s.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Server) UnmarshalJSON(data []byte) error {
	type alias Server
	extra, err := unmarshalExtensible(data, (*alias)(s))
	s.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (sv *ServerVariable) MarshalJSON() ([]byte, error) {
	type alias ServerVariable
	return marshalExtensible((*alias)(sv), sv.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sv *ServerVariable) UnmarshalJSON(data []byte) error {
	type alias ServerVariable
	extra, err := unmarshalExtensible(data, (*alias)(sv))
	sv.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (t *Tag) MarshalJSON() ([]byte, error) {
	type alias Tag
	return marshalExtensible((*alias)(t), t.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tag) UnmarshalJSON(data []byte) error {
	type alias Tag
	extra, err := unmarshalExtensible(data, (*alias)(t))
	t.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (e *ExternalDocs) MarshalJSON() ([]byte, error) {
	type alias ExternalDocs
	return marshalExtensible((*alias)(e), e.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ExternalDocs) UnmarshalJSON(data []byte) error {
	type alias ExternalDocs
	extra, err := unmarshalExtensible(data, (*alias)(e))
	e.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (c *Components) MarshalJSON() ([]byte, error) {
	type alias Components
	return marshalExtensible((*alias)(c), c.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Components) UnmarshalJSON(data []byte) error {
	type alias Components
	extra, err := unmarshalExtensible(data, (*alias)(c))
	c.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (p *PathItem) MarshalJSON() ([]byte, error) {
	type alias PathItem
	return marshalExtensible((*alias)(p), p.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathItem) UnmarshalJSON(data []byte) error {
	type alias PathItem
	extra, err := unmarshalExtensible(data, (*alias)(p))
	p.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (o *Operation) MarshalJSON() ([]byte, error) {
	type alias Operation
	return marshalExtensible((*alias)(o), o.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Operation) UnmarshalJSON(data []byte) error {
	type alias Operation
	extra, err := unmarshalExtensible(data, (*alias)(o))
	o.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	type alias Parameter
	return marshalExtensible((*alias)(p), p.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	type alias Parameter
	extra, err := unmarshalExtensible(data, (*alias)(p))
	p.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (h *Header) MarshalJSON() ([]byte, error) {
	type alias Header
	return marshalExtensible((*alias)(h), h.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Header) UnmarshalJSON(data []byte) error {
	type alias Header
	extra, err := unmarshalExtensible(data, (*alias)(h))
	h.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler. Content is required and encodes as
// an empty object when unset.
func (rb *RequestBody) MarshalJSON() ([]byte, error) {
	type alias RequestBody
	a := alias(*rb)
	if a.Content == nil {
		a.Content = map[string]*MediaType{}
	}
	return marshalExtensible(&a, rb.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (rb *RequestBody) UnmarshalJSON(data []byte) error {
	type alias RequestBody
	extra, err := unmarshalExtensible(data, (*alias)(rb))
	rb.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (mt *MediaType) MarshalJSON() ([]byte, error) {
	type alias MediaType
	return marshalExtensible((*alias)(mt), mt.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (mt *MediaType) UnmarshalJSON(data []byte) error {
	type alias MediaType
	extra, err := unmarshalExtensible(data, (*alias)(mt))
	mt.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (e *Encoding) MarshalJSON() ([]byte, error) {
	type alias Encoding
	return marshalExtensible((*alias)(e), e.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	type alias Encoding
	extra, err := unmarshalExtensible(data, (*alias)(e))
	e.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	type alias Response
	return marshalExtensible((*alias)(r), r.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Response) UnmarshalJSON(data []byte) error {
	type alias Response
	extra, err := unmarshalExtensible(data, (*alias)(r))
	r.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (l *Link) MarshalJSON() ([]byte, error) {
	type alias Link
	return marshalExtensible((*alias)(l), l.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Link) UnmarshalJSON(data []byte) error {
	type alias Link
	extra, err := unmarshalExtensible(data, (*alias)(l))
	l.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (e *Example) MarshalJSON() ([]byte, error) {
	type alias Example
	return marshalExtensible((*alias)(e), e.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Example) UnmarshalJSON(data []byte) error {
	type alias Example
	extra, err := unmarshalExtensible(data, (*alias)(e))
	e.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (ss *SecurityScheme) MarshalJSON() ([]byte, error) {
	type alias SecurityScheme
	return marshalExtensible((*alias)(ss), ss.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ss *SecurityScheme) UnmarshalJSON(data []byte) error {
	type alias SecurityScheme
	extra, err := unmarshalExtensible(data, (*alias)(ss))
	ss.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (f *OAuthFlows) MarshalJSON() ([]byte, error) {
	type alias OAuthFlows
	return marshalExtensible((*alias)(f), f.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *OAuthFlows) UnmarshalJSON(data []byte) error {
	type alias OAuthFlows
	extra, err := unmarshalExtensible(data, (*alias)(f))
	f.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler. Scopes is required and encodes as
// an empty object when unset.
func (f *OAuthFlow) MarshalJSON() ([]byte, error) {
	type alias OAuthFlow
	a := alias(*f)
	if a.Scopes == nil {
		a.Scopes = map[string]string{}
	}
	return marshalExtensible(&a, f.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *OAuthFlow) UnmarshalJSON(data []byte) error {
	type alias OAuthFlow
	extra, err := unmarshalExtensible(data, (*alias)(f))
	f.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	return marshalExtensible((*alias)(s), s.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type alias Schema
	extra, err := unmarshalExtensible(data, (*alias)(s))
	s.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (d *Discriminator) MarshalJSON() ([]byte, error) {
	type alias Discriminator
	return marshalExtensible((*alias)(d), d.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Discriminator) UnmarshalJSON(data []byte) error {
	type alias Discriminator
	extra, err := unmarshalExtensible(data, (*alias)(d))
	d.Extra = extra
	return err
}

// MarshalJSON implements json.Marshaler.
func (x *XML) MarshalJSON() ([]byte, error) {
	type alias XML
	return marshalExtensible((*alias)(x), x.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (x *XML) UnmarshalJSON(data []byte) error {
	type alias XML
	extra, err := unmarshalExtensible(data, (*alias)(x))
	x.Extra = extra
	return err
}
