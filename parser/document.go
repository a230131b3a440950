package parser

import "github.com/erraggy/oasmerge/internal/httputil"

// Document is an OpenAPI 3.x document.
//
// Every model type keeps the members it does not declare, x-* extensions
// included, in Extra so that they survive a decode and encode cycle.
type Document struct {
	OpenAPI           string                `json:"openapi"`
	Info              *Info                 `json:"info,omitempty"`
	JSONSchemaDialect string                `json:"jsonSchemaDialect,omitempty"` // OAS 3.1+
	Servers           []*Server             `json:"servers,omitempty"`
	Paths             Paths                 `json:"paths"`
	Webhooks          map[string]*PathItem  `json:"webhooks,omitempty"` // OAS 3.1+
	Components        *Components           `json:"components,omitempty"`
	Security          []SecurityRequirement `json:"security,omitempty"`
	Tags              []*Tag                `json:"tags,omitempty"`
	ExternalDocs      *ExternalDocs         `json:"externalDocs,omitempty"`
	Extra             map[string]any        `json:"-"`
}

// Paths maps a path template to its PathItem.
type Paths map[string]*PathItem

// SecurityRequirement maps security scheme names to required scopes.
type SecurityRequirement map[string][]string

// Info carries the API metadata.
type Info struct {
	Title          string         `json:"title"`
	Summary        string         `json:"summary,omitempty"`
	Description    string         `json:"description,omitempty"`
	TermsOfService string         `json:"termsOfService,omitempty"`
	Contact        *Contact       `json:"contact,omitempty"`
	License        *License       `json:"license,omitempty"`
	Version        string         `json:"version"`
	Extra          map[string]any `json:"-"`
}

// Contact information for the exposed API.
type Contact struct {
	Name  string         `json:"name,omitempty"`
	URL   string         `json:"url,omitempty"`
	Email string         `json:"email,omitempty"`
	Extra map[string]any `json:"-"`
}

// License information for the exposed API.
type License struct {
	Name       string         `json:"name"`
	Identifier string         `json:"identifier,omitempty"`
	URL        string         `json:"url,omitempty"`
	Extra      map[string]any `json:"-"`
}

// Server describes a target host.
type Server struct {
	URL         string                     `json:"url"`
	Description string                     `json:"description,omitempty"`
	Variables   map[string]*ServerVariable `json:"variables,omitempty"`
	Extra       map[string]any             `json:"-"`
}

// ServerVariable is a substitution variable in a server URL template.
type ServerVariable struct {
	Enum        []string       `json:"enum,omitempty"`
	Default     string         `json:"default"`
	Description string         `json:"description,omitempty"`
	Extra       map[string]any `json:"-"`
}

// Tag adds metadata to a tag used by operations.
type Tag struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	ExternalDocs *ExternalDocs  `json:"externalDocs,omitempty"`
	Extra        map[string]any `json:"-"`
}

// ExternalDocs references external documentation.
type ExternalDocs struct {
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url"`
	Extra       map[string]any `json:"-"`
}

// Components holds the reusable objects of a document, one map per category.
type Components struct {
	Schemas         map[string]*RefOr[Schema]         `json:"schemas,omitempty"`
	Responses       map[string]*RefOr[Response]       `json:"responses,omitempty"`
	Parameters      map[string]*RefOr[Parameter]      `json:"parameters,omitempty"`
	Examples        map[string]*RefOr[Example]        `json:"examples,omitempty"`
	RequestBodies   map[string]*RefOr[RequestBody]    `json:"requestBodies,omitempty"`
	Headers         map[string]*RefOr[Header]         `json:"headers,omitempty"`
	SecuritySchemes map[string]*RefOr[SecurityScheme] `json:"securitySchemes,omitempty"`
	Links           map[string]*RefOr[Link]           `json:"links,omitempty"`
	Callbacks       map[string]*RefOr[Callback]       `json:"callbacks,omitempty"`
	PathItems       map[string]*RefOr[PathItem]       `json:"pathItems,omitempty"` // OAS 3.1+
	Extra           map[string]any                    `json:"-"`
}

// IsEmpty reports whether no category holds an entry.
func (c *Components) IsEmpty() bool {
	return c == nil || (len(c.Schemas) == 0 &&
		len(c.Responses) == 0 &&
		len(c.Parameters) == 0 &&
		len(c.Examples) == 0 &&
		len(c.RequestBodies) == 0 &&
		len(c.Headers) == 0 &&
		len(c.SecuritySchemes) == 0 &&
		len(c.Links) == 0 &&
		len(c.Callbacks) == 0 &&
		len(c.PathItems) == 0 &&
		len(c.Extra) == 0)
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Ref         string              `json:"$ref,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Get         *Operation          `json:"get,omitempty"`
	Put         *Operation          `json:"put,omitempty"`
	Post        *Operation          `json:"post,omitempty"`
	Delete      *Operation          `json:"delete,omitempty"`
	Options     *Operation          `json:"options,omitempty"`
	Head        *Operation          `json:"head,omitempty"`
	Patch       *Operation          `json:"patch,omitempty"`
	Trace       *Operation          `json:"trace,omitempty"`
	Servers     []*Server           `json:"servers,omitempty"`
	Parameters  []*RefOr[Parameter] `json:"parameters,omitempty"`
	Extra       map[string]any      `json:"-"`
}

// slot returns the address of the field holding the operation for method.
// Returns nil for methods that are not one of the eight OpenAPI verbs.
func (p *PathItem) slot(method string) **Operation {
	switch method {
	case httputil.MethodGet:
		return &p.Get
	case httputil.MethodPut:
		return &p.Put
	case httputil.MethodPost:
		return &p.Post
	case httputil.MethodDelete:
		return &p.Delete
	case httputil.MethodOptions:
		return &p.Options
	case httputil.MethodHead:
		return &p.Head
	case httputil.MethodPatch:
		return &p.Patch
	case httputil.MethodTrace:
		return &p.Trace
	}
	return nil
}

// Operation returns the operation registered for the lowercase method, or nil.
func (p *PathItem) Operation(method string) *Operation {
	if s := p.slot(method); s != nil {
		return *s
	}
	return nil
}

// SetOperation stores op under the lowercase method. A nil op clears the slot.
func (p *PathItem) SetOperation(method string, op *Operation) {
	if s := p.slot(method); s != nil {
		*s = op
	}
}

// Methods returns the methods that carry an operation, in OpenAPI order.
func (p *PathItem) Methods() []string {
	var methods []string
	for _, m := range httputil.Methods {
		if p.Operation(m) != nil {
			methods = append(methods, m)
		}
	}
	return methods
}

// HasOperations reports whether at least one method slot is filled.
func (p *PathItem) HasOperations() bool {
	return len(p.Methods()) > 0
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags         []string                    `json:"tags,omitempty"`
	Summary      string                      `json:"summary,omitempty"`
	Description  string                      `json:"description,omitempty"`
	ExternalDocs *ExternalDocs               `json:"externalDocs,omitempty"`
	OperationID  string                      `json:"operationId,omitempty"`
	Parameters   []*RefOr[Parameter]         `json:"parameters,omitempty"`
	RequestBody  *RefOr[RequestBody]         `json:"requestBody,omitempty"`
	Responses    Responses                   `json:"responses"`
	Callbacks    map[string]*RefOr[Callback] `json:"callbacks,omitempty"`
	Deprecated   bool                        `json:"deprecated,omitempty"`
	Security     []SecurityRequirement       `json:"security,omitempty"`
	Servers      []*Server                   `json:"servers,omitempty"`
	Extra        map[string]any              `json:"-"`
}

// HasTag reports whether the operation carries any of the given tags.
func (o *Operation) HasTag(tags ...string) bool {
	for _, have := range o.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Responses maps a status code (or "default") to a response.
type Responses map[string]*RefOr[Response]

// Callback maps a runtime expression to the PathItem invoked for it.
type Callback map[string]*PathItem

// Parameter describes a single operation parameter.
type Parameter struct {
	Name            string                     `json:"name"`
	In              string                     `json:"in"`
	Description     string                     `json:"description,omitempty"`
	Required        bool                       `json:"required,omitempty"`
	Deprecated      bool                       `json:"deprecated,omitempty"`
	AllowEmptyValue bool                       `json:"allowEmptyValue,omitempty"`
	Style           string                     `json:"style,omitempty"`
	Explode         *bool                      `json:"explode,omitempty"`
	AllowReserved   bool                       `json:"allowReserved,omitempty"`
	Schema          *RefOr[Schema]             `json:"schema,omitempty"`
	Example         any                        `json:"example,omitempty"`
	Examples        map[string]*RefOr[Example] `json:"examples,omitempty"`
	Content         map[string]*MediaType      `json:"content,omitempty"`
	Extra           map[string]any             `json:"-"`
}

// Header follows the structure of a Parameter without name and location.
type Header struct {
	Description     string                     `json:"description,omitempty"`
	Required        bool                       `json:"required,omitempty"`
	Deprecated      bool                       `json:"deprecated,omitempty"`
	AllowEmptyValue bool                       `json:"allowEmptyValue,omitempty"`
	Style           string                     `json:"style,omitempty"`
	Explode         *bool                      `json:"explode,omitempty"`
	Schema          *RefOr[Schema]             `json:"schema,omitempty"`
	Example         any                        `json:"example,omitempty"`
	Examples        map[string]*RefOr[Example] `json:"examples,omitempty"`
	Content         map[string]*MediaType      `json:"content,omitempty"`
	Extra           map[string]any             `json:"-"`
}

// RequestBody describes a single request body.
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content"`
	Required    bool                  `json:"required,omitempty"`
	Extra       map[string]any        `json:"-"`
}

// MediaType provides schema and examples for one media type.
type MediaType struct {
	Schema   *RefOr[Schema]             `json:"schema,omitempty"`
	Example  any                        `json:"example,omitempty"`
	Examples map[string]*RefOr[Example] `json:"examples,omitempty"`
	Encoding map[string]*Encoding       `json:"encoding,omitempty"`
	Extra    map[string]any             `json:"-"`
}

// Encoding describes how a single property is serialized.
type Encoding struct {
	ContentType   string                    `json:"contentType,omitempty"`
	Headers       map[string]*RefOr[Header] `json:"headers,omitempty"`
	Style         string                    `json:"style,omitempty"`
	Explode       *bool                     `json:"explode,omitempty"`
	AllowReserved bool                      `json:"allowReserved,omitempty"`
	Extra         map[string]any            `json:"-"`
}

// Response describes a single response from an API operation.
type Response struct {
	Description string                    `json:"description"`
	Headers     map[string]*RefOr[Header] `json:"headers,omitempty"`
	Content     map[string]*MediaType     `json:"content,omitempty"`
	Links       map[string]*RefOr[Link]   `json:"links,omitempty"`
	Extra       map[string]any            `json:"-"`
}

// Link represents a possible design-time link for a response.
type Link struct {
	OperationRef string         `json:"operationRef,omitempty"`
	OperationID  string         `json:"operationId,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	RequestBody  any            `json:"requestBody,omitempty"`
	Description  string         `json:"description,omitempty"`
	Server       *Server        `json:"server,omitempty"`
	Extra        map[string]any `json:"-"`
}

// Example holds an example value.
type Example struct {
	Summary       string         `json:"summary,omitempty"`
	Description   string         `json:"description,omitempty"`
	Value         any            `json:"value,omitempty"`
	ExternalValue string         `json:"externalValue,omitempty"`
	Extra         map[string]any `json:"-"`
}

// SecurityScheme defines a security scheme usable by operations.
type SecurityScheme struct {
	Type             string         `json:"type"`
	Description      string         `json:"description,omitempty"`
	Name             string         `json:"name,omitempty"`
	In               string         `json:"in,omitempty"`
	Scheme           string         `json:"scheme,omitempty"`
	BearerFormat     string         `json:"bearerFormat,omitempty"`
	Flows            *OAuthFlows    `json:"flows,omitempty"`
	OpenIDConnectURL string         `json:"openIdConnectUrl,omitempty"`
	Extra            map[string]any `json:"-"`
}

// OAuthFlows configures the supported OAuth flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow     `json:"implicit,omitempty"`
	Password          *OAuthFlow     `json:"password,omitempty"`
	ClientCredentials *OAuthFlow     `json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow     `json:"authorizationCode,omitempty"`
	Extra             map[string]any `json:"-"`
}

// OAuthFlow configures a single OAuth flow.
type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes"`
	Extra            map[string]any    `json:"-"`
}
