package joiner

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erraggy/oasmerge/oaserrors"
	"github.com/erraggy/oasmerge/parser"
)

func TestMerge_NoInputs(t *testing.T) {
	for _, in := range [][]Input{nil, {}} {
		doc, err := Merge(in)
		assert.Nil(t, doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrNoInputs)
		assert.ErrorIs(t, err, oaserrors.ErrMerge)

		var mergeErr *oaserrors.MergeError
		require.True(t, errors.As(err, &mergeErr))
		assert.Equal(t, oaserrors.KindNoInputs, mergeErr.Kind)
	}
}

func TestMerge_MissingDocument(t *testing.T) {
	doc, err := Merge([]Input{{Document: mustParse(t, "paths: {}\n")}, {}})
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.NotErrorIs(t, err, oaserrors.ErrMerge)

	var configErr *oaserrors.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "inputs", configErr.Option)
	assert.Contains(t, configErr.Message, "input 1")
}

func TestMerge_UnionWithoutCollisions(t *testing.T) {
	users := mustParse(t, `
paths:
  /users:
    get:
      operationId: listUsers
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/User'}
components:
  schemas:
    User: {type: object}
`)
	pets := mustParse(t, `
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
components:
  schemas:
    Pet: {type: object}
  responses:
    NotFound: {description: missing}
`)
	usersTree := parser.Tree(users.Paths)
	petsTree := parser.Tree(pets.Paths)

	merged := mustMerge(t, inputs(users, pets)...)

	assert.Equal(t, []string{"Pet", "User"}, schemaNames(merged))
	assert.Contains(t, merged.Components.Responses, "NotFound")
	assert.Empty(t, cmp.Diff(usersTree.(map[string]any)["/users"], parser.Tree(merged.Paths["/users"])))
	assert.Empty(t, cmp.Diff(petsTree.(map[string]any)["/pets"], parser.Tree(merged.Paths["/pets"])))
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	first := mustParse(t, `
paths:
  /a:
    get:
      operationId: same
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Example'}
components:
  schemas:
    Example: {type: string}
`)
	second := mustParse(t, `
paths:
  /b:
    get:
      operationId: same
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Example'}
components:
  schemas:
    Example: {type: integer}
`)
	before := parser.Tree(second)

	mustMerge(t, Input{Document: first}, Input{
		Document:         second,
		PathModification: PathModification{Prepend: "/v2"},
		Dispute:          &Dispute{Prefix: "Two", AlwaysApply: true},
	})

	assert.Empty(t, cmp.Diff(before, parser.Tree(second)))
}

func TestMerge_IdenticalComponentsAreShared(t *testing.T) {
	const body = `
paths:
  %s:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Example'}
components:
  schemas:
    Example:
      type: object
      properties:
        id: {type: integer}
`
	first := mustParse(t, fmt.Sprintf(body, "/a"))
	second := mustParse(t, fmt.Sprintf(body, "/b"))

	result, err := New(DefaultConfig()).Merge(inputs(first, second))
	require.NoError(t, err)

	assert.Equal(t, []string{"Example"}, schemaNames(result.Document))
	assert.Empty(t, result.Renames)
	require.Len(t, result.Shared, 1)
	assert.Equal(t, Rename{Kind: RenameComponent, InputIndex: 1, Category: "schemas", From: "Example", To: "Example"}, result.Shared[0])
	assert.Equal(t, "#/components/schemas/Example", responseSchemaRef(t, result.Document, "/b"))
}

func TestMerge_RenameRewritesOnlyOwningInput(t *testing.T) {
	first := mustParse(t, `
paths:
  /a:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Example'}
components:
  schemas:
    Example: {type: string}
    Wrapper:
      type: array
      items: {$ref: '#/components/schemas/Example'}
`)
	second := mustParse(t, `
paths:
  /b:
    get:
      parameters:
        - name: filter
          in: query
          schema: {$ref: '#/components/schemas/Example'}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Example'}
components:
  schemas:
    Example: {type: integer}
    Holder:
      type: object
      properties:
        value: {$ref: '#/components/schemas/Example'}
      additionalProperties: {$ref: '#/components/schemas/Example'}
`)
	result, err := New(DefaultConfig()).Merge(inputs(first, second))
	require.NoError(t, err)
	merged := result.Document

	assert.Equal(t, []string{"Example", "Example1", "Holder", "Wrapper"}, schemaNames(merged))
	assert.Equal(t, "integer", merged.Components.Schemas["Example1"].Value.Type)

	assert.Equal(t, "#/components/schemas/Example", responseSchemaRef(t, merged, "/a"))
	assert.Equal(t, "#/components/schemas/Example", merged.Components.Schemas["Wrapper"].Value.Items.Ref)

	assert.Equal(t, "#/components/schemas/Example1", responseSchemaRef(t, merged, "/b"))
	assert.Equal(t, "#/components/schemas/Example1", merged.Paths["/b"].Get.Parameters[0].Value.Schema.Ref)
	holder := merged.Components.Schemas["Holder"].Value
	assert.Equal(t, "#/components/schemas/Example1", holder.Properties["value"].Ref)
	assert.Equal(t, "#/components/schemas/Example1", holder.AdditionalProperties.Schema.Ref)

	assert.Equal(t, []Rename{{Kind: RenameComponent, InputIndex: 1, Category: "schemas", From: "Example", To: "Example1"}}, result.Renames)
}

const cyclicFixture = `
paths: {}
components:
  schemas:
    A:
      type: object
      properties:
        b: {$ref: '#/components/schemas/B'}
    B:
      type: object
      properties:
        a: {$ref: '#/components/schemas/A'}
        name: {type: %s}
`

func TestMerge_MutualRecursion(t *testing.T) {
	t.Run("equivalent cycles are shared", func(t *testing.T) {
		first := mustParse(t, fmt.Sprintf(cyclicFixture, "string"))
		second := mustParse(t, fmt.Sprintf(cyclicFixture, "string"))

		merged := mustMerge(t, inputs(first, second)...)
		assert.Equal(t, []string{"A", "B"}, schemaNames(merged))
	})

	t.Run("a changed leaf renames the whole cycle", func(t *testing.T) {
		first := mustParse(t, fmt.Sprintf(cyclicFixture, "string"))
		second := mustParse(t, fmt.Sprintf(cyclicFixture, "integer"))

		merged := mustMerge(t, inputs(first, second)...)
		schemas := merged.Components.Schemas
		assert.Equal(t, []string{"A", "A1", "B", "B1"}, schemaNames(merged))

		assert.Equal(t, "#/components/schemas/B", schemas["A"].Value.Properties["b"].Ref)
		assert.Equal(t, "#/components/schemas/A", schemas["B"].Value.Properties["a"].Ref)
		assert.Equal(t, "#/components/schemas/B1", schemas["A1"].Value.Properties["b"].Ref)
		assert.Equal(t, "#/components/schemas/A1", schemas["B1"].Value.Properties["a"].Ref)
		assert.Equal(t, "integer", schemas["B1"].Value.Properties["name"].Value.Type)
	})
}

func TestMerge_PathPrecedence(t *testing.T) {
	first := mustParse(t, `
paths:
  /path/a:
    get:
      responses: {'200': {description: ok}}
`)

	t.Run("same method is a duplicate path", func(t *testing.T) {
		second := mustParse(t, `
paths:
  /path/a:
    get:
      responses: {'200': {description: other}}
`)
		doc, err := Merge(inputs(first, second))
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, oaserrors.ErrDuplicatePaths)

		var mergeErr *oaserrors.MergeError
		require.True(t, errors.As(err, &mergeErr))
		assert.Equal(t, 1, mergeErr.InputIndex)
		assert.Equal(t, "/path/a", mergeErr.Name)
		assert.Contains(t, mergeErr.Message, "Input 1: The path '/path/a' maps to '/path/a'")
	})

	t.Run("distinct methods are joined", func(t *testing.T) {
		second := mustParse(t, `
paths:
  /path/a:
    post:
      responses: {'201': {description: created}}
`)
		merged := mustMerge(t, inputs(first, second)...)
		require.Contains(t, merged.Paths, "/path/a")
		assert.Equal(t, []string{"get", "post"}, merged.Paths["/path/a"].Methods())
	})

	t.Run("path modification creates the overlap", func(t *testing.T) {
		second := mustParse(t, `
paths:
  /rest/path/a:
    get:
      responses: {'200': {description: ok}}
`)
		_, err := Merge([]Input{
			{Document: first},
			{Document: second, PathModification: PathModification{StripStart: "/rest"}},
		})
		assert.ErrorIs(t, err, oaserrors.ErrDuplicatePaths)
	})
}

func TestMerge_SharedParametersFollowMovedOperations(t *testing.T) {
	first := mustParse(t, `
paths:
  /items/{id}:
    get:
      responses: {'200': {description: ok}}
`)
	second := mustParse(t, `
paths:
  /items/{id}:
    parameters:
      - {name: id, in: path, required: true, schema: {type: string}}
      - {name: verbose, in: query, schema: {type: boolean}}
    delete:
      parameters:
        - {name: verbose, in: query, schema: {type: integer}}
      responses: {'204': {description: gone}}
`)
	merged := mustMerge(t, inputs(first, second)...)
	item := merged.Paths["/items/{id}"]
	assert.Empty(t, item.Parameters)

	params := item.Delete.Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "id", params[0].Value.Name)
	assert.Equal(t, "verbose", params[1].Value.Name)
	assert.Equal(t, "integer", params[1].Value.Schema.Value.Type)
	assert.Empty(t, item.Get.Parameters)
}

func TestMerge_PathLevelParametersStayWithTheirInput(t *testing.T) {
	t.Run("renamed parameter component", func(t *testing.T) {
		first := mustParse(t, `
paths:
  /p:
    parameters: [{$ref: '#/components/parameters/P'}]
    get:
      responses: {'200': {description: ok}}
components:
  parameters:
    P: {name: tenant, in: header, required: true, schema: {type: string}}
`)
		second := mustParse(t, `
paths:
  /p:
    parameters: [{$ref: '#/components/parameters/P'}]
    post:
      responses: {'201': {description: created}}
components:
  parameters:
    P: {name: limit, in: query, schema: {type: integer}}
`)
		merged := mustMerge(t, inputs(first, second)...)
		assert.ElementsMatch(t, []string{"P", "P1"}, sectionFor("parameters").names(merged.Components))

		item := merged.Paths["/p"]
		assert.Empty(t, item.Parameters)
		require.Len(t, item.Get.Parameters, 1)
		assert.Equal(t, "#/components/parameters/P", item.Get.Parameters[0].Ref)
		require.Len(t, item.Post.Parameters, 1)
		assert.Equal(t, "#/components/parameters/P1", item.Post.Parameters[0].Ref)
	})

	t.Run("earlier input's parameters do not reach later operations", func(t *testing.T) {
		first := mustParse(t, `
paths:
  /p:
    parameters:
      - {name: tenant, in: header, required: true, schema: {type: string}}
    get:
      responses: {'200': {description: ok}}
`)
		second := mustParse(t, `
paths:
  /p:
    post:
      responses: {'201': {description: created}}
`)
		merged := mustMerge(t, inputs(first, second)...)
		item := merged.Paths["/p"]
		assert.Empty(t, item.Parameters)
		require.Len(t, item.Get.Parameters, 1)
		assert.Equal(t, "tenant", item.Get.Parameters[0].Value.Name)
		assert.Empty(t, item.Post.Parameters)
	})

	t.Run("identical lists stay shared", func(t *testing.T) {
		const shared = `
    parameters: [{$ref: '#/components/parameters/P'}]`
		const component = `
components:
  parameters:
    P: {name: tenant, in: header, required: true, schema: {type: string}}
`
		first := mustParse(t, "paths:\n  /p:"+shared+`
    get:
      responses: {'200': {description: ok}}`+component)
		second := mustParse(t, "paths:\n  /p:"+shared+`
    post:
      responses: {'201': {description: created}}`+component)

		merged := mustMerge(t, inputs(first, second)...)
		item := merged.Paths["/p"]
		require.Len(t, item.Parameters, 1)
		assert.Equal(t, "#/components/parameters/P", item.Parameters[0].Ref)
		assert.Empty(t, item.Get.Parameters)
		assert.Empty(t, item.Post.Parameters)
	})
}

func TestMerge_PathModification(t *testing.T) {
	doc := mustParse(t, `
paths:
  /rest/a:
    get:
      operationId: getA
      responses:
        '200':
          description: ok
          links:
            self: {operationRef: '#/paths/~1rest~1a/get'}
  /rest/b:
    $ref: '#/paths/~1rest~1a'
  /other:
    get:
      responses: {'200': {description: ok}}
`)
	result, err := New(DefaultConfig()).Merge([]Input{{
		Document:         doc,
		PathModification: PathModification{StripStart: "/rest", Prepend: "/service"},
	}})
	require.NoError(t, err)
	merged := result.Document

	assert.ElementsMatch(t, []string{"/service/a", "/service/b", "/service/other"}, sortedKeys(merged.Paths))
	assert.Equal(t, "#/paths/~1service~1a", merged.Paths["/service/b"].Ref)
	link := merged.Paths["/service/a"].Get.Responses["200"].Value.Links["self"].Value
	assert.Equal(t, "#/paths/~1service~1a/get", link.OperationRef)

	var pathRenames []string
	for _, r := range result.Renames {
		if r.Kind == RenamePath {
			pathRenames = append(pathRenames, r.From+" -> "+r.To)
		}
	}
	assert.Equal(t, []string{"/other -> /service/other", "/rest/a -> /service/a", "/rest/b -> /service/b"}, pathRenames)
}

func TestMerge_Dispute(t *testing.T) {
	const schemaA = `
paths:
  %s:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
components:
  schemas:
    A: {type: %s}
`
	t.Run("always apply renames without a collision", func(t *testing.T) {
		doc := mustParse(t, fmt.Sprintf(schemaA, "/a", "string"))
		merged := mustMerge(t, Input{Document: doc, Dispute: &Dispute{Prefix: "Prefix", AlwaysApply: true}})

		assert.Equal(t, []string{"PrefixA"}, schemaNames(merged))
		assert.Equal(t, "#/components/schemas/PrefixA", responseSchemaRef(t, merged, "/a"))
	})

	t.Run("rule applies on collision only", func(t *testing.T) {
		first := mustParse(t, fmt.Sprintf(schemaA, "/a", "string"))
		second := mustParse(t, fmt.Sprintf(schemaA, "/b", "integer"))
		merged := mustMerge(t, Input{Document: first}, Input{Document: second, Dispute: &Dispute{Suffix: "Other"}})

		assert.Equal(t, []string{"A", "AOther"}, schemaNames(merged))
		assert.Equal(t, "#/components/schemas/AOther", responseSchemaRef(t, merged, "/b"))
	})

	t.Run("unavailable disputed name falls back to numeric suffix", func(t *testing.T) {
		first := mustParse(t, `
paths: {}
components:
  schemas:
    A: {type: string}
    PrefixA: {type: boolean}
`)
		second := mustParse(t, fmt.Sprintf(schemaA, "/b", "integer"))
		merged := mustMerge(t, Input{Document: first}, Input{Document: second, Dispute: &Dispute{Prefix: "Prefix"}})

		assert.Equal(t, []string{"A", "A1", "PrefixA"}, schemaNames(merged))
		assert.Equal(t, "integer", merged.Components.Schemas["A1"].Value.Type)
		assert.Equal(t, "#/components/schemas/A1", responseSchemaRef(t, merged, "/b"))
	})
}

func TestMerge_DisputeChainsAcrossThreeInputs(t *testing.T) {
	const schemaA = `
paths:
  %s:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
components:
  schemas:
    A: {type: %s}
`
	doc := func(path, typ string) *parser.Document {
		return mustParse(t, fmt.Sprintf(schemaA, path, typ))
	}
	always := &Dispute{Prefix: "P", AlwaysApply: true}

	tests := []struct {
		name      string
		inputs    []Input
		wantNames []string
		wantRefs  map[string]string
	}{
		{
			name: "always-prefixed equivalents share, a third distinct value gets a number",
			inputs: []Input{
				{Document: doc("/a", "string"), Dispute: always},
				{Document: doc("/b", "string"), Dispute: always},
				{Document: doc("/c", "integer"), Dispute: always},
			},
			wantNames: []string{"A1", "PA"},
			wantRefs:  map[string]string{"/a": "PA", "/b": "PA", "/c": "A1"},
		},
		{
			name: "an equivalent disputed name from an earlier input is reused",
			inputs: []Input{
				{Document: doc("/a", "string")},
				{Document: doc("/b", "integer"), Dispute: &Dispute{Suffix: "V2"}},
				{Document: doc("/c", "integer"), Dispute: &Dispute{Suffix: "V2"}},
			},
			wantNames: []string{"A", "AV2"},
			wantRefs:  map[string]string{"/a": "A", "/b": "AV2", "/c": "AV2"},
		},
		{
			name: "always applies before equivalence with the bare name",
			inputs: []Input{
				{Document: doc("/a", "string")},
				{Document: doc("/b", "string"), Dispute: always},
				{Document: doc("/c", "string")},
			},
			wantNames: []string{"A", "PA"},
			wantRefs:  map[string]string{"/a": "A", "/b": "PA", "/c": "A"},
		},
		{
			name: "numeric fallback skips slots taken by earlier inputs",
			inputs: []Input{
				{Document: doc("/a", "string")},
				{Document: doc("/b", "integer"), Dispute: &Dispute{Prefix: "P"}},
				{Document: doc("/c", "boolean"), Dispute: &Dispute{Prefix: "P"}},
			},
			wantNames: []string{"A", "A1", "PA"},
			wantRefs:  map[string]string{"/a": "A", "/b": "PA", "/c": "A1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := mustMerge(t, tt.inputs...)
			assert.Equal(t, tt.wantNames, schemaNames(merged))
			for path, name := range tt.wantRefs {
				assert.Equal(t, "#/components/schemas/"+name, responseSchemaRef(t, merged, path), path)
			}
		})
	}
}

func TestMerge_ComponentCategories(t *testing.T) {
	const body = `
paths: {}
components:
  responses:
    R: {description: %s}
  parameters:
    P: {name: p, in: query, schema: {type: string}}
  examples:
    E: {value: 1}
  requestBodies:
    B:
      content:
        application/json:
          schema: {$ref: '#/components/schemas/S'}
  headers:
    H: {schema: {type: string}}
  links:
    L: {operationId: op}
  callbacks:
    C:
      '{$url}':
        post:
          responses:
            '200': {$ref: '#/components/responses/R'}
  schemas:
    S: {type: object}
`
	first := mustParse(t, fmt.Sprintf(body, "first"))
	second := mustParse(t, fmt.Sprintf(body, "second"))
	merged := mustMerge(t, inputs(first, second)...)
	c := merged.Components

	assert.Len(t, c.Responses, 2)
	assert.Contains(t, c.Responses, "R1")
	assert.Len(t, c.Parameters, 1)
	assert.Len(t, c.Examples, 1)
	assert.Len(t, c.RequestBodies, 1)
	assert.Len(t, c.Headers, 1)
	assert.Len(t, c.Links, 1)
	assert.Len(t, c.Schemas, 1)

	// the callbacks point at different responses, so they are not equivalent
	require.Len(t, c.Callbacks, 2)
	cb := *c.Callbacks["C1"].Value
	assert.Equal(t, "#/components/responses/R1", cb["{$url}"].Post.Responses["200"].Ref)
}

func TestMerge_SecuritySchemesFirstClaimWins(t *testing.T) {
	none := mustParse(t, `paths: {}`)
	first := mustParse(t, `
paths: {}
components:
  securitySchemes:
    key: {type: apiKey, name: X-Key, in: header}
`)
	second := mustParse(t, `
paths: {}
components:
  securitySchemes:
    key: {type: http, scheme: bearer}
    oauth: {type: oauth2, flows: {}}
`)
	result, err := New(DefaultConfig()).Merge(inputs(none, first, second))
	require.NoError(t, err)

	schemes := result.Document.Components.SecuritySchemes
	require.Len(t, schemes, 1)
	assert.Equal(t, "apiKey", schemes["key"].Value.Type)
	assert.Equal(t, 1, result.SecuritySchemesFrom)
	assert.Empty(t, result.Renames)
}

func TestMerge_OperationIDs(t *testing.T) {
	const body = `
paths:
  %s:
    get:
      operationId: same
      responses: {'200': {description: ok}}
`
	first := mustParse(t, fmt.Sprintf(body, "/path/a"))

	t.Run("made unique across inputs", func(t *testing.T) {
		second := mustParse(t, fmt.Sprintf(body, "/path/b"))
		merged := mustMerge(t, inputs(first, second)...)
		assert.Equal(t, "same", merged.Paths["/path/a"].Get.OperationID)
		assert.Equal(t, "same1", merged.Paths["/path/b"].Get.OperationID)
	})

	t.Run("dispute rule applies to operationIds", func(t *testing.T) {
		second := mustParse(t, fmt.Sprintf(body, "/path/b"))
		merged := mustMerge(t, Input{Document: first}, Input{Document: second, Dispute: &Dispute{Prefix: "billing_"}})
		assert.Equal(t, "billing_same", merged.Paths["/path/b"].Get.OperationID)
	})

	t.Run("opt out keeps duplicates", func(t *testing.T) {
		second := mustParse(t, fmt.Sprintf(body, "/path/b"))
		merged := mustMerge(t, Input{Document: first}, Input{Document: second, AllowDuplicateOperationIDs: true})
		assert.Equal(t, "same", merged.Paths["/path/b"].Get.OperationID)
	})

	t.Run("joined methods are checked too", func(t *testing.T) {
		second := mustParse(t, `
paths:
  /path/a:
    post:
      operationId: same
      responses: {'200': {description: ok}}
`)
		merged := mustMerge(t, inputs(first, second)...)
		assert.Equal(t, "same1", merged.Paths["/path/a"].Post.OperationID)
	})
}

// oas31Pair carries members that only OpenAPI 3.1 and JSON Schema 2020-12
// define.
const oas31Pair = `{
  "openapi": "3.1.0",
  "info": {"title": "pairs", "version": "1"},
  "jsonSchemaDialect": "https://spec.openapis.org/oas/3.1/dialect/base",
  "paths": {
    "/ping": {"$ref": "#/components/pathItems/Ping"}
  },
  "webhooks": {
    "newPair": {
      "post": {
        "operationId": "newPair",
        "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pair"}}}},
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pair": {
        "type": "array",
        "prefixItems": [{"type": "string"}, {"type": "%s"}],
        "unevaluatedItems": false,
        "$defs": {"label": {"type": "string"}}
      }
    },
    "pathItems": {
      "Ping": {"get": {"responses": {"204": {"description": "%s"}}}}
    }
  }
}`

func mustParse31(t *testing.T, second, pong string) *parser.Document {
	t.Helper()
	doc, err := parser.ParseBytes([]byte(fmt.Sprintf(oas31Pair, second, pong)))
	require.NoError(t, err)
	return doc
}

func TestMerge_OAS31Members(t *testing.T) {
	t.Run("single input survives unchanged", func(t *testing.T) {
		merged := mustMerge(t, inputs(mustParse31(t, "integer", "pong"))...)
		data, err := parser.MarshalDocument(merged, parser.SourceFormatJSON)
		require.NoError(t, err)
		assert.JSONEq(t, fmt.Sprintf(oas31Pair, "integer", "pong"), string(data))
	})

	t.Run("schemas differing only in prefixItems stay apart", func(t *testing.T) {
		first := mustParse31(t, "integer", "pong")
		second := mustParse31(t, "number", "pong")
		second.Webhooks["otherPair"] = second.Webhooks["newPair"]
		delete(second.Webhooks, "newPair")
		second.Webhooks["otherPair"].Post.OperationID = "otherPair"
		delete(second.Paths, "/ping")

		merged := mustMerge(t, inputs(first, second)...)
		assert.Equal(t, []string{"Pair", "Pair1"}, schemaNames(merged))
		assert.Equal(t, []any{"integer", "number"}, []any{
			merged.Components.Schemas["Pair"].Value.PrefixItems[1].Value.Type,
			merged.Components.Schemas["Pair1"].Value.PrefixItems[1].Value.Type,
		})

		require.Len(t, merged.Webhooks, 2)
		schemaRef := func(hook string) string {
			return merged.Webhooks[hook].Post.RequestBody.Value.Content["application/json"].Schema.Ref
		}
		assert.Equal(t, "#/components/schemas/Pair", schemaRef("newPair"))
		assert.Equal(t, "#/components/schemas/Pair1", schemaRef("otherPair"))
		assert.Len(t, merged.Components.PathItems, 1, "identical path items are shared")
	})

	t.Run("path item components are renamed with their pointers", func(t *testing.T) {
		first := mustParse31(t, "integer", "pong")
		second := mustParse31(t, "integer", "still here")
		second.Paths["/ping2"] = second.Paths["/ping"]
		delete(second.Paths, "/ping")
		second.Webhooks = nil

		merged := mustMerge(t, inputs(first, second)...)
		assert.Equal(t, []string{"Pair"}, schemaNames(merged))
		require.Len(t, merged.Components.PathItems, 2)
		assert.Equal(t, "#/components/pathItems/Ping", merged.Paths["/ping"].Ref)
		assert.Equal(t, "#/components/pathItems/Ping1", merged.Paths["/ping2"].Ref)
		assert.Equal(t, "still here", merged.Components.PathItems["Ping1"].Value.Get.Responses["204"].Value.Description)
	})

	t.Run("webhook methods defined twice conflict", func(t *testing.T) {
		first := mustParse31(t, "integer", "pong")
		second := mustParse31(t, "integer", "pong")
		second.Webhooks["newPair"].Post.OperationID = ""
		delete(second.Paths, "/ping")

		doc, err := Merge(inputs(first, second))
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, oaserrors.ErrDuplicatePaths)

		var mergeErr *oaserrors.MergeError
		require.True(t, errors.As(err, &mergeErr))
		assert.Equal(t, "newPair", mergeErr.Name)
		assert.Contains(t, mergeErr.Message, "Input 1: The webhook 'newPair' has methods already defined by a previous input: post")
	})
}

func TestMerge_DiscriminatorSchemaNamesFollowRenames(t *testing.T) {
	const body = `
paths: {}
components:
  schemas:
    Pet%[1]s:
      oneOf: [{$ref: '#/components/schemas/Dog'}]
      discriminator:
        propertyName: kind
        mapping:
          dog: Dog
    Dog:
      type: object
      properties:
        bark: {type: %[2]s}
`
	first := mustParse(t, fmt.Sprintf(body, "", "string"))
	second := mustParse(t, fmt.Sprintf(body, "Two", "boolean"))

	merged := mustMerge(t, inputs(first, second)...)
	assert.Equal(t, []string{"Dog", "Dog1", "Pet", "PetTwo"}, schemaNames(merged))

	schemas := merged.Components.Schemas
	assert.Equal(t, "Dog", schemas["Pet"].Value.Discriminator.Mapping["dog"])
	assert.Equal(t, "Dog1", schemas["PetTwo"].Value.Discriminator.Mapping["dog"])
	assert.Equal(t, "#/components/schemas/Dog1", schemas["PetTwo"].Value.OneOf[0].Ref)
}

func TestMerge_ConflictBounds(t *testing.T) {
	t.Run("component names", func(t *testing.T) {
		schemas := map[string]*parser.RefOr[parser.Schema]{"A": parser.NewValue(&parser.Schema{Type: "string"})}
		for i := 1; i <= maxNumericSuffix; i++ {
			schemas["A"+strconv.Itoa(i)] = parser.NewValue(&parser.Schema{Type: "string"})
		}
		first := &parser.Document{
			OpenAPI:    "3.0.3",
			Info:       &parser.Info{Title: "crowded", Version: "1"},
			Paths:      parser.Paths{},
			Components: &parser.Components{Schemas: schemas},
		}
		second := mustParse(t, `
paths: {}
components:
  schemas:
    A: {type: boolean}
`)
		_, err := Merge(inputs(first, second))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrComponentConflict)
		assert.Contains(t, err.Error(), `Input 1: The "A" definition had a duplicate in a previous input and could not be deduplicated.`)
	})

	t.Run("operationIds", func(t *testing.T) {
		paths := parser.Paths{}
		for i := 0; i <= maxNumericSuffix; i++ {
			id := "op"
			if i > 0 {
				id += strconv.Itoa(i)
			}
			paths["/p"+strconv.Itoa(i)] = &parser.PathItem{Get: &parser.Operation{
				OperationID: id,
				Responses:   parser.Responses{"200": parser.NewValue(&parser.Response{Description: "ok"})},
			}}
		}
		first := &parser.Document{OpenAPI: "3.0.3", Info: &parser.Info{Title: "crowded", Version: "1"}, Paths: paths}
		second := mustParse(t, `
paths:
  /q:
    get:
      operationId: op
      responses: {'200': {description: ok}}
`)
		_, err := Merge(inputs(first, second))
		assert.ErrorIs(t, err, oaserrors.ErrOperationIDConflict)

		var mergeErr *oaserrors.MergeError
		require.True(t, errors.As(err, &mergeErr))
		assert.Equal(t, "op", mergeErr.Name)
	})
}

func TestMerge_ConcurrentCallsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	first := mustParse(t, fmt.Sprintf(cyclicFixture, "string"))
	second := mustParse(t, fmt.Sprintf(cyclicFixture, "integer"))

	const workers = 8
	docs := make([]*parser.Document, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs[i], errs[i] = Merge(inputs(first, second))
		}()
	}
	wg.Wait()

	want := parser.Tree(docs[0])
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Empty(t, cmp.Diff(want, parser.Tree(docs[i])), "worker %d", i)
	}
}

func TestRenameTable(t *testing.T) {
	table := renameTable{
		"#/components/schemas/A": "#/components/schemas/A1",
		"#/paths/~1a":            "#/paths/~1v2~1a",
	}
	tests := []struct {
		ref, want string
	}{
		{"#/components/schemas/A", "#/components/schemas/A1"},
		{"#/components/schemas/A/properties/id", "#/components/schemas/A1/properties/id"},
		{"#/components/schemas/AB", "#/components/schemas/AB"},
		{"#/paths/~1a/get", "#/paths/~1v2~1a/get"},
		{"#/paths/~1ab/get", "#/paths/~1ab/get"},
		{"other.yaml#/components/schemas/A", "other.yaml#/components/schemas/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.rewrite(tt.ref), tt.ref)
	}

	ambiguous := renameTable{"#/x": "#/y", "#/x/z": "#/w"}
	assert.Panics(t, func() { ambiguous.rewrite("#/x/z/q") })
}
