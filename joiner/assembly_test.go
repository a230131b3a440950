package joiner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmerge/parser"
)

func describedDoc(t *testing.T, description string) *parser.Document {
	t.Helper()
	doc := mustParse(t, "paths: {}\n")
	doc.Info.Description = description
	return doc
}

func TestMerge_DescriptionConcatenation(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
		want   string
	}{
		{
			name: "non-appending inputs are skipped with their heading",
			inputs: []Input{
				{Document: describedDoc(t, "First"), Description: &DescriptionRule{Append: true}},
				{Document: describedDoc(t, "Second")},
				{Document: describedDoc(t, "Third"), Description: &DescriptionRule{
					Append: true,
					Title:  &DescriptionTitle{Value: "Third heading"},
				}},
			},
			want: "First\n\n# Third heading\n\nThird",
		},
		{
			name: "heading level and trailing whitespace",
			inputs: []Input{
				{Document: describedDoc(t, "Intro")},
				{Document: describedDoc(t, "Body text\n\n"), Description: &DescriptionRule{
					Append: true,
					Title:  &DescriptionTitle{Value: "Billing", HeadingLevel: 3},
				}},
			},
			want: "### Billing\n\nBody text",
		},
		{
			name: "inputs without a description contribute nothing",
			inputs: []Input{
				{Document: describedDoc(t, "Kept"), Description: &DescriptionRule{Append: true}},
				{Document: describedDoc(t, ""), Description: &DescriptionRule{
					Append: true,
					Title:  &DescriptionTitle{Value: "Empty"},
				}},
			},
			want: "Kept",
		},
		{
			name: "append false is the same as no rule",
			inputs: []Input{
				{Document: describedDoc(t, "Original"), Description: &DescriptionRule{Append: false}},
				{Document: describedDoc(t, "Ignored")},
			},
			want: "Original",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := mustMerge(t, tt.inputs...)
			assert.Equal(t, tt.want, merged.Info.Description)
		})
	}
}

func TestMerge_TopLevelFields(t *testing.T) {
	first := mustParse(t, `
tags:
  - name: pets
  - name: internal
paths: {}
x-team: core
`)
	second := mustParse(t, `
servers:
  - url: https://second.example.com
tags:
  - name: pets
    description: ignored duplicate
  - name: billing
  - name: hidden
paths: {}
x-team: billing
x-owner: finance
`)
	third := mustParse(t, `
servers:
  - url: https://third.example.com
security:
  - apiKey: []
externalDocs: {url: https://docs.example.com}
tags:
  - name: internal
  - name: zoo
paths: {}
`)
	merged := mustMerge(t,
		Input{Document: first, OperationSelection: &OperationSelection{ExcludeTags: []string{"internal"}}},
		Input{Document: second, OperationSelection: &OperationSelection{IncludeTags: []string{"pets"}, ExcludeTags: []string{"hidden"}}},
		Input{Document: third},
	)

	assert.Equal(t, "3.0.3", merged.OpenAPI)
	assert.Equal(t, "fixture", merged.Info.Title, "info comes from the first input")

	require.Len(t, merged.Servers, 1)
	assert.Equal(t, "https://second.example.com", merged.Servers[0].URL)
	assert.Equal(t, []parser.SecurityRequirement{{"apiKey": {}}}, merged.Security)
	require.NotNil(t, merged.ExternalDocs)
	assert.Equal(t, "https://docs.example.com", merged.ExternalDocs.URL)

	var tagNames []string
	for _, tag := range merged.Tags {
		tagNames = append(tagNames, tag.Name)
	}
	// internal is excluded by the first input only, so the third brings it back
	assert.Equal(t, []string{"pets", "billing", "internal", "zoo"}, tagNames)
	assert.Empty(t, merged.Tags[0].Description)

	assert.Equal(t, map[string]any{"x-team": "core", "x-owner": "finance"}, merged.Extra)
	assert.Nil(t, merged.Components, "empty components are omitted")
}

func TestMerge_OpenAPIVersion(t *testing.T) {
	doc := mustParse(t, "paths: {}\n")
	doc.OpenAPI = ""
	assert.Equal(t, defaultOpenAPIVersion, mustMerge(t, Input{Document: doc}).OpenAPI)

	doc.OpenAPI = "3.1.0"
	assert.Equal(t, "3.1.0", mustMerge(t, Input{Document: doc}).OpenAPI)
}

func TestMerge_OutputRoundTrips(t *testing.T) {
	first := mustParse(t, `
paths:
  /a:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
components:
  schemas:
    A: {type: string}
`)
	second := mustParse(t, `
paths:
  /b:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
components:
  schemas:
    A: {type: integer}
`)
	merged := mustMerge(t, inputs(first, second)...)

	for _, format := range []parser.SourceFormat{parser.SourceFormatJSON, parser.SourceFormatYAML} {
		data, err := parser.MarshalDocument(merged, format)
		require.NoError(t, err)
		again, err := parser.ParseBytes(data)
		require.NoError(t, err)
		assert.Equal(t, parser.Tree(merged), parser.Tree(again), string(format))
	}
}
