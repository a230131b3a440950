package joiner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmerge/parser"
)

// header is prepended to every YAML fixture.
const header = "openapi: 3.0.3\ninfo: {title: fixture, version: '1'}\n"

func mustParse(t *testing.T, body string) *parser.Document {
	t.Helper()
	doc, err := parser.ParseBytes([]byte(header + body))
	require.NoError(t, err)
	return doc
}

func mustMerge(t *testing.T, inputs ...Input) *parser.Document {
	t.Helper()
	doc, err := Merge(inputs)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func inputs(docs ...*parser.Document) []Input {
	out := make([]Input, len(docs))
	for i, d := range docs {
		out[i] = Input{Document: d}
	}
	return out
}

func schemaNames(doc *parser.Document) []string {
	if doc.Components == nil {
		return nil
	}
	return sectionFor("schemas").names(doc.Components)
}

func responseSchemaRef(t *testing.T, doc *parser.Document, path string) string {
	t.Helper()
	item := doc.Paths[path]
	require.NotNil(t, item, "missing path %s", path)
	resp := item.Get.Responses["200"]
	require.NotNil(t, resp)
	return resp.Value.Content["application/json"].Schema.Ref
}
