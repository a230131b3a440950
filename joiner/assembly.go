package joiner

import (
	"slices"
	"strings"
	"unicode"

	"github.com/erraggy/oasmerge/parser"
)

// defaultOpenAPIVersion is used when the first input does not declare one.
const defaultOpenAPIVersion = "3.0.3"

// assemble builds the merged document from the filtered input copies and
// the merged paths and components.
func assemble(inputs []Input, docs []*parser.Document, acc *accumulator) *parser.Document {
	out := &parser.Document{
		OpenAPI:  docs[0].OpenAPI,
		Info:     mergeInfo(inputs, docs),
		Paths:    acc.paths,
		Webhooks: acc.webhooks,
		Tags:     mergeTags(inputs, docs),
		Extra:    mergeExtras(docs),
	}
	if out.OpenAPI == "" {
		out.OpenAPI = defaultOpenAPIVersion
	}

	// servers, security, externalDocs and jsonSchemaDialect are claimed
	// independently by the first input that defines each.
	for _, d := range docs {
		if out.JSONSchemaDialect == "" {
			out.JSONSchemaDialect = d.JSONSchemaDialect
		}
		if out.Servers == nil && d.Servers != nil {
			out.Servers = d.Servers
		}
		if out.Security == nil && d.Security != nil {
			out.Security = d.Security
		}
		if out.ExternalDocs == nil && d.ExternalDocs != nil {
			out.ExternalDocs = d.ExternalDocs
		}
	}

	if !acc.components.IsEmpty() {
		out.Components = acc.components
	}
	return out
}

// mergeInfo returns the first input's info. When any input appends its
// description, the merged description is the appended descriptions joined
// by a blank line.
func mergeInfo(inputs []Input, docs []*parser.Document) *parser.Info {
	info := docs[0].Info
	if info == nil {
		info = &parser.Info{}
	}

	var parts []string
	for i, in := range inputs {
		if in.Description == nil || !in.Description.Append {
			continue
		}
		if part, ok := describe(docs[i].Info, in.Description.Title); ok {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		info.Description = strings.Join(parts, "\n\n")
	}
	return info
}

// describe renders one appended description. Inputs without a description
// contribute nothing, not even their heading.
func describe(info *parser.Info, title *DescriptionTitle) (string, bool) {
	if info == nil || info.Description == "" {
		return "", false
	}
	if title == nil {
		return info.Description, true
	}
	level := title.HeadingLevel
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title.Value + "\n\n" +
		strings.TrimRightFunc(info.Description, unicode.IsSpace), true
}

// mergeTags unions the tag lists by name in first-seen order. Each input's
// excluded tags are removed from its own list first.
func mergeTags(inputs []Input, docs []*parser.Document) []*parser.Tag {
	var tags []*parser.Tag
	seen := make(map[string]struct{})
	for i, d := range docs {
		var excluded []string
		if sel := inputs[i].OperationSelection; sel != nil {
			excluded = sel.ExcludeTags
		}
		for _, t := range d.Tags {
			if t == nil || slices.Contains(excluded, t.Name) {
				continue
			}
			if _, ok := seen[t.Name]; ok {
				continue
			}
			seen[t.Name] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// mergeExtras merges the top-level members the model does not declare, first
// input wins. Extensions and unknown members follow the same rule.
func mergeExtras(docs []*parser.Document) map[string]any {
	var ext map[string]any
	for _, d := range docs {
		for k, v := range d.Extra {
			if ext == nil {
				ext = make(map[string]any)
			}
			if _, ok := ext[k]; !ok {
				ext[k] = v
			}
		}
	}
	return ext
}
