// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasmerge/parser"
)

// PetsSpec is a small OAS 3.0 document with a Pet schema shared by two
// operations and a security scheme.
const PetsSpec = `openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
  description: Pets service.
servers:
  - url: https://pets.example.com
tags:
  - name: pets
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
  /pets/{id}:
    get:
      operationId: getPet
      tags: [pets]
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
components:
  schemas:
    Pet:
      type: object
      properties:
        id: {type: string}
        name: {type: string}
  securitySchemes:
    apiKey: {type: apiKey, in: header, name: X-API-Key}
`

// BillingSpec is a small OAS 3.0 document whose Pet schema differs from
// the one in PetsSpec and whose getPet operationId collides with it.
const BillingSpec = `openapi: 3.0.3
info:
  title: Billing
  version: 2.0.0
  description: Billing service.
tags:
  - name: billing
  - name: internal
paths:
  /v1/invoices:
    get:
      operationId: listInvoices
      tags: [billing]
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Invoice'}
  /v1/invoices/pet:
    get:
      operationId: getPet
      tags: [billing]
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
  /v1/admin:
    post:
      operationId: rebuild
      tags: [internal]
      responses:
        '204': {description: done}
components:
  schemas:
    Invoice:
      type: object
      properties:
        amount: {type: number}
        pet: {$ref: '#/components/schemas/Pet'}
    Pet:
      type: object
      properties:
        id: {type: integer}
`

// MustParse decodes a fixture document and fails the test on error.
func MustParse(t *testing.T, content string) *parser.Document {
	t.Helper()

	doc, err := parser.ParseBytes([]byte(content))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return doc
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// WriteConfig marshals a configuration value to JSON in dir and returns the
// path to the file.
func WriteConfig(t *testing.T, dir string, cfg any) string {
	t.Helper()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal configuration: %v", err)
	}
	return WriteFile(t, dir, "openapi-merge.json", string(data))
}

// WriteTempYAML writes a document as YAML to a temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc *parser.Document) string {
	t.Helper()
	return writeTemp(t, doc, "test.yaml")
}

// WriteTempJSON writes a document as JSON to a temporary file.
func WriteTempJSON(t *testing.T, doc *parser.Document) string {
	t.Helper()
	return writeTemp(t, doc, "test.json")
}

func writeTemp(t *testing.T, doc *parser.Document, name string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := parser.WriteDocument(doc, tmpFile); err != nil {
		t.Fatalf("Failed to write temporary document: %v", err)
	}
	return tmpFile
}
