package jsontree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputRecord = `{
	"dedup_key": "6fcb9fe530c24613ed1df3e51c0e86addd794251f49ec6cd77fd4381cc0e0ac2",
	"description": "First: bk Second: 4 Third: 13 Fourth: Jack, tr Sec  [Encased string - (data)] (<a href='https://example.com/doc1/182031340621?pdf_header=&de_seq_num=44&caseid=456177'>9</a>)",
	"last_build_date": "Tue, 18 Apr 2023 15:00:01 GMT",
	"link": "https://www.example.comv/cgi-bin/DktRpt.pl?456177",
	"pub_date": "Mon, 17 Apr 2023 15:54:45 GMT",
	"title": "23-20670 Abby Lynn Hardy",
	"name": {
		"first": "Abby",
		"last": "Hardy",
		"ssn": "123-45-6789"
	}
}`

func mustParse(t *testing.T, data string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return doc
}

func TestReadStringPassthrough(t *testing.T) {
	doc := mustParse(t, inputRecord)

	// Strings come back verbatim, no quoting added
	want := "First: bk Second: 4 Third: 13 Fourth: Jack, tr Sec  [Encased string - (data)] (<a href='https://example.com/doc1/182031340621?pdf_header=&de_seq_num=44&caseid=456177'>9</a>)"
	assert.Equal(t, want, Read(doc, "/description"))

	// Nested node
	assert.Equal(t, "Hardy", Read(doc, "/name/last"))
}

func TestReadNonStringSerializesToJSON(t *testing.T) {
	doc := mustParse(t, inputRecord)

	// Nested tree serializes to compact JSON
	got := Read(doc, "/name")
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &tree))
	assert.Equal(t, map[string]any{
		"first": "Abby",
		"last":  "Hardy",
		"ssn":   "123-45-6789",
	}, tree)

	scalars := mustParse(t, `{"n": 42, "f": 1.5, "b": true, "nil": null, "arr": [1, "two"]}`)
	assert.Equal(t, "42", Read(scalars, "/n"))
	assert.Equal(t, "1.5", Read(scalars, "/f"))
	assert.Equal(t, "true", Read(scalars, "/b"))
	assert.Equal(t, "null", Read(scalars, "/nil"))
	assert.Equal(t, `[1,"two"]`, Read(scalars, "/arr"))
}

func TestReadAbsentReturnsEmpty(t *testing.T) {
	doc := mustParse(t, inputRecord)

	tests := []struct {
		name    string
		pointer string
	}{
		{"missing key", "/invalid"},
		{"missing nested key", "/name/middle"},
		{"traverses through scalar", "/title/deeper"},
		{"no leading separator", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", Read(doc, tt.pointer))
		})
	}
}

func TestReadRootPointer(t *testing.T) {
	doc := mustParse(t, `{"a": 1}`)
	assert.Equal(t, `{"a":1}`, Read(doc, ""))

	// A non-object document resolves at the root too
	assert.Equal(t, "plain", Read(any("plain"), ""))
}

func TestReadArrayIndexing(t *testing.T) {
	doc := mustParse(t, `{"items": [{"id": "a"}, {"id": "b"}]}`)

	assert.Equal(t, "a", Read(doc, "/items/0/id"))
	assert.Equal(t, "b", Read(doc, "/items/1/id"))

	// Out-of-range and malformed indexes are absent, not errors
	assert.Equal(t, "", Read(doc, "/items/2"))
	assert.Equal(t, "", Read(doc, "/items/-1"))
	assert.Equal(t, "", Read(doc, "/items/01"))
	assert.Equal(t, "", Read(doc, "/items/id"))
}

func TestReadEscapedTokens(t *testing.T) {
	doc := mustParse(t, `{"a/b": "slash", "m~n": "tilde"}`)

	assert.Equal(t, "slash", Read(doc, "/a~1b"))
	assert.Equal(t, "tilde", Read(doc, "/m~0n"))
}

func TestResolve(t *testing.T) {
	doc := mustParse(t, `{"root": {"leaf": 3}}`)

	v, ok := Resolve(doc, "/root/leaf")
	require.True(t, ok)
	assert.Equal(t, float64(3), v)

	_, ok = Resolve(doc, "/root/other")
	assert.False(t, ok)

	v, ok = Resolve(doc, "")
	require.True(t, ok)
	assert.Equal(t, doc, v)
}
