package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/schemas"
	rootschemas "github.com/jonathan/portfolio-site/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioSchema_ValidJSON(t *testing.T) {
	var schemaObj map[string]interface{}
	require.NoError(t, json.Unmarshal(rootschemas.Portfolio, &schemaObj))

	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasSchema, "schema should declare $schema")
	assert.True(t, hasProps, "schema should declare properties")
}

func TestPortfolioSchema_AcceptsDefaultContent(t *testing.T) {
	err := schemas.ValidateBytes(rootschemas.Portfolio, content.DefaultJSON())
	assert.NoError(t, err)
}

func TestPortfolioSchema_RejectsBadCertificateCategory(t *testing.T) {
	doc := `{
		"profile": {"name": "A", "headline": "B", "email": "a@b.co", "resume_path": "/cv.pdf"},
		"projects": [],
		"certificates": [{"title": "X", "category": "medal"}]
	}`

	err := schemas.ValidateBytes(rootschemas.Portfolio, []byte(doc))
	require.Error(t, err)

	validationErr, ok := err.(*schemas.ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Contains(t, validationErr.Errors[0].Field, "category")
}

func TestPortfolioSchema_RejectsUnknownField(t *testing.T) {
	doc := `{
		"profile": {"name": "A", "headline": "B", "email": "a@b.co", "resume_path": "/cv.pdf", "age": 3},
		"projects": []
	}`

	assert.Error(t, schemas.ValidateBytes(rootschemas.Portfolio, []byte(doc)))
}
