// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaysh/internal/models"
)

func validCard() models.ResultCard {
	return models.ResultCard{
		Name:        "iphone",
		Description: []string{"A smartphone"},
		SourceInfo:  "AI-generated information based on available data",
		ActionBoxes: []models.ActionBox{
			{
				Type:       models.BoxTypeVariations,
				Title:      "Select Model",
				Variations: []models.Variation{{Name: "iPhone 15", Query: "iphone 15"}},
				Actions:    []models.Action{{Type: models.ActionTypeSearch, Label: "iPhone 15", Query: "iphone 15"}},
			},
			{Type: models.BoxTypePlaceholder, Title: "User Opinions", Message: "No opinions available yet"},
			{Type: models.BoxTypePlaceholder, Title: "Manuals & Tutorials", Message: "No manuals available yet"},
		},
		Suggestions: []models.Suggestion{{Text: "Wondering what exactly 'iphone' is?", Category: "manual"}},
		Actions:     []models.Action{models.ChatAction("iphone")},
	}
}

func TestValidateResultCards(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *models.ResultCard)
		wantValid bool
	}{
		{name: "valid card", mutate: func(c *models.ResultCard) {}, wantValid: true},
		{name: "degraded card without boxes", mutate: func(c *models.ResultCard) { c.ActionBoxes = []models.ActionBox{} }, wantValid: true},
		{name: "empty description", mutate: func(c *models.ResultCard) { c.Description = []string{} }, wantValid: false},
		{name: "nil description", mutate: func(c *models.ResultCard) { c.Description = nil }, wantValid: false},
		{name: "empty name", mutate: func(c *models.ResultCard) { c.Name = "" }, wantValid: false},
		{name: "unknown box type", mutate: func(c *models.ResultCard) { c.ActionBoxes[0].Type = "carousel" }, wantValid: false},
		{name: "unknown action type", mutate: func(c *models.ResultCard) { c.Actions[0].Type = "call" }, wantValid: false},
		{name: "no actions", mutate: func(c *models.ResultCard) { c.Actions = []models.Action{} }, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)

			result, err := ValidateResultCards([]models.ResultCard{card})

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.GetErrorMessages())
			if !tt.wantValid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestValidateResultCards_EmptyList(t *testing.T) {
	result, err := ValidateResultCards([]models.ResultCard{})

	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidator_FieldErrors(t *testing.T) {
	v, err := NewValidator(`{"type":"object","required":["query"],"properties":{"query":{"type":"string"},"limit":{"type":"integer","minimum":1}}}`)
	require.NoError(t, err)

	result, err := v.Validate(map[string]interface{}{"limit": 0})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("limit"))
	assert.Len(t, result.GetErrorsForField("limit"), 1)
	assert.Len(t, result.GetErrorMessages(), 2)
}

func TestNewValidator_InvalidSchema(t *testing.T) {
	_, err := NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://example.com/manual.pdf"))
	assert.True(t, ValidateURL("http://127.0.0.1:8080/x"))
	assert.False(t, ValidateURL("ftp://example.com/file"))
	assert.False(t, ValidateURL("not a url"))
	assert.False(t, ValidateURL(""))
}
