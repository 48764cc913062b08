// internal/workers/search/resolve-variations/handler_test.go
package resolvevariations

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type stubAsker struct {
	reply   string
	panics  bool
	prompts []string
}

func (s *stubAsker) Ask(ctx context.Context, prompt, lang string) string {
	s.prompts = append(s.prompts, prompt)
	if s.panics {
		panic("unexpected")
	}
	return s.reply
}

func createTestHandler(t *testing.T, asker Asker) *Handler {
	return NewHandler(asker, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  *models.VariationSet
	}{
		{
			name:  "specific reply passes through unchanged",
			reply: `{"is_specific": true, "variations": [], "category":"x"}`,
			want:  &models.VariationSet{Variations: []models.Variation{}, IsSpecific: true, Category: "x"},
		},
		{
			name:  "general reply lists variations",
			reply: `{"is_specific":false,"variations":[{"name":"iPhone 15","query":"iphone 15"}],"category":"smartphone"}`,
			want: &models.VariationSet{
				Variations: []models.Variation{{Name: "iPhone 15", Query: "iphone 15"}},
				IsSpecific: false,
				Category:   "smartphone",
			},
		},
		{
			name:  "prose around flat object",
			reply: `Here it is: {"is_specific": true, "variations": [], "category": "drill"} thanks`,
			want:  &models.VariationSet{Variations: []models.Variation{}, IsSpecific: true, Category: "drill"},
		},
		{
			name:  "malformed reply",
			reply: "I am not sure what you mean.",
			want:  models.DefaultVariationSet(),
		},
		{
			name:  "empty reply",
			reply: "",
			want:  models.DefaultVariationSet(),
		},
		{
			name:  "nested reply inside prose only yields an inner variation object",
			reply: `Sure: {"is_specific":false,"variations":[{"name":"Knockout 2","query":"knockout 2"}]}`,
			want:  models.DefaultVariationSet(),
		},
		{
			name:  "wrong field types",
			reply: `{"is_specific":"yes","variations":"many"}`,
			want:  models.DefaultVariationSet(),
		},
		{
			name:  "missing query is derived from name",
			reply: `{"is_specific":false,"variations":[{"name":"Knockout Extra"},{"query":"nameless"}],"category":"midi_controller"}`,
			want: &models.VariationSet{
				Variations: []models.Variation{{Name: "Knockout Extra", Query: "knockout extra"}},
				Category:   "midi_controller",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &stubAsker{reply: tt.reply}
			handler := createTestHandler(t, asker)

			got := handler.Resolve(context.Background(), "iphone")

			assert.Equal(t, tt.want, got)
			require.Len(t, asker.prompts, 1)
		})
	}
}

func TestHandler_Resolve_CapsVariations(t *testing.T) {
	items := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, fmt.Sprintf(`{"name":"Model %d","query":"model %d"}`, i, i))
	}
	reply := `{"is_specific":false,"category":"camera","variations":[` + strings.Join(items, ",") + `]}`

	got := createTestHandler(t, &stubAsker{reply: reply}).Resolve(context.Background(), "camera")

	assert.Len(t, got.Variations, MaxVariations)
	assert.Equal(t, "Model 0", got.Variations[0].Name)
}

func TestHandler_Resolve_RecoversFromPanic(t *testing.T) {
	got := createTestHandler(t, &stubAsker{panics: true}).Resolve(context.Background(), "iphone")
	assert.Equal(t, models.DefaultVariationSet(), got)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("knockout midi controller")

	assert.Contains(t, prompt, "For the query: knockout midi controller")
	assert.Contains(t, prompt, "(max 20)")
	assert.Contains(t, prompt, `"is_specific": true`)
}
