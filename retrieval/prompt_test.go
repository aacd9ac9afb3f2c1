package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/Semara-26/shiki-pilot/core"
)

func TestBuildSystemPrompt(t *testing.T) {
	candidates := []*core.RankedProduct{
		{Product: &core.Product{Name: "Beras Premium", Price: 75000, Stock: 20, Description: "Beras pulen 5kg"}, Distance: 0.1},
		{Product: &core.Product{Name: "Gula Pasir", Price: 16000, Stock: 35, Description: "Gula pasir 1kg"}, Distance: 0.4},
	}

	t.Run("grounded tier lists candidates in order", func(t *testing.T) {
		prompt := BuildSystemPrompt(&Result{Candidates: candidates, CatalogCount: 12})

		assert.Contains(t, prompt, "berdasarkan data produk berikut")
		assert.Contains(t, prompt, "- Beras Premium: Rp 75000, stok 20. Deskripsi: Beras pulen 5kg")
		assert.Contains(t, prompt, "- Gula Pasir: Rp 16000, stok 35. Deskripsi: Gula pasir 1kg")
		assert.Less(t, strings.Index(prompt, "Beras Premium"), strings.Index(prompt, "Gula Pasir"))
	})

	t.Run("no candidates with catalog uses general tier", func(t *testing.T) {
		prompt := BuildSystemPrompt(&Result{CatalogCount: 12})

		assert.Contains(t, prompt, "ramah dan singkat")
		assert.NotContains(t, prompt, "Data Produk")
		assert.NotContains(t, prompt, "belum ada data produk")
	})

	t.Run("empty catalog uses no-catalog tier", func(t *testing.T) {
		prompt := BuildSystemPrompt(&Result{CatalogCount: 0})

		assert.Contains(t, prompt, "belum ada data produk")
	})

	t.Run("skipped query uses general tier", func(t *testing.T) {
		prompt := BuildSystemPrompt(&Result{QuerySkipped: true})
		assert.Contains(t, prompt, "ramah dan singkat")
	})

	t.Run("nil result uses general tier", func(t *testing.T) {
		prompt := BuildSystemPrompt(nil)
		assert.Contains(t, prompt, "ramah dan singkat")
	})
}
