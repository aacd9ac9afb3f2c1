package retrieval

import (
	"fmt"
	"strings"
)

// Assistant instruction texts. The assistant speaks Indonesian to match its
// audience of small-business owners.
const (
	promptGeneral = "Kamu adalah asisten toko bernama ShikiPilot. Jawab pertanyaan dengan ramah dan singkat."

	promptGroundedHeader = "Kamu adalah asisten toko bernama ShikiPilot. Jawab pertanyaan berdasarkan data produk berikut. Jika tidak ada di data, jawab dengan sopan bahwa kamu tidak tahu.\n\nData Produk:\n"

	promptNoCatalog = "Kamu adalah asisten toko bernama ShikiPilot. Saat ini belum ada data produk. Jawab dengan sopan bahwa informasi produk belum tersedia."
)

// BuildSystemPrompt assembles the system instruction for one answer from
// the retrieval result. Three tiers:
//
//   - candidates found: the grounded instruction with one line per product,
//     ordered as retrieved, telling the model to answer strictly from that
//     data.
//   - nothing retrieved but the catalog has products: the general
//     instruction, with no product context.
//   - empty catalog: the instruction to say product information is not
//     available yet.
//
// A skipped (blank) query always gets the general instruction.
func BuildSystemPrompt(result *Result) string {
	if result == nil || result.QuerySkipped {
		return promptGeneral
	}
	if len(result.Candidates) > 0 {
		lines := make([]string, len(result.Candidates))
		for i, candidate := range result.Candidates {
			p := candidate.Product
			lines[i] = fmt.Sprintf("- %s: Rp %d, stok %d. Deskripsi: %s", p.Name, p.Price, p.Stock, p.Description)
		}
		return promptGroundedHeader + strings.Join(lines, "\n")
	}
	if result.CatalogCount == 0 {
		return promptNoCatalog
	}
	return promptGeneral
}
