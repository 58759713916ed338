package report

// dutchLabels maps report keys to their Dutch labels.
var dutchLabels = map[string]string{
	"seo_analysis_report":   "SEO Analyse Rapport",
	"moz_metrics":           "Moz Statistieken",
	"scraped_data":          "Opgehaalde Gegevens",
	"generated_by_seo_tool": "Gegenereerd door SEO Analyse Tool",

	"domain_authority": "Domein Autoriteit",
	"page_authority":   "Pagina Autoriteit",
	"backlinks":        "Backlinks",
	"total_links":      "Totale Links",
	"linking_domains":  "Verwijzende Domeinen",
	"spam_score":       "Spam Score",
	"last_crawled":     "Laatst Gecrawld",

	"technical_seo":       "Technische SEO",
	"meta_tags":           "Meta Tags",
	"missing_meta":        "Ontbrekende Meta Tags",
	"image_optimization":  "Afbeeldingsoptimalisatie",
	"headings":            "Koppen",
	"links":               "Links",
	"content_quality":     "Content Kwaliteit",
	"word_count":          "Aantal Woorden",
	"paragraphs":          "Paragrafen",
	"has_structured_data": "Bevat Gestructureerde Gegevens",

	"high":   "Hoog",
	"medium": "Gemiddeld",
	"low":    "Laag",

	"estimated_cost": "Geschatte Kosten",

	"overview":        "Overzicht",
	"issues":          "Problemen",
	"recommendations": "Aanbevelingen",
	"total":           "Totaal",
	"status":          "Status",
	"priority":        "Prioriteit",
	"action_required": "Actie Vereist",
}

// Translate returns the Dutch label for key, or the key itself when no
// translation exists.
func Translate(key string) string {
	if label, ok := dutchLabels[key]; ok {
		return label
	}
	return key
}
