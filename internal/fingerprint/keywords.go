package fingerprint

// Keywords holds the triage cascade's keyword lists. The lists are
// configuration data, not logic: callers may override any of them via
// config while the cascade structure and ordering stay fixed. Defaults
// mix German and English because the corpus does.
type Keywords struct {
	// Junk marks promotional or boilerplate content.
	Junk []string

	// LifeEvent marks personally actionable documents.
	LifeEvent []string

	// Financial marks invoices, statements and tax documents.
	Financial []string

	// Deadline marks documents whose dates matter.
	Deadline []string
}

// DefaultKeywords returns the built-in keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Junk: []string{
			"unsubscribe", "click here", "limited offer", "newsletter abbestellen",
			"sonderangebot", "gewinnspiel", "viagra", "lottery", "act now",
			"no longer wish to receive",
		},
		LifeEvent: []string{
			"geburt", "birth", "hochzeit", "wedding", "umzug", "moving house",
			"kündigung", "resignation", "arztbesuch", "doctor appointment",
			"anniversary", "jubiläum",
		},
		Financial: []string{
			"rechnung", "invoice", "zahlung", "payment", "iban", "überweisung",
			"steuer", "tax", "mahnung", "reminder fee", "kontoauszug", "statement",
		},
		Deadline: []string{
			"deadline", "frist", "due", "fällig", "termin", "expires",
			"valid until", "gültig bis", "renewal", "verlängerung",
		},
	}
}
