package domain

import "strings"

// DocType is the normalised document type used for per-type handling:
// gate thresholds, chunking strategy selection and summary prompts.
type DocType string

// Normalised document types.
const (
	DocTypeLegal   DocType = "legal"
	DocTypeReport  DocType = "report"
	DocTypeEmail   DocType = "email"
	DocTypeWeb     DocType = "web"
	DocTypeText    DocType = "text"
	DocTypeChat    DocType = "chat"
	DocTypeNote    DocType = "note"
	DocTypeGeneric DocType = "generic"
)

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// docTypeKeywords maps label keywords to normalised types. Checked in
// a fixed order so overlapping labels resolve deterministically.
var docTypeKeywords = []struct {
	keywords []string
	docType  DocType
}{
	{[]string{"legal", "contract", "vertrag"}, DocTypeLegal},
	{[]string{"pdf", "report", "scan"}, DocTypeReport},
	{[]string{"email", "mail", "thread"}, DocTypeEmail},
	{[]string{"web", "article", "html", "url"}, DocTypeWeb},
	{[]string{"chat", "daily", "conversation", "whatsapp", "telegram"}, DocTypeChat},
	{[]string{"note", "memo"}, DocTypeNote},
	{[]string{"text", "txt", "plain", "markdown"}, DocTypeText},
}

// NormalizeDocType maps a free-text type label to a DocType via
// keyword matching, defaulting to generic.
func NormalizeDocType(label string) DocType {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return DocTypeGeneric
	}
	for _, entry := range docTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(label, kw) {
				return entry.docType
			}
		}
	}
	return DocTypeGeneric
}

// ChunkStrategy names how a document type should be split.
type ChunkStrategy string

// Chunking strategies.
const (
	// StrategyStructure parses headings, tables, code and lists.
	StrategyStructure ChunkStrategy = "structure"

	// StrategyWindow splits into fixed windows with overlap.
	StrategyWindow ChunkStrategy = "window"

	// StrategyTurns groups conversational speaker turns.
	StrategyTurns ChunkStrategy = "turns"
)

// Capabilities describes per-type handling. This is a capability
// table keyed by DocType rather than per-type subclasses: every type
// provides the same operations and new types are added by appending
// a row.
type Capabilities struct {
	// Strategy selects the chunking approach.
	Strategy ChunkStrategy

	// SummaryPrompt is the enrichment summary instruction for this type.
	SummaryPrompt string

	// PreserveLayout keeps exact whitespace during preprocessing
	// (tables and code suffer from collapsed whitespace).
	PreserveLayout bool
}

var capabilityTable = map[DocType]Capabilities{
	DocTypeLegal:   {StrategyStructure, "Summarise the obligations, parties and deadlines.", true},
	DocTypeReport:  {StrategyStructure, "Summarise the findings and figures.", true},
	DocTypeEmail:   {StrategyWindow, "Summarise the request and any decisions.", false},
	DocTypeWeb:     {StrategyStructure, "Summarise the article's main points.", false},
	DocTypeText:    {StrategyStructure, "Summarise the key points.", false},
	DocTypeChat:    {StrategyTurns, "Summarise what was discussed and agreed.", false},
	DocTypeNote:    {StrategyStructure, "Summarise the note in one sentence.", false},
	DocTypeGeneric: {StrategyStructure, "Summarise the key points.", false},
}

// CapabilitiesFor returns the handling table entry for a type.
// Unknown types fall back to the generic row.
func CapabilitiesFor(t DocType) Capabilities {
	if caps, ok := capabilityTable[t]; ok {
		return caps
	}
	return capabilityTable[DocTypeGeneric]
}
