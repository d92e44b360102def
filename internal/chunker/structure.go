package chunker

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

var headingLineRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// section is one typed span found by the line scanner.
type section struct {
	typ            domain.ChunkType
	text           string
	headingLevel   int // 0 for non-headings
	sectionTitle   string
	parentSections []string
	standalone     bool // tables and code never merge with neighbours
}

// headingFrame is one entry of the heading-level stack.
type headingFrame struct {
	level int
	title string
}

// hasStructure reports whether structure parsing would find anything
// beyond plain paragraphs.
func hasStructure(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if headingLineRe.MatchString(trimmed) ||
			strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "|") ||
			isListItem(trimmed) {
			return true
		}
	}
	return false
}

// chunkStructure parses typed sections and assembles them into
// chunks. Tables and code blocks are always standalone; other
// adjacent sections merge greedily up to the target size, never
// exceeding the max size and never crossing a level-1 or level-2
// heading boundary.
func (c *Chunker) chunkStructure(content string) []domain.Chunk {
	sections := scanSections(content)
	return c.assemble(sections)
}

// scanSections walks the content line by line, tracking a heading
// stack so each section knows its enclosing headings outermost to
// innermost.
func scanSections(content string) []section {
	lines := strings.Split(content, "\n")

	var (
		sections []section
		stack    []headingFrame
		para     []string
	)

	currentTitle := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1].title
	}
	currentParents := func() []string {
		parents := make([]string, len(stack))
		for i, f := range stack {
			parents[i] = f.title
		}
		return parents
	}
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		sections = append(sections, section{
			typ:            domain.ChunkParagraph,
			text:           strings.Join(para, "\n"),
			sectionTitle:   currentTitle(),
			parentSections: currentParents(),
		})
		para = nil
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushPara()
			block := []string{lines[i]}
			for i++; i < len(lines); i++ {
				block = append(block, lines[i])
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
			}
			sections = append(sections, section{
				typ:            domain.ChunkCode,
				text:           strings.Join(block, "\n"),
				sectionTitle:   currentTitle(),
				parentSections: currentParents(),
				standalone:     true,
			})

		case headingLineRe.MatchString(trimmed):
			flushPara()
			m := headingLineRe.FindStringSubmatch(trimmed)
			level := len(m[1])
			title := strings.TrimSpace(m[2])

			// Pop frames at or below this level before recording
			// parents, so a heading's parents exclude itself and its
			// siblings.
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			sections = append(sections, section{
				typ:            domain.ChunkHeading,
				text:           trimmed,
				headingLevel:   level,
				sectionTitle:   title,
				parentSections: currentParents(),
			})
			stack = append(stack, headingFrame{level: level, title: title})

		case strings.HasPrefix(trimmed, "|"):
			flushPara()
			table := []string{lines[i]}
			for i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "|") {
				i++
				table = append(table, lines[i])
			}
			sections = append(sections, section{
				typ:            domain.ChunkTable,
				text:           strings.Join(table, "\n"),
				sectionTitle:   currentTitle(),
				parentSections: currentParents(),
				standalone:     true,
			})

		case isListItem(trimmed):
			flushPara()
			list := []string{lines[i]}
			for i+1 < len(lines) && isListItem(strings.TrimSpace(lines[i+1])) {
				i++
				list = append(list, lines[i])
			}
			sections = append(sections, section{
				typ:            domain.ChunkList,
				text:           strings.Join(list, "\n"),
				sectionTitle:   currentTitle(),
				parentSections: currentParents(),
			})

		case trimmed == "":
			flushPara()

		default:
			para = append(para, lines[i])
		}
	}
	flushPara()

	return sections
}

// assemble merges scanned sections into chunks.
func (c *Chunker) assemble(sections []section) []domain.Chunk {
	var (
		chunks []domain.Chunk
		buf    []section
		tokens int
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunks = append(chunks, mergeSections(buf))
		buf = nil
		tokens = 0
	}

	for _, sec := range sections {
		secTokens := estimateTokens(sec.text)

		if sec.standalone {
			// Tables and code are always their own chunk.
			flush()
			chunks = append(chunks, mergeSections([]section{sec}))
			continue
		}

		// A level-1 or level-2 heading starts a new chunk; content is
		// never merged across that boundary.
		if sec.typ == domain.ChunkHeading && sec.headingLevel <= 2 {
			flush()
		}

		// A single section over the max cannot merge with anything;
		// window it so no emitted chunk exceeds the max size.
		if secTokens > c.maxTokens {
			flush()
			chunks = append(chunks, c.splitOversized(sec)...)
			continue
		}

		if tokens+secTokens > c.maxTokens {
			flush()
		}

		buf = append(buf, sec)
		tokens += secTokens

		if tokens >= c.targetTokens {
			flush()
		}
	}
	flush()

	return chunks
}

// splitOversized windows one section whose text alone exceeds the max
// chunk size, carrying its heading context onto every piece.
func (c *Chunker) splitOversized(sec section) []domain.Chunk {
	pieces := c.chunkWindow(sec.text)
	for i := range pieces {
		pieces[i].Type = sec.typ
		pieces[i].SectionTitle = sec.sectionTitle
		pieces[i].ParentSections = sec.parentSections
	}
	return pieces
}

// mergeSections combines a run of sections into one chunk. A chunk of
// uniform section type keeps that type; mixed runs become mixed.
func mergeSections(secs []section) domain.Chunk {
	parts := make([]string, len(secs))
	typ := secs[0].typ
	for i, s := range secs {
		parts[i] = s.text
		if s.typ != typ {
			typ = domain.ChunkMixed
		}
	}

	return domain.Chunk{
		Content:        strings.Join(parts, "\n\n"),
		Type:           typ,
		SectionTitle:   secs[0].sectionTitle,
		ParentSections: secs[0].parentSections,
	}
}

func isListItem(trimmed string) bool {
	if strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "+ ") {
		return true
	}
	// Numbered items: "1. text".
	for i, r := range trimmed {
		if r >= '0' && r <= '9' {
			continue
		}
		return i > 0 && strings.HasPrefix(trimmed[i:], ". ")
	}
	return false
}
