// Package extractor turns a patch-notes document into structured entries.
//
// The document is first flattened into a sequence of semantic nodes (see
// ParseHTML); Extract then folds that sequence into PatchNoteEntry values.
// Extraction is best effort: nodes that make no sense in the current state
// are skipped and whatever was parsed is returned.
package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/trend"
	"github.com/google/uuid"
)

// BugFixTitle is the title given to every synthetic bug-fix entry.
const BugFixTitle = "Исправление ошибки"

var bugFixNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("patch-meta/bugfix"))

// state is the accumulator threaded through the fold.
type state struct {
	category    domain.PatchCategory
	pendingIcon *string
	open        *domain.PatchNoteEntry
	notes       []domain.PatchNoteEntry
}

// Extract folds a node sequence into patch-note entries.
func Extract(nodes []Node) []domain.PatchNoteEntry {
	s := state{category: domain.CategoryUnknown}
	for _, n := range nodes {
		s = step(s, n)
	}
	s = flush(s)
	if s.notes == nil {
		return []domain.PatchNoteEntry{}
	}
	return s.notes
}

// ExtractHTML parses an HTML patch-notes page and extracts its entries.
// Unparseable input yields an empty list.
func ExtractHTML(r io.Reader) []domain.PatchNoteEntry {
	nodes, err := ParseHTML(r)
	if err != nil {
		return []domain.PatchNoteEntry{}
	}
	return Extract(nodes)
}

func step(s state, n Node) state {
	switch n.Kind {
	case KindHeading:
		s.category = CategoryFor(n.ID)

	case KindBlockStart:
		s = flush(s)
		s.pendingIcon = nil

	case KindBlockEnd:
		s = flush(s)
		s.pendingIcon = nil

	case KindReference:
		s.pendingIcon = domain.StringPtr(CleanImageURL(strings.TrimSpace(n.URL)))

	case KindTitle:
		s = flush(s)
		title := strings.TrimSpace(n.Text)
		if title == "" || IsChromeTitle(title) {
			s.pendingIcon = nil
			return s
		}
		s.open = &domain.PatchNoteEntry{
			ID:         title,
			Title:      title,
			ImageURL:   s.pendingIcon,
			Category:   s.category,
			ChangeType: domain.ChangeAdjusted,
			Details:    []domain.ChangeBlock{},
		}
		s.pendingIcon = nil

	case KindSummary:
		if s.open != nil {
			s.open.Summary = strings.TrimSpace(n.Text)
		}

	case KindDetailTitle:
		if s.open != nil {
			s.open.Details = append(s.open.Details, domain.ChangeBlock{
				Title:   domain.StringPtr(strings.TrimSpace(n.Text)),
				IconURL: domain.StringPtr(CleanImageURL(strings.TrimSpace(n.URL))),
				Changes: []string{},
			})
		}

	case KindList:
		if s.open != nil {
			s.open.Details = appendChanges(s.open.Details, n.Items)
		}

	case KindBugFixRegion:
		if s.category == domain.CategoryBugFixes {
			s.notes = appendBugFixes(s.notes, n.Items)
		}
	}
	return s
}

// flush finalizes the open entry, if any, and moves it to the output.
func flush(s state) state {
	if s.open == nil {
		return s
	}
	entry := *s.open
	entry.ChangeType = trend.Classify(strings.Join(entry.ChangeLines(), " "))
	s.notes = append(s.notes, entry)
	s.open = nil
	return s
}

func appendChanges(blocks []domain.ChangeBlock, items []string) []domain.ChangeBlock {
	changes := make([]string, 0, len(items))
	for _, item := range items {
		if text := strings.TrimSpace(item); text != "" {
			changes = append(changes, text)
		}
	}
	if len(changes) == 0 {
		return blocks
	}
	if len(blocks) == 0 {
		return append(blocks, domain.ChangeBlock{Changes: changes})
	}
	last := &blocks[len(blocks)-1]
	last.Changes = append(last.Changes, changes...)
	return blocks
}

func appendBugFixes(notes []domain.PatchNoteEntry, items []string) []domain.PatchNoteEntry {
	for _, item := range items {
		text := strings.TrimSpace(item)
		if text == "" {
			continue
		}
		id := uuid.NewSHA1(bugFixNamespace, []byte(fmt.Sprintf("fix:%d:%s", len(notes), text)))
		notes = append(notes, domain.PatchNoteEntry{
			ID:         id.String(),
			Title:      BugFixTitle,
			Category:   domain.CategoryBugFixes,
			ChangeType: domain.ChangeFix,
			Summary:    text,
			Details:    []domain.ChangeBlock{{Changes: []string{text}}},
		})
	}
	return notes
}
