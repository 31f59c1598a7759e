package extractor

// Kind tags a semantic node of a patch-notes document.
type Kind int

const (
	// KindHeading starts a new section; ID carries the heading's anchor id.
	KindHeading Kind = iota
	// KindBlockStart opens a change-block container.
	KindBlockStart
	// KindReference is an avatar/reference link; URL is its image.
	KindReference
	// KindTitle is an entry title (champion, item, rune name).
	KindTitle
	// KindSummary is the quoted context paragraph of an entry.
	KindSummary
	// KindDetailTitle names an ability or stat group; URL is its icon.
	KindDetailTitle
	// KindList carries the change lines of a list.
	KindList
	// KindBlockEnd closes the current change-block container.
	KindBlockEnd
	// KindBugFixRegion is a bordered region whose Items are individual fixes.
	KindBugFixRegion
)

var kindNames = map[Kind]string{
	KindHeading:      "heading",
	KindBlockStart:   "block-start",
	KindReference:    "reference",
	KindTitle:        "title",
	KindSummary:      "summary",
	KindDetailTitle:  "detail-title",
	KindList:         "list",
	KindBlockEnd:     "block-end",
	KindBugFixRegion: "bugfix-region",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is one element of the flattened document. Which fields are set
// depends on Kind.
type Node struct {
	Kind  Kind
	ID    string
	Text  string
	URL   string
	Items []string
}

func Heading(id string) Node { return Node{Kind: KindHeading, ID: id} }
func BlockStart() Node { return Node{Kind: KindBlockStart} }
func BlockEnd() Node { return Node{Kind: KindBlockEnd} }
func Reference(url string) Node { return Node{Kind: KindReference, URL: url} }
func Title(text string) Node { return Node{Kind: KindTitle, Text: text} }
func Summary(text string) Node { return Node{Kind: KindSummary, Text: text} }
func DetailTitle(text, icon string) Node { return Node{Kind: KindDetailTitle, Text: text, URL: icon} }
func List(items ...string) Node { return Node{Kind: KindList, Items: items} }
func BugFixRegion(items ...string) Node { return Node{Kind: KindBugFixRegion, Items: items} }
