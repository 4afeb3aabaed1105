package capitoltrades

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fixed column positions of the disclosure table.
const (
	colPolitician = iota
	colIssuer
	colDisclosed
	colTraded
	colFilingLag
	colOwner
	colType
	colSize
	colPrice

	minCells = colPrice + 1
)

// Structural markers on the listing page.
const (
	classPoliticianName = "politician-name"
	classParty          = "party"
	classChamber        = "chamber"
	classState          = "us-state-compact"
	classIssuerName     = "issuer-name"
	classIssuerTicker   = "issuer-ticker"
	tradeLinkFragment   = "/trades/"
)

var firstIntRe = regexp.MustCompile(`\d+`)

// RawRow holds the cleaned text of a single table row before typing.
type RawRow struct {
	Politician, Party, Chamber, State string
	Issuer, Ticker                    string
	Disclosed, Traded, FilingLag      string
	Owner, Type, Size, Price          string
	Link                              string
}

// --- Field extractors ---

// extractPolitician reads the name and the nested party/chamber/state markers of the first cell.
func extractPolitician(cell *html.Node) (name, party, chamber, state string) {
	name = classText(cell, classPoliticianName)
	if name == "" {
		if a := findFirst(cell, atom.A); a != nil {
			name = textOf(a)
		}
	}
	if name == "" {
		name = firstText(cell)
	}
	return name, classText(cell, classParty), classText(cell, classChamber), strings.ToUpper(classText(cell, classState))
}

// extractIssuer reads the company name and the raw ticker text of the second cell.
func extractIssuer(cell *html.Node) (issuer, ticker string) {
	issuer = classText(cell, classIssuerName)
	if issuer == "" {
		if a := findFirst(cell, atom.A); a != nil {
			issuer = textOf(a)
		}
	}
	return issuer, classText(cell, classIssuerTicker)
}

// normalizeTicker strips an exchange suffix ("HSY:US" -> "HSY") and upper-cases the symbol.
func normalizeTicker(raw string) string {
	if i := strings.Index(raw, ":"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// parseFilingLag returns the first integer in the cell ("12 days" -> 12), or -1.
func parseFilingLag(text string) int {
	m := firstIntRe.FindString(text)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return n
}

// rawRowFromCells maps the fixed column positions onto a RawRow.
func rawRowFromCells(tr *html.Node, cells []*html.Node) RawRow {
	var r RawRow
	r.Politician, r.Party, r.Chamber, r.State = extractPolitician(cells[colPolitician])
	r.Issuer, r.Ticker = extractIssuer(cells[colIssuer])
	r.Disclosed = textOf(cells[colDisclosed])
	r.Traded = textOf(cells[colTraded])
	r.FilingLag = textOf(cells[colFilingLag])
	r.Owner = textOf(cells[colOwner])
	r.Type = textOf(cells[colType])
	r.Size = textOf(cells[colSize])
	r.Price = textOf(cells[colPrice])
	r.Link = findLink(tr, tradeLinkFragment)
	return r
}
