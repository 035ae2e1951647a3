package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sandiven/DataVerser/internal/core/domain"
)

// maxColspan bounds colspan expansion for malformed attributes.
const maxColspan = 50

var (
	htmlNoise = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b.*?</script\s*>`),
		regexp.MustCompile(`(?is)<style\b.*?</style\s*>`),
		regexp.MustCompile(`(?s)<!--.*?-->`),
		regexp.MustCompile(`(?i)\son[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`),
	}
	htmlTable = regexp.MustCompile(`(?is)<table\b.*?</table\s*>`)
)

// htmlPass masks script, style, comment and inline handler noise, then
// parses each <table> span. Tables that yield no rows are masked.
type htmlPass struct{}

func (p *htmlPass) Kind() domain.FragmentKind {
	return domain.KindHTML
}

func (p *htmlPass) Scan(b *Buffer) []domain.Fragment {
	for _, re := range htmlNoise {
		for _, m := range re.FindAllStringIndex(b.Working(), -1) {
			b.Mask(domain.Span{Start: m[0], End: m[1]})
		}
	}

	working := b.Working()
	var cands []candidate
	for _, m := range htmlTable.FindAllStringIndex(working, -1) {
		cands = append(cands, candidate{
			span: domain.Span{Start: m[0], End: m[1]},
			text: working[m[0]:m[1]],
		})
	}
	return consume(b, domain.KindHTML, cands, true, parseHTMLTable)
}

func parseHTMLTable(text string) *domain.Fragment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	frag := structuredTable(table)
	if frag.IsEmpty() {
		frag = pairedTable(table)
	}
	if frag.IsEmpty() {
		return nil
	}
	coerceColumns(frag)
	return frag
}

// structuredTable reads the header from <thead> or from a first row made
// only of <th> cells, and every other row with <td> cells as data.
func structuredTable(table *goquery.Selection) *domain.Fragment {
	rows := table.Find("tr")
	var header []string
	headerIdx := -1

	if head := table.Find("thead tr").First(); head.Length() > 0 {
		header = rowCells(head, "th, td")
		headerIdx = rows.IndexOfSelection(head)
	} else if first := rows.First(); first.Length() > 0 {
		cells := first.Children()
		if cells.Length() > 0 && cells.Filter("th").Length() == cells.Length() {
			header = rowCells(first, "th")
			headerIdx = 0
		}
	}

	// Header cells elsewhere in the table are left to pairedTable.
	if header == nil && table.Find("th").Length() > 0 {
		return nil
	}

	var body [][]string
	rows.Each(func(i int, tr *goquery.Selection) {
		if i == headerIdx || tr.Children().Filter("td").Length() == 0 {
			return
		}
		body = append(body, rowCells(tr, "th, td"))
	})
	if len(body) == 0 {
		return nil
	}
	return tableFragment(header, body)
}

// pairedTable pairs every <th> in the table with the <td> cells of each row.
func pairedTable(table *goquery.Selection) *domain.Fragment {
	var header []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, cellText(th))
	})

	var body [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})
		if len(cells) > 0 {
			body = append(body, cells)
		}
	})
	if len(header) == 0 || len(body) == 0 {
		return nil
	}
	for i, row := range body {
		if len(row) > len(header) {
			body[i] = row[:len(header)]
		}
	}
	return tableFragment(header, body)
}

func rowCells(tr *goquery.Selection, selector string) []string {
	var cells []string
	tr.Children().Filter(selector).Each(func(_ int, cell *goquery.Selection) {
		text := cellText(cell)
		span := 1
		if v, ok := cell.Attr("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 1 {
				span = min(n, maxColspan)
			}
		}
		for range span {
			cells = append(cells, text)
		}
	})
	return cells
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// tableFragment builds a rectangular fragment. Missing header names and
// extra cells get positional col_N names.
func tableFragment(header []string, body [][]string) *domain.Fragment {
	width := len(header)
	for _, row := range body {
		width = max(width, len(row))
	}
	columns := make([]string, width)
	for i := range columns {
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			columns[i] = strings.TrimSpace(header[i])
		} else {
			columns[i] = fmt.Sprintf("col_%d", i)
		}
	}

	frag := &domain.Fragment{Columns: dedupeColumns(columns)}
	for _, row := range body {
		cells := make([]domain.Value, width)
		for i := range cells {
			if i < len(row) {
				cells[i] = domain.Text(row[i])
			} else {
				cells[i] = domain.Missing()
			}
		}
		frag.Rows = append(frag.Rows, cells)
	}
	return frag
}
