package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is one tabular structure in header/row form. When Headers is
// non-empty every row is a header→cell mapping in Mapped; otherwise the
// rows are positional cell lists in Rows. Downstream consumers must
// handle both shapes.
type Table struct {
	Headers []string
	Mapped  []map[string]string
	Rows    [][]string
}

// Text returns a lowercase serialization of the whole table, used by
// keyword matching when selecting a table for a field.
func (t Table) Text() string {
	var b strings.Builder
	for _, h := range t.Headers {
		b.WriteString(strings.ToLower(h))
		b.WriteByte(' ')
	}
	for _, row := range t.Mapped {
		for k, v := range row {
			b.WriteString(strings.ToLower(k))
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(v))
			b.WriteByte(' ')
		}
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			b.WriteString(strings.ToLower(cell))
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Empty reports whether the table carries no data rows.
func (t Table) Empty() bool {
	return len(t.Mapped) == 0 && len(t.Rows) == 0
}

// Tables extracts every <table> on the page into header/row records.
// Headers come from an explicit <thead> when present; otherwise the
// first row is reinterpreted as headers, which loses the first data row
// of a header-less data table. Computed once and cached.
func (d *Document) Tables() []Table {
	d.tablesOnce.Do(func() {
		d.tables = extractTables(d.doc)
	})
	return d.tables
}

func extractTables(doc *goquery.Document) []Table {
	var tables []Table

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var headers []string
		headersFromFirstRow := false

		if thead := table.Find("thead").First(); thead.Length() > 0 {
			thead.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				headers = append(headers, strings.TrimSpace(cell.Text()))
			})
		} else if firstRow := table.Find("tr").First(); firstRow.Length() > 0 {
			firstRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				headers = append(headers, strings.TrimSpace(cell.Text()))
			})
			headersFromFirstRow = len(headers) > 0
		}

		t := Table{Headers: headers}

		body := table.Find("tbody")
		rows := body.Find("tr")
		if body.Length() == 0 {
			// Without a tbody, take every row but keep header rows out.
			rows = table.Find("tr").Not("thead tr")
		}

		rows.Each(func(i int, row *goquery.Selection) {
			if headersFromFirstRow && i == 0 {
				return
			}
			var cells []string
			row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if len(headers) > 0 {
				mapped := make(map[string]string, len(headers))
				for j, h := range headers {
					if j < len(cells) {
						mapped[h] = cells[j]
					}
				}
				t.Mapped = append(t.Mapped, mapped)
			} else {
				t.Rows = append(t.Rows, cells)
			}
		})

		if !t.Empty() {
			tables = append(tables, t)
		}
	})

	return tables
}
