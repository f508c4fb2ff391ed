// Package inspect analyzes the structure of a listing page before a scraper
// is written for it: tables, price-related class names, card containers,
// embedded JSON, and candidate API endpoints.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/agrilens/price-scraper/internal/hash/sha256"
)

// priceClasses are the class-name fragments that usually carry price data on
// marketplace pages.
var priceClasses = []string{
	"price", "cost", "amount", "value",
	"product", "item", "commodity",
	"market", "location", "state",
}

// cardWords mark generic listing containers.
var cardWords = []string{"card", "item", "product", "price"}

// TableInfo describes one table found on the page.
type TableInfo struct {
	Rows    int
	Headers []string
}

// ClassHit reports how often a price-related class fragment appears, with a
// sample element for orientation.
type ClassHit struct {
	Class      string
	Count      int
	SampleTag  string
	SampleText string
}

// Report is the structural summary of a page.
type Report struct {
	Tables      []TableInfo
	ClassHits   []ClassHit
	CardDivs    int
	JSONScripts int
	APILinks    []string
}

// Analyze walks the document and builds a Report. It never fails; an empty
// page yields an empty report.
func Analyze(doc *goquery.Document) Report {
	var report Report

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		info := TableInfo{Rows: table.Find("tr").Length()}
		table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			if len(info.Headers) < 5 {
				info.Headers = append(info.Headers, strings.TrimSpace(cell.Text()))
			}
		})
		report.Tables = append(report.Tables, info)
	})

	for _, cls := range priceClasses {
		hit := ClassHit{Class: cls}
		doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
			class, _ := sel.Attr("class")
			if !strings.Contains(strings.ToLower(class), cls) {
				return
			}
			hit.Count++
			if hit.SampleTag == "" {
				hit.SampleTag = goquery.NodeName(sel)
				hit.SampleText = truncate(strings.TrimSpace(sel.Text()), 50)
			}
		})
		if hit.Count > 0 {
			report.ClassHits = append(report.ClassHits, hit)
		}
	}

	doc.Find("div[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		lower := strings.ToLower(class)
		for _, word := range cardWords {
			if strings.Contains(lower, word) {
				report.CardDivs++
				return
			}
		}
	})

	report.JSONScripts = doc.Find(`script[type="application/json"]`).Length()

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.Contains(strings.ToLower(href), "api") {
			report.APILinks = append(report.APILinks, href)
		}
	})

	return report
}

// Write renders the report for a terminal reader.
func (r Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Found %d table(s)\n", len(r.Tables))
	for i, table := range r.Tables {
		if i >= 3 {
			break
		}
		fmt.Fprintf(w, "  Table %d: %d rows, headers %v\n", i+1, table.Rows, table.Headers)
	}

	fmt.Fprintln(w, "\nPrice-related elements:")
	for _, hit := range r.ClassHits {
		fmt.Fprintf(w, "  .%s: %d element(s), sample <%s> %q\n",
			hit.Class, hit.Count, hit.SampleTag, hit.SampleText)
	}

	fmt.Fprintf(w, "\nCard/item divs: %d\n", r.CardDivs)
	fmt.Fprintf(w, "JSON scripts: %d\n", r.JSONScripts)

	if len(r.APILinks) > 0 {
		fmt.Fprintln(w, "\nPossible API endpoints:")
		for i, link := range r.APILinks {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, "  %s\n", link)
		}
	}
}

// Fingerprint returns the SHA-256 digest of the document's markup. Comparing
// digests across inspections shows whether a page's structure has changed
// since selectors were last tuned.
func Fingerprint(doc *goquery.Document) (string, error) {
	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sha256.New().Hash([]byte(html))
}

// SaveHTML writes the document's markup to path for manual study.
func SaveHTML(doc *goquery.Document, path string) error {
	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("save html: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
