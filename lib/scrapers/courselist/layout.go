// Package courselist scrapes course listings out of university pages.
// The page's layout is classified into a closed set of kinds, each kind
// has its own extraction strategy.
package courselist

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Layout string

const (
	LayoutCanvas       Layout = "canvas"
	LayoutBanner       Layout = "banner"
	LayoutGenericTable Layout = "generic-table"
	LayoutGeneric      Layout = "generic"
)

// DetectLayout classifies a page. First match wins, the order is
// fixed: canvas, banner, any table, generic. It never fails, generic
// is the catch-all.
func DetectLayout(pageUrl string, doc *goquery.Document) Layout {
	markup := ""
	if doc != nil {
		markup, _ = doc.Html()
	}

	if strings.Contains(pageUrl, "instructure.com") ||
		strings.Contains(markup, "canvas") {
		return LayoutCanvas
	}
	if strings.Contains(pageUrl, "banner") ||
		strings.Contains(markup, "banner-course") {
		return LayoutBanner
	}
	if doc != nil && doc.Find("table").Length() > 0 {
		return LayoutGenericTable
	}
	return LayoutGeneric
}
