// Package pdf renders a user's recipe collection as a printable cookbook.
// It is shared by the server export endpoint and the CLI, which can render
// from its local cache while offline.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"

	"github.com/go-pdf/fpdf"
)

// RenderCookbook writes a PDF cookbook to w: a cover page followed by one
// page per recipe, in the order given.
func RenderCookbook(w io.Writer, title, author string, recipes []*recipedomain.Recipe) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(tr(title), false)
	doc.SetAuthor(tr(author), false)

	doc.SetFooterFunc(func() {
		if doc.PageNo() == 1 {
			return
		}
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 10, fmt.Sprintf("%d", doc.PageNo()-1), "", 0, "C", false, 0, "")
	})

	renderCover(doc, tr, title, author, len(recipes))
	for _, r := range recipes {
		renderRecipe(doc, tr, r)
	}

	return doc.Output(w)
}

func renderCover(doc *fpdf.Fpdf, tr func(string) string, title, author string, count int) {
	doc.AddPage()
	doc.SetY(90)

	doc.SetFont("Helvetica", "B", 30)
	doc.SetTextColor(60, 40, 20)
	doc.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.SetTextColor(0, 0, 0)
	if author != "" {
		doc.CellFormat(0, 10, tr("by "+author), "", 1, "C", false, 0, "")
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 11)
	doc.SetTextColor(128, 128, 128)
	summary := fmt.Sprintf("%d recipes - %s", count, time.Now().Format("January 2, 2006"))
	doc.CellFormat(0, 8, tr(summary), "", 1, "C", false, 0, "")
}

func renderRecipe(doc *fpdf.Fpdf, tr func(string) string, r *recipedomain.Recipe) {
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(60, 40, 20)
	doc.MultiCell(0, 10, tr(r.Title), "", "L", false)

	meta := make([]string, 0, 2)
	if r.CookTime != "" {
		meta = append(meta, "Cook time: "+r.CookTime)
	}
	if len(r.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(r.Tags, ", "))
	}
	if len(meta) > 0 {
		doc.SetFont("Helvetica", "I", 10)
		doc.SetTextColor(128, 128, 128)
		doc.MultiCell(0, 6, tr(strings.Join(meta, "   ")), "", "L", false)
	}
	doc.Ln(4)

	if len(r.Ingredients) > 0 {
		sectionHeader(doc, tr, "Ingredients")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(0, 0, 0)
		for _, ing := range r.Ingredients {
			doc.MultiCell(0, 6, tr("- "+ing), "", "L", false)
		}
		doc.Ln(4)
	}

	if r.Directions != "" {
		sectionHeader(doc, tr, "Directions")
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(0, 0, 0)
		doc.MultiCell(0, 6, tr(r.Directions), "", "L", false)
		doc.Ln(4)
	}

	if r.Memory != "" {
		sectionHeader(doc, tr, "Memory")
		doc.SetFont("Helvetica", "I", 11)
		doc.SetTextColor(80, 80, 80)
		doc.MultiCell(0, 6, tr(r.Memory), "", "L", false)
	}
}

func sectionHeader(doc *fpdf.Fpdf, tr func(string) string, name string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(120, 80, 40)
	doc.CellFormat(0, 8, tr(name), "", 1, "L", false, 0, "")
}
