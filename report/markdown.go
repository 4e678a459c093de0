package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"skinscan/models"
)

const disclaimer = "This analysis provides educational information only. Results should not replace " +
	"professional medical advice. For persistent or severe acne, consult a board-certified dermatologist."

var fdaResources = []struct{ title, url string }{
	{"FDA: Treating Acne", "https://www.fda.gov/drugs/information-consumers-and-patients-drugs/treating-acne"},
	{"FDA: Drug Safety Info", "https://www.fda.gov/drugs/postmarket-drug-safety-information-patients-and-providers/questions-and-answers-fdas-actions-acne-products"},
	{"FDA Drug Database", "https://www.accessdata.fda.gov/scripts/cder/daf/index.cfm"},
}

// MarkdownWriter outputs a result as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

func (w *MarkdownWriter) Write(result *models.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	if result == nil {
		md.H1("No Analysis Data")
		md.PlainText("")
		md.Note("Please complete a skin scan first.")
		return len(md.String()), md.Build()
	}

	w.writeDiagnosis(md, result)
	w.writeSkinAnalysis(md, result)
	w.writeDetections(md, result.Diagnosis.Detections)
	w.writeIngredients(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeDiagnosis(md *markdown.Markdown, r *models.AnalysisResult) {
	d := r.Diagnosis

	md.H1("Skin Analysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Primary Diagnosis", d.PrimaryType},
			{"Severity", string(d.Severity)},
			{"Confidence", strconv.Itoa(d.Confidence) + "%"},
			{"Indicators", strings.Join(d.Indicators, ", ")},
			{"Analyzed", r.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Result ID", "`" + r.ID + "`"},
		},
	})
	md.PlainText("")

	switch d.Severity {
	case models.SeveritySevere:
		md.Cautionf("%s is severe. Consider seeing a dermatologist before starting a new routine.", d.PrimaryType)
	case models.SeverityModerate:
		md.Warningf("%s is moderate. Introduce new actives one at a time.", d.PrimaryType)
	default:
		md.Tip("Mild findings usually respond well to a consistent over-the-counter routine.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkinAnalysis(md *markdown.Markdown, r *models.AnalysisResult) {
	s := r.SkinAnalysis

	md.H2("Skin Analysis")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Average Brightness", strconv.FormatFloat(s.AverageBrightness, 'f', 2, 64)},
			{"Red Tones", s.RedTones + "%"},
			{"Dark Spots", s.DarkSpots + "%"},
			{"Skin Type", orDash(s.SkinType)},
			{"Skin Color", orDash(s.SkinColor)},
			{"Environment", orDash(s.Environment)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeDetections(md *markdown.Markdown, detections []models.Detection) {
	md.H2("Detections")
	md.PlainText("")

	if len(detections) == 0 {
		md.PlainText("No lesions detected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(detections))
	for i, d := range detections {
		rows[i] = []string{d.Type, strconv.Itoa(d.Count), string(d.Severity), d.Location}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Type", "Count", "Severity", "Location"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Detections by Type"),
		piechart.WithShowData(true),
	)
	for _, d := range detections {
		if d.Count > 0 {
			chart.LabelAndIntValue(d.Type, uint64(d.Count))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeIngredients(md *markdown.Markdown, r *models.AnalysisResult) {
	md.H2("Recommended Ingredients")
	md.PlainText("")

	rows := make([][]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		rows[i] = []string{ing.Name, ing.Concentration, ing.Purpose}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Ingredient", "Concentration", "Purpose"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, ing := range r.Ingredients {
		if len(ing.Products) == 0 {
			continue
		}
		products := make([]string, len(ing.Products))
		for i, p := range ing.Products {
			products[i] = fmt.Sprintf("- [%s](%s)", p.Name, p.Link)
			if p.Verified {
				products[i] += " (verified)"
			}
		}
		md.Details(ing.Name+" products", strings.Join(products, "\n"))
	}
	md.PlainText("")

	if len(r.Guidelines) > 0 {
		md.H2("Treatment Guidelines")
		md.PlainText("")
		md.BulletList(r.Guidelines...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.H2("Resources")
	md.PlainText("")
	links := make([]string, len(fdaResources))
	for i, res := range fdaResources {
		links[i] = fmt.Sprintf("[%s](%s)", res.title, res.url)
	}
	md.BulletList(links...)
	md.PlainText("")

	md.HorizontalRule()
	md.PlainText("")
	md.Importantf("Medical disclaimer: %s", disclaimer)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
