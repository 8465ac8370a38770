package blackboard

import (
	"strings"

	"goodboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ExtractInstructions reads the label/field pairs of an assignment's
// data-collection form. origin, when non-empty, is prepended to relative
// image sources so the stored HTML renders outside the portal. Returns
// nil when the page has no instructions container.
func ExtractInstructions(doc *goquery.Document, origin string) []InstructionSection {
	container := doc.Find("#dataCollectionContainer")
	if container.Length() == 0 {
		return nil
	}

	var sections []InstructionSection
	container.Find("#stepcontent1 li").Each(func(_ int, item *goquery.Selection) {
		labelEl := item.Find(".label")
		fieldEl := item.Find(".field")
		if labelEl.Length() == 0 || fieldEl.Length() == 0 {
			return
		}

		// empty validation-error placeholders are markup noise
		fieldEl.Find(".fieldErrorText").Each(func(_ int, span *goquery.Selection) {
			if htmlutil.Text(span) == "" {
				span.Remove()
			}
		})

		if origin != "" {
			fieldEl.Find("img").Each(func(_ int, img *goquery.Selection) {
				src := img.AttrOr("src", "")
				if strings.HasPrefix(src, "/") {
					img.SetAttr("src", origin+src)
				}
			})
		}

		html, err := fieldEl.Html()
		if err != nil {
			html = ""
		}

		sections = append(sections, InstructionSection{
			Title: htmlutil.Text(labelEl),
			Html:  htmlutil.Sanitize(strings.TrimSpace(html)),
			Text:  htmlutil.InnerText(fieldEl),
		})
	})

	return sections
}
