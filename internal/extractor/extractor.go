package extractor

import (
	"log/slog"
	"strings"

	"feedviewer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Extractor pulls the lead paragraph and the linked image gallery out of a
// post body.
type Extractor struct {
	policy *bluemonday.Policy
	log    *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{
		policy: bluemonday.UGCPolicy(),
		log:    log,
	}
}

// Extract never fails: malformed markup is repaired by the HTML5 parser and
// whatever survives is used.
func (e *Extractor) Extract(html string) domain.Extraction {
	var out domain.Extraction

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.Warn("Failed to parse post HTML", slog.Any("error", err))
		return out
	}

	if lead := doc.Find("p").First(); lead.Length() > 0 {
		out.Lead = strings.TrimSpace(lead.Text())
		if raw, err := goquery.OuterHtml(lead); err == nil {
			out.LeadHTML = e.policy.Sanitize(raw)
		}
	}

	out.Images = make([]string, 0)
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if a.ChildrenFiltered("img").Length() == 0 {
			return
		}
		href, ok := a.Attr("href")
		if !ok {
			e.log.Debug("Skipping image anchor without href")
			return
		}
		out.Images = append(out.Images, href)
	})

	return out
}
