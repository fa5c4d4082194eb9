// Package sentinel watches the City's publication pages for newly posted
// report PDFs. The City lists each fiscal year's reports on a documents
// page whose table rows are keyed by month; the sentinel looks for the
// month following the newest artifact already on disk and downloads the
// PDF when it appears. Cell extraction happens outside this repo, so a
// download is reported with the period metadata a later parse run needs.
package sentinel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/FACorreiaa/phl-budget-data/internal/fiscal"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
	"github.com/FACorreiaa/phl-budget-data/pkg/storage"
)

// source describes one publication page. Monthly listing pages are
// published per fiscal year with one table row per month.
type source struct {
	// path renders the listing page path for a fiscal or calendar year.
	path func(calendarYear, fiscalYear int) string

	// rowID is the fragment the City embeds in each report row's id.
	rowID string
}

var sources = map[report.Family]source{
	report.FamilyCityTax: {
		path: func(_, fy int) string {
			return fmt.Sprintf("/documents/fy-%d-city-monthly-revenue-collections/", fy)
		},
		rowID: "revenue-collections",
	},
	report.FamilyCityNonTax: {
		path: func(_, fy int) string {
			return fmt.Sprintf("/documents/fy-%d-city-monthly-revenue-collections/", fy)
		},
		rowID: "revenue-collections",
	},
	report.FamilyCityOtherGovts: {
		path: func(_, fy int) string {
			return fmt.Sprintf("/documents/fy-%d-city-monthly-revenue-collections/", fy)
		},
		rowID: "revenue-collections",
	},
	report.FamilySchool: {
		path: func(_, fy int) string {
			return fmt.Sprintf("/documents/fy-%d-school-district-monthly-revenue-collections/", fy)
		},
		rowID: "revenue-collections",
	},
	report.FamilyWageSector: {
		path: func(cy, _ int) string {
			return fmt.Sprintf("/documents/%d-wage-tax-by-industry/", cy)
		},
		rowID: "wage-taxes",
	},
}

// Finding is one newly published report.
type Finding struct {
	Family        report.Family
	CalendarYear  int
	CalendarMonth time.Month
	PDFURL        string
}

// ArtifactName is the on-disk name a finding's PDF is stored under.
func (f *Finding) ArtifactName() string {
	return fmt.Sprintf("%d_%02d.pdf", f.CalendarYear, int(f.CalendarMonth))
}

// Checker polls publication pages and downloads new PDFs.
type Checker struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *slog.Logger
}

// New builds a checker. A nil client selects http.DefaultClient.
func New(client *http.Client, baseURL, userAgent string, log *slog.Logger) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		log:       log,
	}
}

// Check looks for the report of the given calendar month on the family's
// listing page. A nil finding with a nil error means the month is not
// published yet.
func (c *Checker) Check(ctx context.Context, family report.Family, calendarYear int, calendarMonth time.Month) (*Finding, error) {
	src, ok := sources[family]
	if !ok {
		return nil, fmt.Errorf("no publication page known for family %q", family)
	}

	fy, _ := fiscal.ToFiscal(calendarYear, calendarMonth)
	url := c.baseURL + src.path(calendarYear, fy)

	urls, err := c.listPDFs(ctx, url, src.rowID)
	if err != nil {
		return nil, err
	}

	pdfURL, ok := urls[calendarMonth]
	if !ok {
		c.log.InfoContext(ctx, "no update found",
			slog.String("family", string(family)),
			slog.String("url", url))
		return nil, nil
	}

	return &Finding{
		Family:        family,
		CalendarYear:  calendarYear,
		CalendarMonth: calendarMonth,
		PDFURL:        pdfURL,
	}, nil
}

// listPDFs scrapes a listing page into month → PDF URL. Row ids start
// with the month's three-letter abbreviation.
func (c *Checker) listPDFs(ctx context.Context, url, rowID string) (map[time.Month]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The fiscal year's page is created with its first report.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	out := make(map[time.Month]string)
	doc.Find(fmt.Sprintf("table tr[id*=%s]", rowID)).Each(func(_ int, row *goquery.Selection) {
		id, ok := row.Attr("id")
		if !ok || len(id) < 3 {
			return
		}
		month, err := fiscal.ParseMonthAbbr(strings.SplitN(id, "-", 2)[0][:3])
		if err != nil {
			return
		}
		href, ok := row.Find("a").First().Attr("href")
		if !ok {
			return
		}
		out[month] = href
	})
	return out, nil
}

// Download fetches a finding's PDF into the artifact store.
func (c *Checker) Download(ctx context.Context, f *Finding, store storage.Store) (*storage.Artifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.PDFURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", f.PDFURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: status %s", f.PDFURL, resp.Status)
	}

	art, err := store.Put(ctx, string(f.Family), f.ArtifactName(), resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "report downloaded",
		slog.String("family", string(f.Family)),
		slog.String("artifact", art.Path),
		slog.Int64("bytes", art.Size))
	return art, nil
}

// NextPeriod returns the calendar month after the newest artifact on
// disk, the next report to look for. A family with no artifacts starts at
// the current month.
func NextPeriod(ctx context.Context, store storage.Store, family report.Family, now time.Time) (int, time.Month, error) {
	arts, err := store.List(ctx, string(family))
	if err != nil {
		return 0, 0, err
	}

	year, month := now.Year(), now.Month()
	latestYear, latestMonth := 0, 0
	for _, a := range arts {
		var y, m int
		if _, err := fmt.Sscanf(a.Name, "%d_%02d.pdf", &y, &m); err != nil {
			continue
		}
		if m < 1 || m > 12 {
			continue
		}
		if y > latestYear || (y == latestYear && m > latestMonth) {
			latestYear, latestMonth = y, m
		}
	}
	if latestYear > 0 {
		if latestMonth == 12 {
			return latestYear + 1, time.January, nil
		}
		return latestYear, time.Month(latestMonth + 1), nil
	}
	return year, month, nil
}
