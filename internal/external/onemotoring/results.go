package onemotoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/internal/dataset"
)

// resultsPath is the page carrying the latest bidding exercise results.
const resultsPath = "/content/onemotoring/home/buying/coe-open-bidding/results.html"

// FetchLatestResults retrieves the most recently published bidding
// exercise and returns one record per vehicle class.
func (c *Client) FetchLatestResults(ctx context.Context) ([]contracts.BiddingRecord, error) {
	html, err := c.fetchHTML(ctx, resultsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch results page failed: %w", err)
	}

	records, err := c.parseResults(html)
	if err != nil {
		return nil, fmt.Errorf("parse results page failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"records": len(records),
	}).Info("Fetched latest bidding results")

	return records, nil
}

// parseResults parses the published results table. Expected shape:
//
//	<table class="coe-results" data-month="2026-08" data-bidding-no="2">
//	  <tr><th>Category</th><th>Quota</th><th>Bids Received</th>
//	      <th>Successful Bids</th><th>Quota Premium</th></tr>
//	  <tr><td>Category A</td><td>1,234</td><td>1,890</td><td>1,200</td><td>98,524</td></tr>
//	  ...
//	</table>
//
// Numeric cells reuse the dataset cleaning rules (comma stripping,
// unparseable to 0); a row without a category name is skipped.
func (c *Client) parseResults(html string) ([]contracts.BiddingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table.coe-results").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no results table found")
	}

	month, ok := dataset.ParseMonth(table.AttrOr("data-month", ""))
	if !ok {
		return nil, fmt.Errorf("results table has no parseable month")
	}
	biddingNo := int(dataset.ParseNumber(table.AttrOr("data-bidding-no", "1")))

	var records []contracts.BiddingRecord
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return // header or malformed row
		}

		vehicleClass := strings.TrimSpace(cells.Eq(0).Text())
		if vehicleClass == "" {
			return
		}

		records = append(records, contracts.BiddingRecord{
			VehicleClass: vehicleClass,
			Month:        month,
			BiddingNo:    biddingNo,
			Quota:        dataset.ParseNumber(cells.Eq(1).Text()),
			BidsReceived: dataset.ParseNumber(cells.Eq(2).Text()),
			BidsSuccess:  dataset.ParseNumber(cells.Eq(3).Text()),
			Premium:      dataset.ParseNumber(cells.Eq(4).Text()),
		})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("results table has no data rows")
	}

	return records, nil
}
