package scoring

import (
	"fmt"

	"marquee/internal/catalog"
)

// WeightTable assigns each scoreable field its share of the 100-point
// scale.
type WeightTable map[string]int

// Validate checks that the table's weights sum to exactly 100 so scores
// stay comparable across entity kinds.
func (w WeightTable) Validate() error {
	total := 0
	for field, weight := range w {
		if weight <= 0 {
			return fmt.Errorf("weight for %q must be positive, got %d", field, weight)
		}
		total += weight
	}
	if total != 100 {
		return fmt.Errorf("weights sum to %d, want 100", total)
	}
	return nil
}

// EventWeights scores event rows. Title and description dominate because
// they are what listings render.
var EventWeights = WeightTable{
	"title":       20,
	"description": 20,
	"start_date":  10,
	"start_time":  10,
	"venue":       10,
	"image_url":   10,
	"ticket_url":  10,
	"price":       5,
	"tags":        5,
}

// VenueWeights scores venue rows.
var VenueWeights = WeightTable{
	"name":        15,
	"description": 15,
	"image_url":   15,
	"website":     10,
	"address":     10,
	"city":        5,
	"postal_code": 5,
	"phone":       5,
	"latitude":    5,
	"longitude":   5,
	"capacity":    5,
	"accessible":  3,
	"tags":        2,
}

// SeriesWeights scores recurring-series rows.
var SeriesWeights = WeightTable{
	"title":       25,
	"description": 25,
	"frequency":   20,
	"day_of_week": 15,
	"venue":       15,
}

// FestivalWeights scores festival rows.
var FestivalWeights = WeightTable{
	"title":       30,
	"start_date":  20,
	"description": 20,
	"end_date":    15,
	"website":     15,
}

// OrganizationWeights scores organization rows.
var OrganizationWeights = WeightTable{
	"description": 40,
	"name":        35,
	"website":     25,
}

// WeightsFor returns the weight table for a scoreable catalog table.
func WeightsFor(table string) (WeightTable, error) {
	switch table {
	case catalog.TableEvents:
		return EventWeights, nil
	case catalog.TableVenues:
		return VenueWeights, nil
	case catalog.TableSeries:
		return SeriesWeights, nil
	case catalog.TableFestivals:
		return FestivalWeights, nil
	case catalog.TableOrganizations:
		return OrganizationWeights, nil
	default:
		return nil, fmt.Errorf("no weights for table %q", table)
	}
}
