package scoring

import "marquee/internal/catalog"

// Score sums the weights of the present fields, capped at 100.
func Score(weights WeightTable, fields map[string]Value) int {
	total := 0
	for field, weight := range weights {
		if fields[field].Present() {
			total += weight
		}
	}
	if total > 100 {
		total = 100
	}
	return total
}

// EventFields extracts the scoreable fields of an event.
func EventFields(event *catalog.Event) map[string]Value {
	return map[string]Value{
		"title":       String(event.Title),
		"description": String(event.Description),
		"start_date":  String(event.StartDate),
		"start_time":  String(event.StartTime),
		"venue":       ID(event.VenueID),
		"image_url":   String(event.ImageURL),
		"ticket_url":  String(event.TicketURL),
		"price":       String(event.Price),
		"tags":        List(event.Tags),
	}
}

// VenueFields extracts the scoreable fields of a venue.
func VenueFields(venue *catalog.Venue) map[string]Value {
	return map[string]Value{
		"name":        String(venue.Name),
		"description": String(venue.Description),
		"image_url":   String(venue.ImageURL),
		"website":     String(venue.Website),
		"address":     String(venue.Address),
		"city":        String(venue.City),
		"postal_code": String(venue.PostalCode),
		"phone":       String(venue.Phone),
		"latitude":    Number(venue.Latitude),
		"longitude":   Number(venue.Longitude),
		"capacity":    Number(float64(venue.Capacity)),
		"accessible":  Bool(venue.Accessible),
		"tags":        List(venue.Tags),
	}
}

// SeriesFields extracts the scoreable fields of a series.
func SeriesFields(series *catalog.Series) map[string]Value {
	return map[string]Value{
		"title":       String(series.Title),
		"description": String(series.Description),
		"frequency":   String(series.Frequency),
		"day_of_week": String(series.DayOfWeek),
		"venue":       ID(series.VenueID),
	}
}

// FestivalFields extracts the scoreable fields of a festival.
func FestivalFields(festival *catalog.Festival) map[string]Value {
	return map[string]Value{
		"title":       String(festival.Title),
		"start_date":  String(festival.StartDate),
		"end_date":    String(festival.EndDate),
		"website":     String(festival.Website),
		"description": String(festival.Description),
	}
}

// OrganizationFields extracts the scoreable fields of an organization.
func OrganizationFields(org *catalog.Organization) map[string]Value {
	return map[string]Value{
		"name":        String(org.Name),
		"website":     String(org.Website),
		"description": String(org.Description),
	}
}

// ScoreEvent computes an event's completeness score.
func ScoreEvent(event *catalog.Event) int {
	return Score(EventWeights, EventFields(event))
}

// ScoreVenue computes a venue's completeness score.
func ScoreVenue(venue *catalog.Venue) int {
	return Score(VenueWeights, VenueFields(venue))
}
