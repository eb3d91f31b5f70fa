// Package testdata builds the entity payloads and form inputs the suite
// submits. Every generated human-readable name carries the "TEST-" marker
// plus a uuid suffix so stray records are recognizable and unique across
// concurrent runs.
package testdata

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hikersvoice/e2e/internal/hikerapi"
)

// Marker prefixes every generated entity name.
const Marker = "TEST-"

// UniqueName returns a marked name with a short uuid suffix, e.g.
// "TEST-Company-3f2a9c1d".
func UniqueName(label string) string {
	return fmt.Sprintf("%s%s-%s", Marker, label, uuid.NewString()[:8])
}

// UniqueEmail returns a unique mailbox at example.com.
func UniqueEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.NewString()[:8])
}

// PastTripDates returns a start and end date for a trip that finished
// daysAgo days before today, formatted as the review form expects.
func PastTripDates(daysAgo, lengthDays int) (start, end string) {
	endDate := time.Now().AddDate(0, 0, -daysAgo)
	startDate := endDate.AddDate(0, 0, -lengthDays)
	return startDate.Format("2006-01-02"), endDate.Format("2006-01-02")
}

// NewCompanyParams returns full company creation params with contacts set.
func NewCompanyParams() hikerapi.CompanyParams {
	name := UniqueName("Company")
	return hikerapi.CompanyParams{
		Name:           name,
		CountryCode:    "GE",
		Description:    "Mountain trekking company created by the browser suite.",
		ContactEmail:   UniqueEmail(),
		ContactPhone:   "+995 555 12 34 56",
		ContactWebsite: "https://example.com/" + name,
	}
}

// CompanyParamsNamed returns minimal company params with an exact name,
// for duplicate-detection scenarios.
func CompanyParamsNamed(name string) hikerapi.CompanyParams {
	return hikerapi.CompanyParams{
		Name:        name,
		CountryCode: "GE",
	}
}

// MinimalCompanyParams returns company params with only the required fields.
func MinimalCompanyParams() hikerapi.CompanyParams {
	return hikerapi.CompanyParams{
		Name:        UniqueName("Company"),
		CountryCode: "GE",
	}
}

// NewGuideParams returns full guide creation params with contacts set.
func NewGuideParams() hikerapi.GuideParams {
	return hikerapi.GuideParams{
		Name:             UniqueName("Guide"),
		Countries:        []string{"GE", "AM"},
		Description:      "Certified alpine guide created by the browser suite.",
		ContactEmail:     UniqueEmail(),
		ContactPhone:     "+995 555 65 43 21",
		ContactInstagram: "@test_guide",
		ContactTelegram:  "@test_guide_tg",
	}
}

// Review holds everything the review form asks for.
type Review struct {
	AuthorName string
	Email      string
	Rating     int
	Text       string
	TripStart  string
	TripEnd    string
}

// NewReview returns a filled review with the given rating. The text is long
// enough to clear the backend's minimum length validation.
func NewReview(rating int) Review {
	start, end := PastTripDates(30, 7)
	return Review{
		AuthorName: UniqueName("Author"),
		Email:      UniqueEmail(),
		Rating:     rating,
		Text: "The route over the pass was well organized and the pacing suited " +
			"the whole group. Camp gear was in good shape and the safety briefing " +
			"before the glacier crossing was thorough. " + uuid.NewString(),
		TripStart: start,
		TripEnd:   end,
	}
}

// AnonymousReview returns a review with no author name, which the site
// renders with its anonymous placeholder.
func AnonymousReview(rating int) Review {
	r := NewReview(rating)
	r.AuthorName = ""
	return r
}

// EdgeCaseNames are inputs that historically broke rendering or escaping.
var EdgeCaseNames = []string{
	"TEST-Компания \"Вершина\"",
	"TEST-O'Brien & Sons <Trekking>",
	"TEST-'; DROP TABLE reviews; --",
	"TEST-<script>alert(1)</script>",
	"TEST-山岳ガイド協会",
}
