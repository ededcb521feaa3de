package normalizer

import (
	"strings"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// cityTaxonomy canonicalizes known city strings (including Arabic
// spellings) to city/region/country triples. Best effort: strings with
// no match pass through as free text in the City field.
var cityTaxonomy = map[string]domain.Location{
	"dubai":         {City: "Dubai", Region: "Dubai", Country: "AE"},
	"دبي":           {City: "Dubai", Region: "Dubai", Country: "AE"},
	"abu dhabi":     {City: "Abu Dhabi", Region: "Abu Dhabi", Country: "AE"},
	"ابوظبي":        {City: "Abu Dhabi", Region: "Abu Dhabi", Country: "AE"},
	"sharjah":       {City: "Sharjah", Region: "Sharjah", Country: "AE"},
	"الشارقة":       {City: "Sharjah", Region: "Sharjah", Country: "AE"},
	"riyadh":        {City: "Riyadh", Region: "Riyadh Province", Country: "SA"},
	"الرياض":        {City: "Riyadh", Region: "Riyadh Province", Country: "SA"},
	"jeddah":        {City: "Jeddah", Region: "Makkah Province", Country: "SA"},
	"جدة":           {City: "Jeddah", Region: "Makkah Province", Country: "SA"},
	"dammam":        {City: "Dammam", Region: "Eastern Province", Country: "SA"},
	"الدمام":        {City: "Dammam", Region: "Eastern Province", Country: "SA"},
	"amman":         {City: "Amman", Region: "Amman Governorate", Country: "JO"},
	"عمان":          {City: "Amman", Region: "Amman Governorate", Country: "JO"},
	"zarqa":         {City: "Zarqa", Region: "Zarqa Governorate", Country: "JO"},
	"cairo":         {City: "Cairo", Region: "Cairo Governorate", Country: "EG"},
	"القاهرة":       {City: "Cairo", Region: "Cairo Governorate", Country: "EG"},
	"giza":          {City: "Giza", Region: "Giza Governorate", Country: "EG"},
	"الجيزة":        {City: "Giza", Region: "Giza Governorate", Country: "EG"},
	"alexandria":    {City: "Alexandria", Region: "Alexandria Governorate", Country: "EG"},
	"الاسكندرية":    {City: "Alexandria", Region: "Alexandria Governorate", Country: "EG"},
	"new york":      {City: "New York", Region: "NY", Country: "US"},
	"los angeles":   {City: "Los Angeles", Region: "CA", Country: "US"},
	"chicago":       {City: "Chicago", Region: "IL", Country: "US"},
	"houston":       {City: "Houston", Region: "TX", Country: "US"},
	"miami":         {City: "Miami", Region: "FL", Country: "US"},
	"seattle":       {City: "Seattle", Region: "WA", Country: "US"},
	"san francisco": {City: "San Francisco", Region: "CA", Country: "US"},
}

// canonicalizeLocation resolves a raw location string against the city
// taxonomy. Comma-separated strings are tried segment by segment.
func canonicalizeLocation(raw string) domain.Location {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Location{}
	}

	if loc, ok := cityTaxonomy[strings.ToLower(trimmed)]; ok {
		return loc
	}
	for _, part := range strings.Split(trimmed, ",") {
		if loc, ok := cityTaxonomy[strings.ToLower(strings.TrimSpace(part))]; ok {
			return loc
		}
	}
	return domain.Location{City: trimmed}
}
