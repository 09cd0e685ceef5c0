package service

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// containsCity restricts query to alerts whose affected cities contain city
// as a case-insensitive substring.
func containsCity(query *gorm.DB, city string) *gorm.DB {
	return query.Where(like(affectedCitiesText(query)), likePattern(city))
}

// containsCityOrNationwide is containsCity, also matching alerts with no
// affected cities.
func containsCityOrNationwide(query *gorm.DB, city string) *gorm.DB {
	column := affectedCitiesText(query)
	return query.Where("("+like(column)+" OR "+column+" = ?)", likePattern(city), "[]")
}

// activeAt applies the temporal validity predicate for alerts.
func activeAt(query *gorm.DB, now time.Time) *gorm.DB {
	return query.Where("is_active = ? AND start_time <= ? AND (end_time IS NULL OR end_time >= ?)", true, now, now)
}

func affectedCitiesText(query *gorm.DB) string {
	if query.Dialector.Name() == "postgres" {
		return "LOWER(affected_cities::text)"
	}
	return "LOWER(affected_cities)"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// like is a LIKE condition on column whose pattern comes from likePattern.
func like(column string) string {
	return column + ` LIKE ? ESCAPE '\'`
}

// likePattern turns s into a case-insensitive substring pattern with the
// LIKE wildcards in s matched literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// dayBounds returns the UTC calendar day containing t as [start, end).
func dayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
