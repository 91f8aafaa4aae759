// Package domain models the three crisis datasets and the engine that filters
// and summarizes them.
//
// # Datasets
//
// Each dataset arrives as a CSV table with its own column layout:
//
//	social    social_media_with_temporal_score.csv
//	          timestamp, zone, latitude, longitude, text, temporal_score
//	sensor    sensor_readings.csv
//	          timestamp, [zone], latitude, longitude, disaster, severity
//	facility  final_df.csv
//	          timestamp, zone, infra_latitude, infra_longitude,
//	          infrastructure_type, name, predicted_impact
//
// The sensor export sometimes omits the zone column entirely. Facility rows
// also carry latitude/longitude columns for the reporting entity; those are
// ignored in favour of the facility's own infra_* coordinates.
//
// # Zones
//
// Zones are coarse geographic partitions shared by all three datasets:
// "Zone A" through "Zone D". When a row has no usable zone value the zone is
// read from free text ("Flooding near Zone B"), and when that fails the row is
// placed in "Unknown". Every normalized record therefore has a zone.
//
// # Timestamps
//
// Timestamps are parsed as RFC 3339 first and then through dateparse, which
// accepts the naive "2024-04-26 15:10:00" form the exports use. Rows whose
// timestamp cannot be parsed, or carries no year, are dropped. The calendar date is the wall-clock
// date of the parsed timestamp; no time zone conversion is applied.
//
// # Derived categories
//
//	social    label     temporal_score == 1 -> "Likely Real", else "Possibly Fake"
//	sensor    severity  as reported, "Unknown" when blank
//	facility  facility  fire_station / hospital / shelter (any case), else "Unknown"
package domain
