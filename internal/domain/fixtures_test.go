package domain

const (
	testTS1 = "2024-04-26 15:10:00"
	testTS2 = "2024-04-27 08:00:00"
	testTS3 = "2024-04-28 21:45:00"
)

func socialRaw() RawTable {
	return RawTable{
		Columns: []string{ColTimestamp, ColZone, ColLatitude, ColLongitude, ColText, ColTemporalScore},
		Rows: []RawRow{
			{ColTimestamp: testTS1, ColZone: "", ColLatitude: "12.97", ColLongitude: "77.59", ColText: "Flooding near Zone B", ColTemporalScore: "1"},
			{ColTimestamp: testTS2, ColZone: "Zone A", ColLatitude: "12.95", ColLongitude: "77.60", ColText: "Power out everywhere", ColTemporalScore: "0"},
			{ColTimestamp: "not a time", ColZone: "Zone A", ColLatitude: "12.90", ColLongitude: "77.61", ColText: "dropped", ColTemporalScore: "1"},
			{ColTimestamp: testTS3, ColZone: "nan", ColLatitude: "12.93", ColLongitude: "77.62", ColText: "no zone mentioned", ColTemporalScore: "1.0"},
		},
	}
}

func sensorRaw() RawTable {
	return RawTable{
		Columns: []string{ColTimestamp, ColZone, ColLatitude, ColLongitude, ColDisaster, ColSeverity},
		Rows: []RawRow{
			{ColTimestamp: testTS1, ColZone: "Zone A", ColLatitude: "12.97", ColLongitude: "77.59", ColDisaster: "Flood", ColSeverity: "High"},
			{ColTimestamp: testTS1, ColZone: "Zone A", ColLatitude: "12.98", ColLongitude: "77.58", ColDisaster: "flood", ColSeverity: "Low"},
			{ColTimestamp: testTS2, ColZone: "Zone B", ColLatitude: "12.96", ColLongitude: "77.57", ColDisaster: "Fire", ColSeverity: "High"},
			{ColTimestamp: testTS3, ColZone: "", ColLatitude: "12.94", ColLongitude: "77.56", ColDisaster: "Earthquake", ColSeverity: ""},
			{ColTimestamp: "", ColZone: "Zone D", ColLatitude: "12.92", ColLongitude: "77.55", ColDisaster: "Fire", ColSeverity: "Low"},
		},
	}
}

func facilityRaw() RawTable {
	return RawTable{
		Columns: []string{ColTimestamp, ColZone, ColLatitude, ColLongitude, ColInfraLatitude, ColInfraLongitude, ColInfrastructureType, ColName, ColPredictedImpact},
		Rows: []RawRow{
			{ColTimestamp: testTS1, ColZone: "Zone A", ColLatitude: "1", ColLongitude: "2", ColInfraLatitude: "12.91", ColInfraLongitude: "77.51", ColInfrastructureType: "HOSPITAL", ColName: "City Hospital", ColPredictedImpact: "High"},
			{ColTimestamp: testTS2, ColZone: "Zone B", ColLatitude: "1", ColLongitude: "2", ColInfraLatitude: "12.92", ColInfraLongitude: "77.52", ColInfrastructureType: "shelter", ColName: "North Shelter", ColPredictedImpact: "Low"},
			{ColTimestamp: testTS2, ColZone: "", ColLatitude: "1", ColLongitude: "2", ColInfraLatitude: "12.93", ColInfraLongitude: "77.53", ColInfrastructureType: "clinic", ColName: "Zone C Clinic", ColPredictedImpact: "High"},
			{ColTimestamp: testTS3, ColZone: "Zone A", ColLatitude: "1", ColLongitude: "2", ColInfraLatitude: "12.94", ColInfraLongitude: "77.54", ColInfrastructureType: "Fire_Station", ColName: "Station 4", ColPredictedImpact: ""},
		},
	}
}
