package util

import "time"

var berlinLocation *time.Location

func init() {
	var err error
	berlinLocation, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		berlinLocation = time.FixedZone("CET", 1*60*60)
	}
}

func FormatBerlin(t time.Time, layout string) string {
	return t.In(berlinLocation).Format(layout)
}
