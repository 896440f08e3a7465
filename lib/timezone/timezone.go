package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic(err)
	}
}

// force timezone to match the game server clock, the hour-aligned
// caches and notification schedules would drift whenever the host
// lands in another region and code used time.Now().Hour() directly
func Now() time.Time {
	return time.Now().In(Location)
}
