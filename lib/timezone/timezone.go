package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Dubai")
	if err != nil {
		panic(err)
	}
}

// force the timezone to the university's campus so extraction
// timestamps stay stable no matter where the server lands
func Now() time.Time {
	return time.Now().In(Location)
}
