package vacation

import "time"

// SetClock pins the service's notion of now.
func SetClock(s Service, now func() time.Time) {
	s.(*service).now = now
}
