package experiment

import "time"

// epoch is the start of simulated time. Any fixed instant works since the
// controller only uses differences.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
