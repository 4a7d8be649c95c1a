package collector

// BatterySample holds one poll of the battery from /sys/class/power_supply/BAT*.
// Now and Full are only read while discharging; otherwise they stay zero.
type BatterySample struct {
	Timestamp   int64   `json:"timestamp"`
	Status      string  `json:"status"`
	Discharging bool    `json:"discharging"`
	Now         float64 `json:"now"`
	Full        float64 `json:"full"`
	Percentage  float64 `json:"percentage"`
}
