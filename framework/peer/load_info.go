package peer

// LoadInfo is one sample of the peer's load.
type LoadInfo struct {
	KnownServers int     `json:"known_servers"`
	Players      int     `json:"players"` // roster size of the game we are in
	Pending      int     `json:"pending"` // envelopes waiting in the read channel
	Received     uint64  `json:"received"`
	Dropped      uint64  `json:"dropped"`
	CPUUsage     float64 `json:"cpu_usage"` // 0-100
	MemUsage     float64 `json:"mem_usage"` // 0-100
}

// CalculateLoad weighs CPU 30%, memory 20%, backlog 30% and lobby size 20%.
// Lower is better.
func (li *LoadInfo) CalculateLoad() float64 {
	backlog := float64(li.Pending) / 100.0
	if backlog > 1.0 {
		backlog = 1.0
	}

	servers := float64(li.KnownServers) / 100.0
	if servers > 1.0 {
		servers = 1.0
	}

	return li.CPUUsage*0.3 + li.MemUsage*0.2 + backlog*100*0.3 + servers*100*0.2
}

// DropRate is the share of received envelopes that could not be decoded.
func (li *LoadInfo) DropRate() float64 {
	if li.Received == 0 {
		return 0
	}
	return float64(li.Dropped) / float64(li.Received)
}
