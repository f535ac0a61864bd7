package session

import (
	"time"

	"github.com/UTDS16/battleship/common/cache"
)

// Presence remembers which servers announced recently. It only feeds the
// lobby list; the known servers table is never pruned.
type Presence struct {
	cache *cache.GeneralCache
}

func NewPresence(maxCost int64, ttl time.Duration) (*Presence, error) {
	c, err := cache.NewGeneralCache(maxCost, ttl)
	if err != nil {
		return nil, err
	}
	return &Presence{cache: c}, nil
}

func (p *Presence) Touch(uuid string, seen time.Time) {
	if p == nil {
		return
	}
	p.cache.Put(uuid, seen)
}

// LastSeen returns when uuid last announced, if that was within the TTL.
func (p *Presence) LastSeen(uuid string) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	return p.cache.GetTime(uuid)
}

// Live reports whether uuid announced within the TTL. A nil Presence treats every server as live.
func (p *Presence) Live(uuid string) bool {
	if p == nil {
		return true
	}
	_, ok := p.LastSeen(uuid)
	return ok
}

func (p *Presence) Close() {
	if p == nil {
		return
	}
	p.cache.Close()
}
