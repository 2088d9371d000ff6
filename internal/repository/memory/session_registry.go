package memory

import (
	"time"

	"deal-intake-be/pkg/pipeline"
	"deal-intake-be/pkg/stream"

	"github.com/patrickmn/go-cache"
)

// ActiveIntake is the in-process handle for a live run: the sequencer that
// owns the session plus its event channel.
type ActiveIntake struct {
	Sequencer *pipeline.Sequencer
	Channel   *stream.Channel
}

type SessionRegistry struct {
	cache *cache.Cache
}

// retireTTL is how long a finished run stays resolvable for event replay
// and status reads before the janitor reclaims it.
const retireTTL = 1 * time.Hour

func NewSessionRegistry() *SessionRegistry {
	// Live runs never expire: a session paused for clarification can wait
	// days, and evicting it would orphan the resume channel. Only retired
	// (terminal) entries carry a TTL.
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &SessionRegistry{
		cache: c,
	}
}

func (r *SessionRegistry) Save(sessionID string, intake *ActiveIntake) {
	r.cache.Set(sessionID, intake, cache.NoExpiration)
}

func (r *SessionRegistry) Get(sessionID string) (*ActiveIntake, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ActiveIntake), true
	}
	return nil, false
}

// Retire re-registers a terminal run with an expiration instead of deleting
// it outright: late subscribers still get the event replay window, and the
// janitor removes the entry once the TTL lapses. The relaxation of
// remove-at-terminal is intentional, not an oversight.
func (r *SessionRegistry) Retire(sessionID string) {
	if x, found := r.cache.Get(sessionID); found {
		r.cache.Set(sessionID, x, retireTTL)
	}
}

func (r *SessionRegistry) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRegistry) Count() int {
	return r.cache.ItemCount()
}
