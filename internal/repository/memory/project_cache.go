package memory

import (
	"time"

	"voice-todoist-be/pkg/match"

	"github.com/patrickmn/go-cache"
)

const projectSnapshotKey = "projects"

// ProjectCache holds the most recent Todoist project snapshot so matching
// does not hit the API on every turn. Invalidate drops the snapshot after
// a project is created elsewhere.
type ProjectCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewProjectCache(ttl time.Duration) *ProjectCache {
	return &ProjectCache{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *ProjectCache) Get() ([]match.Project, bool) {
	if x, found := c.cache.Get(projectSnapshotKey); found {
		return x.([]match.Project), true
	}
	return nil, false
}

func (c *ProjectCache) Set(projects []match.Project) {
	c.cache.Set(projectSnapshotKey, projects, c.ttl)
}

func (c *ProjectCache) Invalidate() {
	c.cache.Delete(projectSnapshotKey)
}
