package system

import (
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

// TTLSystem counts TTL components down once per tick and destroys their
// entities when they run out.
type TTLSystem struct {
	expired []ecs.Entity
}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.expired = s.expired[:0]
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 1 {
			ttl.Frames--
			return
		}
		s.expired = append(s.expired, e)
	})

	for _, e := range s.expired {
		ecs.DestroyEntity(w, e)
	}
}
