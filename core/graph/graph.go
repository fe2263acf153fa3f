// Package graph provides an in-memory adjacency view over one report's
// entity/relation graph.
package graph

import (
	"github.com/lungmap/radpipe/model"
)

// DocumentGraph is a directed graph over the entities of a single report.
// Adjacency lists preserve the order relations were parsed in, so traversal
// output is deterministic for a given report.
type DocumentGraph struct {
	entities map[string]*model.Entity
	order    []string
	outgoing map[string][]model.Relation
	incoming map[string][]model.Relation
}

// New builds a DocumentGraph from a parsed report.
func New(report *model.Report) *DocumentGraph {
	g := &DocumentGraph{
		entities: make(map[string]*model.Entity, len(report.Entities)),
		order:    make([]string, 0, len(report.Entities)),
		outgoing: make(map[string][]model.Relation),
		incoming: make(map[string][]model.Relation),
	}
	for i := range report.Entities {
		entity := &report.Entities[i]
		g.entities[entity.ID] = entity
		g.order = append(g.order, entity.ID)
	}
	for _, relation := range report.Relations {
		g.outgoing[relation.SourceID] = append(g.outgoing[relation.SourceID], relation)
		g.incoming[relation.TargetID] = append(g.incoming[relation.TargetID], relation)
	}
	return g
}

// Entity returns the entity with the given id, or nil.
func (g *DocumentGraph) Entity(id string) *model.Entity {
	return g.entities[id]
}

// Targets returns the entities reachable in one hop from id over relations
// of the given kind, in relation order.
func (g *DocumentGraph) Targets(id string, kind model.RelationKind) []*model.Entity {
	var targets []*model.Entity
	for _, relation := range g.outgoing[id] {
		if relation.Kind == kind {
			if target := g.entities[relation.TargetID]; target != nil {
				targets = append(targets, target)
			}
		}
	}
	return targets
}

// Sources returns the entities pointing at id over relations of the given
// kind, in relation order.
func (g *DocumentGraph) Sources(id string, kind model.RelationKind) []*model.Entity {
	var sources []*model.Entity
	for _, relation := range g.incoming[id] {
		if relation.Kind == kind {
			if source := g.entities[relation.SourceID]; source != nil {
				sources = append(sources, source)
			}
		}
	}
	return sources
}

// TraversalResult contains an entity and its distance from the source.
type TraversalResult struct {
	Entity   *model.Entity
	Distance int
	Path     []string // entity ids from source to this entity
}

// BFS performs breadth-first search along outgoing relations from a source
// entity, up to maxHops. Kinds filters the followed relations; nil follows
// all kinds.
func (g *DocumentGraph) BFS(sourceID string, maxHops int, kinds []model.RelationKind) []*TraversalResult {
	source := g.entities[sourceID]
	if source == nil {
		return nil
	}

	visited := map[string]bool{sourceID: true}
	queue := []TraversalResult{{
		Entity:   source,
		Distance: 0,
		Path:     []string{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		for _, relation := range g.outgoing[current.Entity.ID] {
			if !kindAllowed(relation.Kind, kinds) {
				continue
			}
			if visited[relation.TargetID] || g.entities[relation.TargetID] == nil {
				continue
			}
			visited[relation.TargetID] = true

			newPath := make([]string, len(current.Path))
			copy(newPath, current.Path)
			newPath = append(newPath, relation.TargetID)

			queue = append(queue, TraversalResult{
				Entity:   g.entities[relation.TargetID],
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results
}

func kindAllowed(kind model.RelationKind, kinds []model.RelationKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
