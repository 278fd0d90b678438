package mcp

import "github.com/OFFIS-RIT/actorlink/pkg/query"

type FindActorLinkArgs struct {
	StartActorName  string `json:"start_actor_name" jsonschema:"Name of the first actor, e.g. 'Keanu Reeves'"`
	TargetActorName string `json:"target_actor_name" jsonschema:"Name of the second actor"`
}

type FindActorLinkResult struct {
	Found   bool        `json:"found"`
	Path    []string    `json:"path"`
	Hops    []query.Hop `json:"hops"`
	Links   int         `json:"links"`
	Message string      `json:"message,omitempty"`
}

type ActorStatsArgs struct{}

type ActorStatsResult struct {
	Actors int64 `json:"actors"`
	Movies int64 `json:"movies"`
	Links  int64 `json:"links"`
}
