package query

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

var ErrActorNotFound = errors.New("actor not found")

// ActorNotFoundError reports a name with no matching actor.
type ActorNotFoundError struct {
	Name string
}

func (e *ActorNotFoundError) Error() string {
	return fmt.Sprintf("actor '%s' not found in database", e.Name)
}

func (e *ActorNotFoundError) Unwrap() error {
	return ErrActorNotFound
}

// Store is what the link service reads from the relation store.
type Store interface {
	graph.IDStore
	GetActorIDByName(ctx context.Context, name string) (int64, bool, error)
	GetActorNameByID(ctx context.Context, actorID int64) (string, bool, error)
	GetMovieTitlesByIDs(ctx context.Context, movieIDs []int64) (map[int64]string, error)
	Stats(ctx context.Context) (common.Stats, error)
}

// Hop is one edge of a resolved path: two actors and the titles of every
// movie they share, sorted.
type Hop struct {
	From   string   `json:"from"`
	Movies []string `json:"movies"`
	To     string   `json:"to"`
}

// LinkResult is a presentable search outcome. Found is false when both
// actors exist but are not connected; Path and Hops are nil then.
type LinkResult struct {
	Start  string   `json:"start"`
	Target string   `json:"target"`
	Found  bool     `json:"found"`
	Path   []string `json:"path"`
	Hops   []Hop    `json:"hops"`
	Links  int      `json:"links"`
}

// NoLinkMessage is the user-facing text for an unconnected pair.
func (r *LinkResult) NoLinkMessage() string {
	return fmt.Sprintf("No link found between '%s' and '%s'", r.Start, r.Target)
}

// LinkService resolves actor names, runs the path search and annotates every
// hop with the connecting movies. It is shared by all front ends.
type LinkService struct {
	store  Store
	finder *graph.Finder
}

type LinkServiceOption func(*linkServiceConfig)

type linkServiceConfig struct {
	finderOpts []graph.FinderOption
}

// WithFinderOptions forwards options to the underlying graph.Finder.
func WithFinderOptions(opts ...graph.FinderOption) LinkServiceOption {
	return func(c *linkServiceConfig) {
		c.finderOpts = append(c.finderOpts, opts...)
	}
}

func NewLinkService(store Store, opts ...LinkServiceOption) *LinkService {
	cfg := &linkServiceConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return &LinkService{
		store:  store,
		finder: graph.NewFinder(graph.FromStore(store), cfg.finderOpts...),
	}
}

// Link finds a shortest connection between two actors by name.
//
// Unknown names return an *ActorNotFoundError. Store failures and broken
// engine invariants are returned wrapped. An unconnected pair is not an
// error: the result has Found == false.
func (s *LinkService) Link(ctx context.Context, from, to string) (*LinkResult, error) {
	from, to = util.NormalizeName(from), util.NormalizeName(to)

	startID, err := s.resolve(ctx, from)
	if err != nil {
		return nil, err
	}
	targetID, err := s.resolve(ctx, to)
	if err != nil {
		return nil, err
	}

	path, found, err := s.finder.FindPath(ctx, graph.NodeID(startID), graph.NodeID(targetID))
	if err != nil {
		return nil, fmt.Errorf("find path from '%s' to '%s': %w", from, to, err)
	}

	res := &LinkResult{Start: from, Target: to}
	if !found {
		logger.Debug("[Query][Link] No link", "start", from, "target", to)
		return res, nil
	}

	res.Found = true
	res.Links = path.Hops()
	res.Path, err = s.names(ctx, path)
	if err != nil {
		return nil, err
	}
	res.Hops, err = s.hops(ctx, path, res.Path)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *LinkService) resolve(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, &ActorNotFoundError{Name: name}
	}
	id, found, err := s.store.GetActorIDByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("look up actor '%s': %w", name, err)
	}
	if !found {
		logger.Debug("[Query][Link] Unknown actor", "name", name)
		return 0, &ActorNotFoundError{Name: name}
	}
	return id, nil
}

func (s *LinkService) names(ctx context.Context, path graph.Path) ([]string, error) {
	names := make([]string, len(path))
	for i, n := range path {
		name, found, err := s.store.GetActorNameByID(ctx, int64(n))
		if err != nil {
			return nil, fmt.Errorf("look up actor %d: %w", n, err)
		}
		if !found {
			return nil, fmt.Errorf("actor %d on path has no name: %w", n, graph.ErrInvariant)
		}
		names[i] = name
	}
	return names, nil
}

func (s *LinkService) hops(ctx context.Context, path graph.Path, names []string) ([]Hop, error) {
	movies := make(map[graph.NodeID]map[int64]struct{}, len(path))
	moviesOf := func(n graph.NodeID) (map[int64]struct{}, error) {
		if set, ok := movies[n]; ok {
			return set, nil
		}
		ids, err := s.store.GetMovieIDsForActor(ctx, int64(n))
		if err != nil {
			return nil, fmt.Errorf("look up movies of actor %d: %w", n, err)
		}
		set := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		movies[n] = set
		return set, nil
	}

	hops := make([]Hop, 0, path.Hops())
	for i := 1; i < len(path); i++ {
		left, err := moviesOf(path[i-1])
		if err != nil {
			return nil, err
		}
		right, err := moviesOf(path[i])
		if err != nil {
			return nil, err
		}

		shared := make([]int64, 0)
		for id := range left {
			if _, ok := right[id]; ok {
				shared = append(shared, id)
			}
		}
		titles, err := s.store.GetMovieTitlesByIDs(ctx, shared)
		if err != nil {
			return nil, fmt.Errorf("look up movie titles: %w", err)
		}
		list := make([]string, 0, len(titles))
		for _, t := range titles {
			list = append(list, t)
		}
		sort.Strings(list)

		hops = append(hops, Hop{From: names[i-1], Movies: list, To: names[i]})
	}
	return hops, nil
}

// ActorName returns the name stored for an internal actor ID.
func (s *LinkService) ActorName(ctx context.Context, id int64) (string, error) {
	name, found, err := s.store.GetActorNameByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &ActorNotFoundError{Name: fmt.Sprintf("#%d", id)}
	}
	return name, nil
}

func (s *LinkService) Stats(ctx context.Context) (common.Stats, error) {
	return s.store.Stats(ctx)
}
