package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/actorlink/internal/queue"
	mid "github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	"github.com/OFFIS-RIT/actorlink/pkg/query"
	"github.com/OFFIS-RIT/actorlink/pkg/store/sqlite"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

func movie(id int64, title string, cast ...common.Actor) common.MovieCredits {
	return common.MovieCredits{Movie: common.Movie{TMDBID: id, Title: title}, Cast: cast}
}

func actor(id int64, name string) common.Actor {
	return common.Actor{TMDBID: id, Name: name}
}

func newTestApp(t *testing.T) *mid.App {
	t.Helper()
	return &mid.App{
		Links:        query.NewLinkService(newTestStore(t)),
		MasterAPIKey: "master",
	}
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "actorlink.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	keanu := actor(1, "Keanu Reeves")
	carrie := actor(2, "Carrie-Anne Moss")
	laurence := actor(3, "Laurence Fishburne")
	joe := actor(4, "Joe Pantoliano")
	loner := actor(5, "Loner")

	require.NoError(t, st.SaveMovies(ctx, []common.MovieCredits{
		movie(603, "The Matrix", keanu, carrie),
		movie(604, "The Matrix Reloaded", keanu, carrie),
		movie(10, "Memento", carrie, joe),
		movie(11, "Mystic River", laurence, joe),
		movie(12, "Solo Film", loner),
	}))
	return st
}

// faultyStore wraps a seeded store and breaks selected lookups.
type faultyStore struct {
	*sqlite.Store
	moviesErr error
	nameless  string
}

func (f *faultyStore) GetMovieIDsForActor(ctx context.Context, actorID int64) ([]int64, error) {
	if f.moviesErr != nil {
		return nil, f.moviesErr
	}
	return f.Store.GetMovieIDsForActor(ctx, actorID)
}

func (f *faultyStore) GetActorNameByID(ctx context.Context, actorID int64) (string, bool, error) {
	name, found, err := f.Store.GetActorNameByID(ctx, actorID)
	if err == nil && found && name == f.nameless {
		return "", false, nil
	}
	return name, found, err
}

func do(t *testing.T, app *mid.App, method, path, body string, header ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := New(app)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(header) == 1 {
		req.Header.Set("Authorization", header[0])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestActorLink_Found(t *testing.T) {
	app := newTestApp(t)
	rec, out := do(t, app, http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Laurence Fishburne"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{"Keanu Reeves", "Carrie-Anne Moss", "Joe Pantoliano", "Laurence Fishburne"}, out["path"])
	require.Equal(t, float64(3), out["link_number"])
	require.Nil(t, out["error"])

	linkPath := out["link_path"].([]any)
	require.Len(t, linkPath, 3)
	require.Equal(t, []any{"Keanu Reeves", "The Matrix, The Matrix Reloaded", "Carrie-Anne Moss"}, linkPath[0])
	require.Equal(t, []any{"Joe Pantoliano", "Mystic River", "Laurence Fishburne"}, linkPath[2])
}

func TestActorLink_SameActor(t *testing.T) {
	rec, out := do(t, newTestApp(t), http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Keanu Reeves"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{"Keanu Reeves"}, out["path"])
	require.Equal(t, []any{}, out["link_path"])
	require.Equal(t, float64(0), out["link_number"])
}

func TestActorLink_StoreFailure(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t), moviesErr: errors.New("connection reset")}
	app := &mid.App{Links: query.NewLinkService(st)}

	rec, out := do(t, app, http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Laurence Fishburne"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Nil(t, out["path"])
	require.Contains(t, out["error"], "Error finding actor link")
	require.Contains(t, out["error"], "connection reset")
}

func TestActorLink_InvariantViolationIsServerError(t *testing.T) {
	st := &faultyStore{Store: newTestStore(t), nameless: "Carrie-Anne Moss"}
	app := &mid.App{Links: query.NewLinkService(st)}

	rec, out := do(t, app, http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Laurence Fishburne"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Nil(t, out["path"])
	require.Contains(t, out["error"], graph.ErrInvariant.Error())
}

func TestActorLink_NoLink(t *testing.T) {
	rec, out := do(t, newTestApp(t), http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Loner"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, out["path"])
	require.Nil(t, out["link_path"])
	require.Nil(t, out["link_number"])
	require.Equal(t, "No link found between 'Keanu Reeves' and 'Loner'", out["error"])
}

func TestActorLink_UnknownActor(t *testing.T) {
	rec, out := do(t, newTestApp(t), http.MethodPost, "/api/actor-link",
		`{"start_actor_name":"Keanu Reeves","target_actor_name":"Nobody"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Actor 'Nobody' not found in database.", out["error"])
}

func TestActorLink_InvalidBody(t *testing.T) {
	rec, _ := do(t, newTestApp(t), http.MethodPost, "/api/actor-link", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsAndHealth(t *testing.T) {
	app := newTestApp(t)

	rec, out := do(t, app, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(5), out["actors"])
	require.Equal(t, float64(5), out["movies"])
	require.Equal(t, float64(9), out["links"])

	rec, _ = do(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestGetActor(t *testing.T) {
	app := newTestApp(t)

	rec, out := do(t, app, http.MethodGet, "/api/actors/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Keanu Reeves", out["name"])

	rec, _ = do(t, app, http.MethodGet, "/api/actors/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, app, http.MethodGet, "/api/actors/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type recordingPublisher struct {
	keys   []string
	bodies [][]byte
}

func (p *recordingPublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, msg.Body)
	return nil
}

func TestCreateIngestJob(t *testing.T) {
	app := newTestApp(t)

	rec, _ := do(t, app, http.MethodPost, "/api/admin/ingest", `{"from":1,"to":100}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, app, http.MethodPost, "/api/admin/ingest", `{"from":1,"to":100}`, "Bearer master")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	pub := &recordingPublisher{}
	app.Queue = pub

	rec, _ = do(t, app, http.MethodPost, "/api/admin/ingest", `{"from":100,"to":1}`, "Bearer master")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, pub.keys)

	rec, out := do(t, app, http.MethodPost, "/api/admin/ingest", `{"from":1,"to":100}`, "Bearer master")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.NotEmpty(t, out["job_id"])
	require.NotEmpty(t, out["message"])
	require.NotContains(t, out, "from_tmdb_id")
	require.Equal(t, []string{queue.IngestQueue}, pub.keys)

	msg, err := queue.DecodeIngestJob(pub.bodies[0])
	require.NoError(t, err)
	require.Equal(t, out["job_id"], msg.JobID)
	require.Equal(t, int64(1), msg.From)
	require.Equal(t, int64(100), msg.To)
}

func TestBootstrap_QueuesDefaultRangeWhenEmpty(t *testing.T) {
	t.Setenv("INGEST_CONFIG", "")
	ctx := context.Background()
	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer st.Close()

	pub := &recordingPublisher{}
	bootstrap(ctx, st, pub)

	require.Len(t, pub.bodies, 1)
	msg, err := queue.DecodeIngestJob(pub.bodies[0])
	require.NoError(t, err)
	require.Equal(t, int64(232000), msg.From)
	require.Equal(t, int64(262000), msg.To)
	require.Equal(t, "bootstrap", msg.RequestedBy)
}

func TestBootstrap_SkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "full.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.SaveMovies(ctx, []common.MovieCredits{movie(1, "One", actor(1, "A"))}))

	pub := &recordingPublisher{}
	bootstrap(ctx, st, pub)
	require.Empty(t, pub.bodies)
}
