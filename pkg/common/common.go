package common

// Actor is a cast member as known to the movie catalog. TMDBID is the
// catalog identifier; the store assigns its own internal ID on insert.
type Actor struct {
	TMDBID             int64  `json:"tmdb_id"`
	Name               string `json:"name"`
	KnownForDepartment string `json:"known_for_department,omitempty"`
}

// Movie is a feature film as known to the movie catalog.
type Movie struct {
	TMDBID int64  `json:"tmdb_id"`
	Title  string `json:"title"`
}

// MovieCredits is one ingested movie together with its cast. Every actor in
// Cast gets a link to Movie when saved.
type MovieCredits struct {
	Movie Movie   `json:"movie"`
	Cast  []Actor `json:"cast"`
}

// Stats holds row counts of the relation store.
type Stats struct {
	Actors int64 `json:"actors"`
	Movies int64 `json:"movies"`
	Links  int64 `json:"links"`
}
