package catalog

// Filter decides which catalog entries count as feature films.
type Filter struct {
	SkipAdult          bool    `yaml:"skip_adult"`
	SkipVideo          bool    `yaml:"skip_video"`
	RequireReleaseDate bool    `yaml:"require_release_date"`
	ExcludedGenres     []int64 `yaml:"excluded_genres"`
}

const (
	GenreDocumentary int64 = 99
	GenreTVMovie     int64 = 10770
)

// DefaultFilter drops adult titles, videos, unreleased entries, TV movies
// and documentaries.
func DefaultFilter() Filter {
	return Filter{
		SkipAdult:          true,
		SkipVideo:          true,
		RequireReleaseDate: true,
		ExcludedGenres:     []int64{GenreTVMovie, GenreDocumentary},
	}
}

func (f Filter) IsFeatureFilm(d MovieDetails) bool {
	if f.SkipAdult && d.Adult {
		return false
	}
	if f.SkipVideo && d.Video {
		return false
	}
	if f.RequireReleaseDate && (d.ReleaseDate == nil || *d.ReleaseDate == "") {
		return false
	}
	for _, g := range d.Genres {
		for _, excluded := range f.ExcludedGenres {
			if g.ID == excluded {
				return false
			}
		}
	}
	return true
}
