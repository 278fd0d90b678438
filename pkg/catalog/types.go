package catalog

import (
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/common"
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the subset of the catalog movie record used for
// filtering and storage.
type MovieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Adult       bool    `json:"adult"`
	Video       bool    `json:"video"`
	ReleaseDate *string `json:"release_date"`
	Genres      []Genre `json:"genres"`
}

type CastMember struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	KnownForDepartment string `json:"known_for_department"`
}

type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
}

// ToMovieCredits joins details and credits into the storable form. Names
// and titles are stored in the same normalized form lookups use.
func ToMovieCredits(details MovieDetails, credits Credits) common.MovieCredits {
	cast := make([]common.Actor, 0, len(credits.Cast))
	for _, c := range credits.Cast {
		cast = append(cast, common.Actor{
			TMDBID:             c.ID,
			Name:               util.NormalizeName(c.Name),
			KnownForDepartment: c.KnownForDepartment,
		})
	}
	return common.MovieCredits{
		Movie: common.Movie{TMDBID: details.ID, Title: util.NormalizeName(details.Title)},
		Cast:  cast,
	}
}
