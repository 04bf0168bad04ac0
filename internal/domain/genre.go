package domain

import "github.com/kapu/film-robo-go/internal/util"

// GenreCategory is one of the fixed recommendation categories.
type GenreCategory string

const (
	GenreComedy       GenreCategory = "Komödie"
	GenreHorror       GenreCategory = "Horror/Thriller"
	GenreKids         GenreCategory = "Kinderfilme"
	GenreAction       GenreCategory = "Action/Abenteuer"
	GenreSciFiFantasy GenreCategory = "Sci-Fi/Fantasy"
)

func (g GenreCategory) String() string {
	return string(g)
}

// GenreDefinition binds a category to its TMDb genre ids, the description shown to
// the classifier and the keywords used by rule-based matching.
type GenreDefinition struct {
	Category    GenreCategory
	GenreIDs    []int
	Description string
	Keywords    []string
}

var genreCatalog = []GenreDefinition{
	{
		Category:    GenreComedy,
		GenreIDs:    []int{35, 10749},
		Description: "Lustige Filme, romantische Komödien, Humor",
		Keywords:    []string{"lustig", "lachen", "komödie", "romantisch"},
	},
	{
		Category:    GenreHorror,
		GenreIDs:    []int{27, 53},
		Description: "Gruselige, spannende, angsteinflößende Filme",
		Keywords:    []string{"gruselig", "angst", "horror", "thriller", "spannend"},
	},
	{
		Category:    GenreKids,
		GenreIDs:    []int{10751, 16},
		Description: "Familienfilme, Animationsfilme für Kinder",
		Keywords:    []string{"kinder", "familie", "animation"},
	},
	{
		Category:    GenreAction,
		GenreIDs:    []int{28, 12},
		Description: "Action, Kampf, Abenteuer, Reisen",
		Keywords:    []string{"kampf", "explosion", "action", "abenteuer", "reise"},
	},
	{
		Category:    GenreSciFiFantasy,
		GenreIDs:    []int{878, 14},
		Description: "Science Fiction, Weltraum, Fantasy, Zauber",
		Keywords:    []string{"weltraum", "zauber", "fantasie", "science fiction", "alien"},
	},
}

// GenreCatalog returns the category table in declaration order. The returned
// definitions are copies; the catalog itself never changes.
func GenreCatalog() []GenreDefinition {
	out := make([]GenreDefinition, len(genreCatalog))
	for i, def := range genreCatalog {
		out[i] = GenreDefinition{
			Category:    def.Category,
			GenreIDs:    append([]int(nil), def.GenreIDs...),
			Description: def.Description,
			Keywords:    append([]string(nil), def.Keywords...),
		}
	}
	return out
}

// LookupGenre returns the definition for a category.
func LookupGenre(category GenreCategory) (GenreDefinition, bool) {
	for _, def := range GenreCatalog() {
		if def.Category == category {
			return def, true
		}
	}
	return GenreDefinition{}, false
}

// IsKnownGenreID reports whether id belongs to any catalog category.
func IsKnownGenreID(id int) bool {
	for _, def := range genreCatalog {
		for _, gid := range def.GenreIDs {
			if gid == id {
				return true
			}
		}
	}
	return false
}

// GenreIDSet is a deduplicated set of TMDb genre ids. Order carries no meaning.
type GenreIDSet []int

// NewGenreIDSet drops duplicates, keeping first occurrence order.
func NewGenreIDSet(ids ...int) GenreIDSet {
	return GenreIDSet(util.Unique(ids))
}

func (s GenreIDSet) IsEmpty() bool {
	return len(s) == 0
}

func (s GenreIDSet) Contains(id int) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Ints returns the ids as a plain slice, never nil.
func (s GenreIDSet) Ints() []int {
	if s == nil {
		return []int{}
	}
	return append([]int(nil), s...)
}
