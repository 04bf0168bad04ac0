package intent

import (
	"strings"

	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/internal/util"
)

// KeywordClassifier maps a prompt onto genre ids by substring matching against
// the catalog keyword lists. It is deterministic and never fails.
type KeywordClassifier struct {
	catalog []domain.GenreDefinition
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{catalog: domain.GenreCatalog()}
}

func (k *KeywordClassifier) Classify(query string) domain.GenreIDSet {
	lower := util.Normalize(query)

	var ids []int
	for _, def := range k.catalog {
		if containsAny(lower, def.Keywords) {
			ids = append(ids, def.GenreIDs...)
		}
	}
	return domain.NewGenreIDSet(ids...)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
