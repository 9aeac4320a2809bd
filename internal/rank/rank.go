// Package rank re-scores vector-search matches using section and type
// priority weights before they are handed to prompt assembly.
package rank

import (
	"sort"

	"github.com/edurag/knowledge-backend/internal/entity"
)

// sectionPriority weights structural sections: introductory content ranks
// highest, core lecture content slightly lower, closing summaries lowest.
var sectionPriority = map[string]float64{
	"Intro":   1.5,
	"Lecture": 1.3,
	"Outro":   0.5,
}

// typePriority weights content kinds: informational types over quiz-like
// ones.
var typePriority = map[string]float64{
	"article":     1.2,
	"description": 1.1,
	"text":        1.0,
	"survey":      0.8,
}

const defaultPriority = 1.0

// SectionWeight returns the priority multiplier for a section label.
// Unknown sections weigh 1.0.
func SectionWeight(section string) float64 {
	if w, ok := sectionPriority[section]; ok {
		return w
	}
	return defaultPriority
}

// TypeWeight returns the priority multiplier for a content type. Unknown
// types weigh 1.0.
func TypeWeight(contentType string) float64 {
	if w, ok := typePriority[contentType]; ok {
		return w
	}
	return defaultPriority
}

// Rerank scores each match as similarity × section weight × type weight,
// sorts descending by the adjusted score and returns at most limit
// matches. Equal adjusted scores keep their original order, so results are
// deterministic for identical input. The raw similarity is carried through
// unmodified.
func Rerank(matches []entity.KnowledgeMatch, limit int) []entity.ScoredMatch {
	scored := make([]entity.ScoredMatch, 0, len(matches))
	for _, match := range matches {
		scored = append(scored, entity.ScoredMatch{
			KnowledgeMatch: match,
			AdjustedScore:  match.Similarity * SectionWeight(match.Metadata.Section) * TypeWeight(match.Metadata.Type),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].AdjustedScore > scored[j].AdjustedScore
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return scored
}
