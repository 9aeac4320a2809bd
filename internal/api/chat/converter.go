package chat

import "github.com/edurag/knowledge-backend/internal/entity"

func toChatResponse(answer *entity.Answer) *entity.ChatResponse {
	return &entity.ChatResponse{
		Success:      true,
		Answer:       answer.Text,
		Sources:      answer.Sources,
		HasKnowledge: answer.HasKnowledge,
	}
}

func toSearchResponse(query string, matches []entity.ScoredMatch) *entity.SearchResponse {
	results := make([]entity.SearchResultDTO, 0, len(matches))
	for _, match := range matches {
		results = append(results, entity.SearchResultDTO{
			Content:       match.Content,
			Context:       match.Context,
			Metadata:      match.Metadata,
			Similarity:    match.Similarity,
			AdjustedScore: match.AdjustedScore,
		})
	}

	return &entity.SearchResponse{
		Success: true,
		Query:   query,
		Results: results,
	}
}
