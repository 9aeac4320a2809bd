package chat

import (
	"fmt"
	"strings"

	"github.com/edurag/knowledge-backend/internal/entity"
)

// buildPrompt assembles the Japanese RAG prompt: numbered reference blocks
// in re-ranked order, each tagged with its similarity, followed by the
// user's question and the answering rules.
func buildPrompt(question string, matches []entity.ScoredMatch) string {
	var sb strings.Builder

	sb.WriteString("あなたは教育コンテンツに関する質問に答えるアシスタントです。\n")
	sb.WriteString("以下の参考情報に基づいて、ユーザーの質問に日本語で答えてください。\n\n")

	for i, match := range matches {
		sb.WriteString(fmt.Sprintf("【参考情報%d】（類似度: %.1f%%）\n", i+1, match.Similarity*100))
		if match.Context != "" {
			sb.WriteString(match.Context)
			sb.WriteString("\n")
		}
		sb.WriteString(match.Content)
		sb.WriteString("\n\n")
	}

	sb.WriteString("【質問】\n")
	sb.WriteString(question)
	sb.WriteString("\n\n")

	sb.WriteString("【回答のルール】\n")
	sb.WriteString("- 参考情報に含まれる内容だけを根拠に答えてください。\n")
	sb.WriteString("- 複数の参考情報に関連する内容がある場合は統合して答えてください。\n")
	sb.WriteString("- 参考情報から答えが導けない場合は、その旨を正直に伝えてください。\n")
	sb.WriteString("- 簡潔で分かりやすい日本語で答えてください。\n")

	return sb.String()
}
