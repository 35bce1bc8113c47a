package services

import (
	"aimufti-backend/internal/llm"
	"aimufti-backend/internal/models"
)

// AssembleContext turns stored history plus the new input into the turn list
// sent upstream. With no history the system instruction is folded into the
// single opening user turn; otherwise history is replayed as-is with
// assistant turns mapped to the model role and the input appended bare.
func AssembleContext(systemPrompt string, history []models.Message, input string) []llm.Turn {
	if len(history) == 0 {
		return []llm.Turn{llm.FirstTurn(systemPrompt, input)}
	}

	turns := make([]llm.Turn, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleModel
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Content})
	}
	return append(turns, llm.Turn{Role: llm.RoleUser, Content: input})
}
