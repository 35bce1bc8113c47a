package services

import (
	"aimufti-backend/internal/llm"
	"aimufti-backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleContext_FirstTurn(t *testing.T) {
	turns := AssembleContext("Be helpful.", nil, "What is wudu?")

	require.Len(t, turns, 1)
	assert.Equal(t, llm.RoleUser, turns[0].Role)
	assert.Equal(t, "Be helpful.\n\nUser question: What is wudu?", turns[0].Content)
}

func TestAssembleContext_WithHistory(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "Salam"},
		{Role: models.RoleAssistant, Content: "Wa alaikum salam"},
		{Role: models.RoleUser, Content: "What is wudu?"},
		{Role: models.RoleAssistant, Content: "Ablution before prayer."},
	}

	turns := AssembleContext("Be helpful.", history, "How many fard?")

	require.Len(t, turns, len(history)+1)
	assert.Equal(t, []llm.Turn{
		{Role: llm.RoleUser, Content: "Salam"},
		{Role: llm.RoleModel, Content: "Wa alaikum salam"},
		{Role: llm.RoleUser, Content: "What is wudu?"},
		{Role: llm.RoleModel, Content: "Ablution before prayer."},
		{Role: llm.RoleUser, Content: "How many fard?"},
	}, turns)
	for _, turn := range turns {
		assert.NotContains(t, turn.Content, "Be helpful.")
	}
}
