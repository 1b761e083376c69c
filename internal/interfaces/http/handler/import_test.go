package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sopas/backend/internal/domain/agent"
)

func TestImportAgentsInsertsAllRows(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "owner@example.com")

	csv := "name,type\n" +
		"Agra Textiles,buyer\n" +
		"Agate Mills,supplier\n"
	w := env.doUpload(t, "/api/v1/import/agents", token, "agents.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, w.Body.String(), `"total_rows":2`)
	assert.Contains(t, w.Body.String(), `"inserted_rows":2`)

	var agents []agent.Agent
	require.NoError(t, env.db.Order("agent_id").Find(&agents).Error)
	require.Len(t, agents, 2)
	assert.Equal(t, "AG001", agents[0].AgentID)
	assert.Equal(t, "AG002", agents[1].AgentID)
}

func TestImportAgentsRejectsInvalidRowWithRowNumber(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "owner@example.com")

	csv := "name,type\n" +
		"Agra Textiles,buyer\n" +
		"Agate Mills,wholesaler\n"
	w := env.doUpload(t, "/api/v1/import/agents", token, "agents.csv", csv)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	assert.Contains(t, w.Body.String(), `"row":2`)
	assert.Contains(t, w.Body.String(), `"field":"type"`)

	var count int64
	require.NoError(t, env.db.Model(&agent.Agent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImportRejectsUnsupportedFileType(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "owner@example.com")

	w := env.doUpload(t, "/api/v1/import/stores", token, "stores.txt", "name\nMain Street Outlet\n")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code, w.Body.String())
}

func TestImportHistoryListsOutcomes(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "owner@example.com")

	w := env.doUpload(t, "/api/v1/import/agents", token, "good.csv", "name,type\nAgra Textiles,buyer\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.doUpload(t, "/api/v1/import/agents", token, "bad.csv", "name,type\nAgate Mills,wholesaler\n")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = env.doJSON(t, http.MethodGet, "/api/v1/import/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.String()
	assert.Contains(t, body, `"file_name":"`)
	assert.Contains(t, body, `"status":"completed"`)
	assert.Contains(t, body, `"status":"failed"`)
}

func TestImportRequiresAuthentication(t *testing.T) {
	env := setupTestEnv(t)

	w := env.doUpload(t, "/api/v1/import/agents", "", "agents.csv", "name,type\nAgra Textiles,buyer\n")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
