package handler

import (
	"tube-bite/config"
	"tube-bite/internal/deps"
	"tube-bite/internal/dto"
	"tube-bite/internal/response"

	"github.com/gin-gonic/gin"
)

// captionTemplates are the caption style presets the frontend offers. The
// karaoke renderer currently styles every template the same way; the chosen
// id is persisted with the job so future styles apply on retry.
var captionTemplates = []dto.TemplateRes{
	{Id: "minimal", Name: "Minimal", Description: "Clean white captions with a yellow highlight"},
	{Id: "gaming", Name: "Gaming", Description: "Bold captions tuned for gameplay footage"},
	{Id: "podcast", Name: "Podcast", Description: "Large readable captions for talking heads"},
	{Id: "cinematic", Name: "Cinematic", Description: "Understated captions with wide margins"},
	{Id: "social", Name: "Social", Description: "Punchy captions for feed-first clips"},
	{Id: "news", Name: "News", Description: "Lower-third style captions"},
}

func (h *Handler) GetTemplates(c *gin.Context) {
	response.Success(c, captionTemplates)
}

// Health reports whether the pieces the pipeline needs are actually in
// place: required executables, an LLM key and the configured asset store.
func (h *Handler) Health(c *gin.Context) {
	states := deps.ResolveDependencyInventory(config.Conf.Transcribe.Provider)
	missing := deps.MissingMust(states)

	tools := make(map[string]bool, len(states))
	for _, state := range states {
		tools[state.Name] = state.Status == deps.DependencyStatusOK
	}

	status := "ok"
	if len(missing) > 0 {
		status = "degraded"
	}
	response.Success(c, gin.H{
		"status":        status,
		"tools":         tools,
		"missing":       missing,
		"llmConfigured": config.Conf.Llm.ApiKey != "",
		"store":         config.Conf.Store.Provider,
	})
}
