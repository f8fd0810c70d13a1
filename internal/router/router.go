package router

import (
	"net/http"
	"os"

	"tube-bite/internal/appdirs"
	"tube-bite/internal/handler"
	"tube-bite/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires the API, the progress websocket and the rendered clip
// files onto the engine.
func SetupRouter(r *gin.Engine, hdl *handler.Handler) {
	api := r.Group("/api")
	{
		api.POST("/clips/generate", hdl.GenerateClips)
		api.POST("/clips/upload", hdl.UploadVideo)
		api.GET("/clips/job", hdl.GetJob)
		api.GET("/clips/history", hdl.GetJobHistory)

		api.GET("/trash", hdl.GetTrash)
		api.DELETE("/clips/job/:jobId", hdl.TrashJob)
		api.POST("/trash/:jobId/restore", hdl.RestoreJob)
		api.DELETE("/trash/:jobId", hdl.PermanentDeleteJob)

		api.GET("/templates", hdl.GetTemplates)
		api.GET("/health", hdl.Health)
	}

	r.GET("/ws/progress", hdl.Progress.Serve)

	// Rendered clips and thumbnails are served straight from the output
	// root; clip URLs in job responses point here when no remote store is
	// configured.
	if outputRoot, err := appdirs.ResolveOutputRoot(); err == nil {
		r.Static("/output", outputRoot)
	} else {
		log.GetLogger().Warn("output root unresolved, local clip serving disabled", zap.Error(err))
	}

	if _, err := os.Stat("static"); err == nil {
		r.Static("/static", "static")
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/static")
		})
	}
}
