package handler

import (
	"net/http"

	"campus-map/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter 创建 Gin 引擎并配置路由
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(), CORS())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// 公开接口 (无需认证)
		api.POST("/login", Login)
		api.POST("/register", Register)

		api.POST("/path/find", FindPath)
		api.GET("/nodes", GetNodes)
		api.GET("/nodes/search", SearchNodes)
		api.GET("/nodes/:id", GetNodeByID)
		api.GET("/buildings", GetBuildings)
		api.GET("/buildings/search", SearchBuildings)
		api.GET("/overlays", GetOverlays)
		api.GET("/paths", GetSavedPaths)
		api.GET("/paths/search", SearchSavedPaths)

		// 修改地图需要登录
		authorized := api.Group("/")
		authorized.Use(AuthMiddleware())
		{
			authorized.POST("/nodes", CreateNode)
			authorized.DELETE("/nodes/:id", DeleteNode)
			authorized.POST("/edges", ConnectNodes)
			authorized.PUT("/edges", SetEdgeType)
			authorized.DELETE("/edges", DisconnectNodes)
			authorized.POST("/buildings", CreateBuilding)
			authorized.DELETE("/buildings/:id", DeleteBuilding)
			authorized.POST("/buildings/:id/aliases", AddBuildingAlias)
			authorized.DELETE("/buildings/:id/aliases/:alias", RemoveBuildingAlias)
			authorized.PUT("/buildings/:id/primary", ChangeBuildingPrimary)
			authorized.POST("/paths", SavePath)
		}
	}
	return r
}
