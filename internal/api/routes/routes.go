// server/internal/api/routes/routes.go
package routes

import (
	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/api/handlers"
	"gate-pass-api-server/internal/api/middleware"
	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/models"
	"gate-pass-api-server/internal/notify"
	"gate-pass-api-server/internal/s3"
	"gate-pass-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires the handlers to their routes.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	notifier notify.Notifier,
	dir *directory.Cache,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	secret := []byte(cfg.JWT.Secret)

	gatePassHandler := &handlers.GatePassHandler{DB: db, Hub: wsHub, Notifier: notifier, Directory: dir, Uploader: s3Uploader}
	approvalHandler := &handlers.ApprovalHandler{DB: db, Hub: wsHub, Notifier: notifier, Directory: dir}
	// Bursts of return calls collapse into one re-fetch hint for the verify
	// room instead of one event per call.
	bulkRefresh := socket.NewBulkRefresh(wsHub, socket.DefaultDebounceInterval, socket.Filter{},
		socket.RoleRoom(models.RoleVerify))
	returnHandler := &handlers.ReturnHandler{DB: db, Hub: wsHub, Notifier: notifier, Directory: dir, Refresh: bulkRefresh}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	employeeHandler := &handlers.EmployeeHandler{Directory: dir}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Cfg: cfg}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Administration, superadmin only.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate(secret))
		admin.Use(middleware.Authorize(models.RoleSuperAdmin))
		{
			admin.POST("/users", userHandler.CreateUser)

			categories := admin.Group("/categories")
			{
				categories.POST("/", categoryHandler.CreateCategory)
				categories.DELETE("/:name", categoryHandler.DeleteCategory)
			}
		}

		// Main business routes, any authenticated role.
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate(secret))
		businessRoutes.Use(middleware.Authorize(
			models.RoleUser, models.RoleExecutive, models.RoleVerify,
			models.RoleDispatch, models.RoleReceiver, models.RoleSuperAdmin))
		{
			businessRoutes.GET("/employees/:serviceNo", employeeHandler.GetEmployee)
			businessRoutes.GET("/categories", categoryHandler.GetAllCategories)

			gatePasses := businessRoutes.Group("/gate-passes")
			{
				gatePasses.POST("/", gatePassHandler.CreateGatePass)
				gatePasses.GET("/my", gatePassHandler.GetMyGatePasses)
				gatePasses.GET("/:ref", gatePassHandler.GetGatePassByRef)

				// Buckets are scoped to the caller's approval stage.
				bucketRoutes := gatePasses.Group("/status")
				bucketRoutes.Use(middleware.Authorize(
					models.RoleExecutive, models.RoleVerify, models.RoleDispatch, models.RoleReceiver))
				{
					bucketRoutes.GET("/:bucket", gatePassHandler.GetStatusBucket)
				}

				approvalRoutes := gatePasses.Group("/:ref")
				approvalRoutes.Use(middleware.Authorize(
					models.RoleExecutive, models.RoleVerify, models.RoleDispatch, models.RoleReceiver))
				{
					approvalRoutes.POST("/approve", approvalHandler.Approve)
					approvalRoutes.POST("/reject", approvalHandler.Reject)
				}

				officerRoutes := gatePasses.Group("/:ref")
				officerRoutes.Use(middleware.Authorize(models.RoleUser, models.RoleExecutive, models.RoleSuperAdmin))
				{
					officerRoutes.PUT("/officer", gatePassHandler.ReassignOfficer)
				}

				// Return tracking, only the roles that hold obligations.
				returnRoutes := gatePasses.Group("/:ref/items")
				returnRoutes.Use(middleware.Authorize(models.RoleExecutive, models.RoleDispatch))
				{
					returnRoutes.GET("/awaiting-return", returnHandler.GetAwaitingReturn)
					returnRoutes.POST("/return-obligation", returnHandler.AssignReturnObligation)
					returnRoutes.POST("/return", returnHandler.MarkReturned)
				}
			}
		}
	}

	return router
}
