package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/middleware"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/internal/repository"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Sessions *service.SessionService
	Accounts *repository.AccountRepository
	Staff    *repository.StaffRepository
	Students *repository.StudentRepository

	StaffAuth    *AuthHandler
	StudentAuth  *AuthHandler
	Gateway      *GatewayHandler
	Catalog      *CatalogHandler
	Registration *RegistrationHandler
	Records      *RecordHandler
	Projects     *ProjectHandler
	Profiles     *ProfileHandler
	StaffAdmin   *StaffHandler
	Schedules    *ScheduleHandler
	Health       *HealthHandler

	Metrics        *service.MetricsService
	MetricsEnabled bool
}

// RegisterRoutes mounts every endpoint under the API prefix, plus the
// operational endpoints at the root.
func RegisterRoutes(r *gin.Engine, prefix string, deps Deps) {
	r.GET("/health", deps.Health.Health)
	r.GET("/ready", deps.Health.Ready)
	if deps.MetricsEnabled && deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group(prefix)

	staffSession := middleware.Session(deps.Sessions, deps.Accounts, deps.Staff, deps.Students, models.AccountKindStaff)
	studentSession := middleware.Session(deps.Sessions, deps.Accounts, deps.Staff, deps.Students, models.AccountKindStudent)

	staff := api.Group("/staff")
	{
		auth := staff.Group("/auth")
		auth.POST("/activation/request", deps.StaffAuth.RequestActivation)
		auth.POST("/activate", deps.StaffAuth.Activate)
		auth.POST("/login", deps.StaffAuth.Login)
		auth.POST("/password/forgot", deps.StaffAuth.ForgotPassword)
		auth.POST("/password/reset", deps.StaffAuth.ResetPassword)
		auth.POST("/logout", staffSession, deps.StaffAuth.Logout)

		guarded := staff.Group("", staffSession)
		guarded.GET("/me", deps.Profiles.Me)
		guarded.PATCH("/me", deps.Profiles.Update)

		guarded.POST("/objects", deps.Gateway.Create)
		guarded.POST("/objects/bulk", deps.Gateway.CreateMany)
		guarded.GET("/objects/:type/:id", deps.Gateway.Get)
		guarded.PATCH("/objects/:type/:id", deps.Gateway.Update)
		guarded.DELETE("/objects/:type/:id", deps.Gateway.Delete)

		guarded.GET("/courses/available/:owner/:id", deps.Catalog.Get)
		guarded.PUT("/courses/available", deps.Catalog.Set)
		guarded.DELETE("/courses/available", deps.Catalog.Unset)
		guarded.POST("/courses/assign", deps.StaffAdmin.AssignCourses)

		guarded.GET("/records", deps.Records.List)
		guarded.POST("/records/:id/approve", deps.Records.Approve)

		guarded.GET("/projects", deps.Projects.ListMine)
		guarded.POST("/projects/:id/grade", deps.Projects.Grade)

		guarded.GET("/schedules", deps.Schedules.List)
		guarded.POST("/schedules", deps.Schedules.Create)
		guarded.PATCH("/schedules/:id", deps.Schedules.Update)
		guarded.DELETE("/schedules/:id", deps.Schedules.Delete)
	}

	students := api.Group("/students")
	{
		auth := students.Group("/auth")
		auth.POST("/activation/request", deps.StudentAuth.RequestActivation)
		auth.POST("/activate", deps.StudentAuth.Activate)
		auth.POST("/login", deps.StudentAuth.Login)
		auth.POST("/password/forgot", deps.StudentAuth.ForgotPassword)
		auth.POST("/password/reset", deps.StudentAuth.ResetPassword)
		auth.POST("/logout", studentSession, deps.StudentAuth.Logout)

		guarded := students.Group("", studentSession)
		guarded.GET("/me", deps.Profiles.Me)
		guarded.PATCH("/me", deps.Profiles.Update)

		guarded.GET("/courses/available", deps.Registration.Available)
		guarded.GET("/courses/registered", deps.Registration.Registered)
		guarded.POST("/courses/register", deps.Registration.Register)
		guarded.DELETE("/courses/register", deps.Registration.Unregister)

		guarded.GET("/projects", deps.Projects.ListForStudent)
		guarded.POST("/projects/:id/submit", deps.Projects.Submit)

		guarded.GET("/schedules", deps.Schedules.List)
		guarded.POST("/schedules", deps.Schedules.Create)
		guarded.PATCH("/schedules/:id", deps.Schedules.Update)
		guarded.DELETE("/schedules/:id", deps.Schedules.Delete)
	}
}
