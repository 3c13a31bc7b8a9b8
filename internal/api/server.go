package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/dabali-bf/canteen-api/docs"
	v1 "github.com/dabali-bf/canteen-api/internal/api/handler/v1"
	"github.com/dabali-bf/canteen-api/internal/api/middleware"
	"github.com/dabali-bf/canteen-api/internal/config"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/pkg/credgen"
	"github.com/dabali-bf/canteen-api/internal/repository"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	schoolRepo := repository.NewSchoolRepository(dao.NewSchoolDAO(db))
	studentRepo := repository.NewStudentRepository(dao.NewStudentDAO(db))
	menuRepo := repository.NewMenuRepository(dao.NewMenuDAO(db))
	subscriptionRepo := repository.NewSubscriptionRepository(dao.NewSubscriptionDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	creds := credgen.NewRandomGenerator()
	accessSvc := service.NewAccessService(schoolRepo, studentRepo)

	authHandler := v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo, schoolRepo, creds))
	userHandler := v1.NewUserHandler(service.NewUserService(userRepo, schoolRepo))
	schoolHandler := v1.NewSchoolHandler(service.NewSchoolService(schoolRepo), accessSvc)
	studentHandler := v1.NewStudentHandler(service.NewStudentService(studentRepo), accessSvc)
	menuHandler := v1.NewMenuHandler(service.NewMenuService(menuRepo, schoolRepo, notificationRepo, accessSvc), accessSvc)
	subscriptionHandler := v1.NewSubscriptionHandler(service.NewSubscriptionService(subscriptionRepo, studentRepo, paymentRepo), accessSvc)
	paymentHandler := v1.NewPaymentHandler(service.NewPaymentService(paymentRepo, subscriptionRepo, studentRepo, creds), accessSvc)
	attendanceHandler := v1.NewAttendanceHandler(service.NewAttendanceService(attendanceRepo, studentRepo, menuRepo, subscriptionRepo, paymentRepo, notificationRepo), accessSvc)
	notificationHandler := v1.NewNotificationHandler(service.NewNotificationService(notificationRepo))
	reportHandler := v1.NewReportHandler(service.NewReportService(studentRepo, subscriptionRepo, paymentRepo, attendanceRepo), accessSvc)

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, userRepo)

	s.MountHandlers(authenticator, &handlers{
		auth:         authHandler,
		user:         userHandler,
		school:       schoolHandler,
		student:      studentHandler,
		menu:         menuHandler,
		subscription: subscriptionHandler,
		payment:      paymentHandler,
		attendance:   attendanceHandler,
		notification: notificationHandler,
		report:       reportHandler,
	})

	return s
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	school       *v1.SchoolHandler
	student      *v1.StudentHandler
	menu         *v1.MenuHandler
	subscription *v1.SubscriptionHandler
	payment      *v1.PaymentHandler
	attendance   *v1.AttendanceHandler
	notification *v1.NotificationHandler
	report       *v1.ReportHandler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authenticator *middleware.Authenticator, h *handlers) {
	const basePath = "/api/v1"

	verifyJWT := authenticator.VerifyJWT()
	adminRoles := middleware.RequireRoles(domain.RoleSuperAdmin, domain.RoleSchoolAdmin)
	writerRoles := middleware.RequireRoles(domain.RoleSuperAdmin, domain.RoleSchoolAdmin, domain.RoleCanteenManager)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", h.auth.HandleLogin)
		public.POST("/auth/register", h.auth.HandleRegister)
	}

	auth := s.Router.Group(basePath, verifyJWT)
	{
		auth.POST("/auth/register-school-admin", middleware.RequireRoles(domain.RoleSuperAdmin), h.auth.HandleRegisterSchoolAdmin)
		auth.POST("/auth/register-canteen-manager", middleware.RequireRoles(domain.RoleSchoolAdmin), h.auth.HandleRegisterCanteenManager)
		auth.POST("/auth/change-temporary-password", h.auth.HandleChangeTemporaryPassword)
		auth.PUT("/auth/update-credentials", h.auth.HandleUpdateCredentials)
	}

	schools := s.Router.Group(basePath, verifyJWT)
	{
		schools.POST("/schools", middleware.RequireRoles(domain.RoleSuperAdmin), h.school.HandleCreateSchool)
		schools.GET("/schools", h.school.HandleListSchools)
		schools.GET("/schools/:schoolID", h.school.HandleGetSchool)
		schools.PUT("/schools/:schoolID", adminRoles, h.school.HandleUpdateSchool)
		schools.DELETE("/schools/:schoolID", middleware.RequireRoles(domain.RoleSuperAdmin), h.school.HandleDeleteSchool)
	}

	students := s.Router.Group(basePath, verifyJWT)
	{
		students.POST("/students", adminRoles, h.student.HandleCreateStudent)
		students.GET("/students", h.student.HandleListStudents)
		students.GET("/students/:studentID", h.student.HandleGetStudent)
		students.PUT("/students/:studentID", adminRoles, h.student.HandleUpdateStudent)
		students.DELETE("/students/:studentID", adminRoles, h.student.HandleDeleteStudent)
		students.POST("/students/claim", middleware.RequireRoles(domain.RoleParent), h.student.HandleClaimStudent)
		students.POST("/students/import", adminRoles, h.student.HandleImportStudents)
	}

	menus := s.Router.Group(basePath, verifyJWT)
	{
		menus.POST("/menus", writerRoles, h.menu.HandleCreateMenu)
		menus.POST("/menus/annual", middleware.RequireRoles(domain.RoleCanteenManager), h.menu.HandleCreateAnnualMenu)
		menus.GET("/menus", h.menu.HandleListMenus)
		menus.GET("/menus/:menuID", h.menu.HandleGetMenu)
		menus.PUT("/menus/:menuID", writerRoles, h.menu.HandleUpdateMenu)
		menus.DELETE("/menus/:menuID", writerRoles, h.menu.HandleDeleteMenu)
		menus.PUT("/menus/:menuID/approve", adminRoles, h.menu.HandleApproveMenu)
	}

	subscriptions := s.Router.Group(basePath, verifyJWT)
	{
		subscriptions.POST("/subscriptions", middleware.RequireRoles(domain.RoleParent), h.subscription.HandleCreateSubscription)
		subscriptions.GET("/subscriptions", h.subscription.HandleListSubscriptions)
		subscriptions.GET("/subscriptions/:subscriptionID", h.subscription.HandleGetSubscription)
		subscriptions.PUT("/subscriptions/:subscriptionID/status", adminRoles, h.subscription.HandleOverrideSubscriptionStatus)
		subscriptions.DELETE("/subscriptions/:subscriptionID", adminRoles, h.subscription.HandleDeleteSubscription)
	}

	payments := s.Router.Group(basePath, verifyJWT)
	{
		payments.POST("/payments", middleware.RequireRoles(domain.RoleParent), h.payment.HandleCreatePayment)
		payments.GET("/payments", h.payment.HandleListPayments)
		payments.GET("/payments/:paymentID", h.payment.HandleGetPayment)
		payments.POST("/payments/:paymentID/verify", h.payment.HandleVerifyPayment)
		payments.POST("/payments/:paymentID/validate", adminRoles, h.payment.HandleValidatePayment)
	}

	attendance := s.Router.Group(basePath, verifyJWT)
	{
		attendance.POST("/attendance", middleware.RequireRoles(domain.RoleCanteenManager), h.attendance.HandleMarkAttendance)
		attendance.GET("/attendance", h.attendance.HandleListAttendance)
	}

	notifications := s.Router.Group(basePath, verifyJWT)
	{
		notifications.GET("/notifications", h.notification.HandleListNotifications)
		notifications.PUT("/notifications/:notificationID/read", h.notification.HandleMarkNotificationRead)
		notifications.POST("/notifications/read-all", h.notification.HandleMarkAllNotificationsRead)
	}

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/users/canteen-managers", middleware.RequireRoles(domain.RoleSchoolAdmin), h.user.HandleListCanteenManagers)
		users.DELETE("/users/canteen-managers/:managerID", middleware.RequireRoles(domain.RoleSchoolAdmin), h.user.HandleDeleteCanteenManager)
	}

	reports := s.Router.Group(basePath, verifyJWT)
	{
		reports.GET("/reports/dashboard", adminRoles, h.report.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Dabali canteen API"
	docs.SwaggerInfo.Description = "REST backend for school canteen subscriptions, menus and attendance."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
