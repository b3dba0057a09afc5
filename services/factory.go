// Package services provides service layer implementations
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/uptrace/bun"

	"github.com/moto-nrw/project-phoenix/database/repositories"
	"github.com/moto-nrw/project-phoenix/email"
	"github.com/moto-nrw/project-phoenix/internal/adapter/storage"
	"github.com/moto-nrw/project-phoenix/internal/clock"
	"github.com/moto-nrw/project-phoenix/internal/core/port"
	"github.com/moto-nrw/project-phoenix/logging"
	"github.com/moto-nrw/project-phoenix/services/attendance"
	"github.com/moto-nrw/project-phoenix/services/auth"
	"github.com/moto-nrw/project-phoenix/services/config"
	"github.com/moto-nrw/project-phoenix/services/embedding"
	"github.com/moto-nrw/project-phoenix/services/enrollment"
	"github.com/moto-nrw/project-phoenix/services/iot"
	"github.com/moto-nrw/project-phoenix/services/users"
)

// Factory provides access to all services
type Factory struct {
	Auth                     auth.AuthService
	Invitation               auth.InvitationService
	Users                    users.PersonService
	IoT                      iot.Service
	Config                   config.Service
	Mailer                   email.Mailer
	Dispatcher               *email.Dispatcher
	DefaultFrom              email.Email
	FrontendURL              string
	InvitationTokenExpiry    time.Duration
	PasswordResetTokenExpiry time.Duration
	Attendance               attendance.Service
	Enrollment               *enrollment.Coordinator
}

// initFrameStorage builds the optional object-storage backend for captured
// recognition frames, mirroring the STORAGE_BACKEND switch the avatar
// adapter under internal/adapter/handler/http uses, but scoped to its own
// frame_storage_backend setting and bucket/prefix so frame capture can be
// enabled independently of avatar uploads. Disabled by default: frame
// capture is an audit nicety, not a dependency of the recognition pipeline.
func initFrameStorage() (port.FileStorage, error) {
	backend := strings.ToLower(strings.TrimSpace(viper.GetString("frame_storage_backend")))
	switch backend {
	case "", "disabled", "none", "off":
		return nil, nil
	case "memory":
		publicPrefix := viper.GetString("frame_storage_public_url_prefix")
		if publicPrefix == "" {
			publicPrefix = "/attendance-frames"
		}
		return storage.NewMemoryStorage(port.StorageConfig{PublicURLPrefix: publicPrefix}, logging.Logger)
	case "s3", "minio":
		bucket := viper.GetString("frame_storage_s3_bucket")
		if bucket == "" {
			return nil, fmt.Errorf("frame_storage_s3_bucket is required when frame_storage_backend=%s", backend)
		}
		region := viper.GetString("frame_storage_s3_region")
		if region == "" {
			return nil, fmt.Errorf("frame_storage_s3_region is required when frame_storage_backend=%s", backend)
		}
		publicPrefix := viper.GetString("frame_storage_public_url_prefix")
		if publicPrefix == "" {
			return nil, fmt.Errorf("frame_storage_public_url_prefix is required when frame_storage_backend=%s", backend)
		}
		forcePathStyle := viper.GetBool("frame_storage_s3_force_path_style") || backend == "minio"
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Bucket:          bucket,
			Region:          region,
			Endpoint:        viper.GetString("frame_storage_s3_endpoint"),
			PublicURLPrefix: publicPrefix,
			KeyPrefix:       viper.GetString("frame_storage_s3_prefix"),
			AccessKeyID:     viper.GetString("frame_storage_s3_access_key_id"),
			SecretAccessKey: viper.GetString("frame_storage_s3_secret_access_key"),
			SessionToken:    viper.GetString("frame_storage_s3_session_token"),
			ForcePathStyle:  forcePathStyle,
		}, logging.Logger)
	default:
		return nil, fmt.Errorf("unsupported frame_storage_backend %q", backend)
	}
}

// NewFactory creates a new services factory
func NewFactory(repos *repositories.Factory, db *bun.DB) (*Factory, error) {

	mailer, err := email.NewMailer()
	if err != nil {
		log.Printf("email: failed to initialize SMTP mailer, falling back to mock mailer: %v", err)
		mailer = email.NewMockMailer()
	}
	if _, ok := mailer.(*email.MockMailer); ok {
		log.Println("email: SMTP mailer not configured; using mock mailer (tokens will not be sent via SMTP)")
	}

	dispatcher := email.NewDispatcher(mailer)

	defaultFrom := email.NewEmail(viper.GetString("email_from_name"), viper.GetString("email_from_address"))
	if defaultFrom.Address == "" {
		defaultFrom = email.NewEmail("moto", "no-reply@moto.local")
	}

	rawFrontendURL := viper.GetString("frontend_url")
	frontendURL := strings.TrimRight(rawFrontendURL, "/")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	appEnv := strings.ToLower(viper.GetString("app_env"))
	if appEnv == "production" && !strings.HasPrefix(frontendURL, "https://") {
		log.Fatalf("FRONTEND_URL must use https:// in production (received %q)", rawFrontendURL)
	}

	invitationExpiryHours := viper.GetInt("invitation_token_expiry_hours")
	if invitationExpiryHours <= 0 {
		invitationExpiryHours = 48
	} else if invitationExpiryHours > 168 {
		invitationExpiryHours = 168
	}
	invitationTokenExpiry := time.Duration(invitationExpiryHours) * time.Hour

	passwordResetExpiryMinutes := viper.GetInt("password_reset_token_expiry_minutes")
	if passwordResetExpiryMinutes <= 0 {
		passwordResetExpiryMinutes = 30
	} else if passwordResetExpiryMinutes > 1440 {
		passwordResetExpiryMinutes = 1440
	}
	passwordResetTokenExpiry := time.Duration(passwordResetExpiryMinutes) * time.Minute

	// Initialize users service (backs student/staff account lookups)
	usersService := users.NewPersonService(users.PersonServiceDependencies{
		PersonRepo:         repos.Person,
		RFIDRepo:           repos.RFIDCard,
		AccountRepo:        repos.Account,
		PersonGuardianRepo: repos.PersonGuardian,
		StudentRepo:        repos.Student,
		StaffRepo:          repos.Staff,
		TeacherRepo:        repos.Teacher,
		DB:                 db,
	})

	// Initialize IoT service (device registration backing recognition cameras)
	iotService := iot.NewService(
		repos.Device,
		db,
	)

	// Initialize config service (backs the attendance settings snapshot)
	configService := config.NewService(
		repos.Setting,
		db,
	)

	// Initialize auth service with validated config
	authConfig, err := auth.NewServiceConfig(
		dispatcher,
		defaultFrom,
		frontendURL,
		passwordResetTokenExpiry,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid auth service config: %w", err)
	}
	authService, err := auth.NewService(repos, authConfig, db)
	if err != nil {
		return nil, err
	}

	invitationService := auth.NewInvitationService(auth.InvitationServiceConfig{
		InvitationRepo:   repos.InvitationToken,
		AccountRepo:      repos.Account,
		RoleRepo:         repos.Role,
		AccountRoleRepo:  repos.AccountRole,
		PersonRepo:       repos.Person,
		StaffRepo:        repos.Staff,
		TeacherRepo:      repos.Teacher,
		Mailer:           mailer,
		Dispatcher:       dispatcher,
		FrontendURL:      frontendURL,
		DefaultFrom:      defaultFrom,
		InvitationExpiry: invitationTokenExpiry,
		DB:               db,
	})

	// Initialize the attendance engine: a real clock, the engine's store
	// over its own and the education/recognition repositories, the
	// embedding-service HTTP client (doubles as the enrollment quality
	// assessor), and the settings snapshot layered over configService.
	realClock := clock.NewReal()
	attendanceStore := attendance.NewStore(
		db,
		repos.Session,
		repos.SessionAttendance,
		repos.ReentryEvent,
		repos.FinalizationJob,
		repos.Embedding,
		repos.Enrollment,
		repos.TimetableSlot,
	)
	attendanceSettings := attendance.NewSettings(configService)
	embeddingClient := embedding.NewClient()
	frameStorage, err := initFrameStorage()
	if err != nil {
		return nil, fmt.Errorf("attendance frame storage: %w", err)
	}
	absenceNotifier := attendance.NewAbsenceNotifier(dispatcher, defaultFrom)
	attendanceService := attendance.NewService(attendanceStore, embeddingClient, realClock, attendanceSettings, attendance.NewFrameStore(frameStorage), absenceNotifier)

	enrollmentService := enrollment.NewService(embeddingClient, embeddingClient, enrollment.DefaultConfig())
	enrollmentCoordinator := enrollment.NewCoordinator(enrollmentService, repos.Embedding)

	return &Factory{
		Auth:                     authService,
		Users:                    usersService,
		IoT:                      iotService,
		Config:                   configService,
		Invitation:               invitationService,
		Mailer:                   mailer,
		Dispatcher:               dispatcher,
		DefaultFrom:              defaultFrom,
		FrontendURL:              frontendURL,
		InvitationTokenExpiry:    invitationTokenExpiry,
		PasswordResetTokenExpiry: passwordResetTokenExpiry,
		Attendance:               attendanceService,
		Enrollment:               enrollmentCoordinator,
	}, nil
}
