package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/pkg/serverutils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/crypto/bcrypt"
)

const (
	SyncTopic     = "portfolio.sync"
	adminTokenTTL = 12 * time.Hour
)

// Sync targets accepted by TriggerSync.
const (
	SyncTargetPortfolio = "portfolio"
	SyncTargetProjects  = "projects"
	SyncTargetBlogs     = "blogs"
	SyncTargetAll       = "all"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotConfigured = errors.New("admin login is not configured")
	ErrUnknownSyncTarget  = errors.New("unknown sync target")
)

// IOwnerService covers the portfolio owner's admin actions.
type IOwnerService interface {
	Login(ctx context.Context, password string) (*dto.AdminLoginResponse, error)
	TriggerSync(ctx context.Context, target string) (*dto.SyncAcceptedResponse, error)
}

type ownerService struct {
	passwordHash string
	jwtSecret    string
	publisher    message.Publisher
	logger       logger.ILogger
}

func NewOwnerService(passwordHash, jwtSecret string, publisher message.Publisher, log logger.ILogger) IOwnerService {
	return &ownerService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		publisher:    publisher,
		logger:       log,
	}
}

func (s *ownerService) Login(_ context.Context, password string) (*dto.AdminLoginResponse, error) {
	if s.passwordHash == "" || s.jwtSecret == "" {
		return nil, ErrAdminNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Warn(logger.ModuleHTTP, "Failed admin login", nil)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := serverutils.IssueAdminToken(s.jwtSecret, adminTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AdminLoginResponse{Token: token, ExpiresAt: expires}, nil
}

// TriggerSync queues a sync run and returns immediately.
func (s *ownerService) TriggerSync(_ context.Context, target string) (*dto.SyncAcceptedResponse, error) {
	switch target {
	case SyncTargetPortfolio, SyncTargetProjects, SyncTargetBlogs, SyncTargetAll:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSyncTarget, target)
	}

	jobID := watermill.NewUUID()
	payload, err := json.Marshal(dto.SyncMessage{JobId: jobID, Target: target, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(SyncTopic, message.NewMessage(jobID, payload)); err != nil {
		return nil, fmt.Errorf("queue sync: %w", err)
	}

	s.logger.Info(logger.ModuleSync, "Sync queued", map[string]interface{}{"target": target, "job_id": jobID})
	return &dto.SyncAcceptedResponse{Target: target, JobId: jobID}, nil
}
