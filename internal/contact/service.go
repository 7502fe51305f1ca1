package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/metrics"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// NewReferenceID returns a shareable code MSG_<YYYYMMDD>_<6 hex chars>.
func NewReferenceID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "MSG_" + now.Format("20060102") + "_" + suffix
}

// Service wraps repository operations with contact-form rules.
type Service struct {
	repo  Repository
	now   func() time.Time
	refID func(time.Time) string
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now, refID: NewReferenceID}
}

// CreateMessage stores a validated submission with status "new" and a fresh
// reference code. A reference collision is retried once with a new code.
func (s *Service) CreateMessage(ctx context.Context, in models.ContactMessageCreate) (*models.ContactMessage, error) {
	inquiry := in.InquiryType
	if inquiry == "" {
		inquiry = models.InquiryGeneral
	}
	now := s.now().UTC()
	msg := &models.ContactMessage{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Company:     in.Company,
		Message:     in.Message,
		InquiryType: inquiry,
		Timestamp:   now,
		Status:      models.StatusNew,
		ReferenceID: s.refID(now),
	}

	err := s.repo.Insert(ctx, msg)
	if errors.Is(err, ErrDuplicateReference) {
		logger.Warnf("contact: reference %s already taken, retrying", msg.ReferenceID)
		msg.ReferenceID = s.refID(now)
		err = s.repo.Insert(ctx, msg)
	}
	if err != nil {
		logger.Errorf("error creating contact message: %v", err)
		return nil, apperr.Storage("create contact message", err)
	}
	metrics.ContactMessagesCreated.Inc()
	return msg, nil
}

// ListMessages returns messages newest first. The slice is never nil, also
// when an error is returned.
func (s *Service) ListMessages(ctx context.Context, limit, skip int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if skip < 0 {
		skip = 0
	}
	msgs, err := s.repo.List(ctx, int64(limit), int64(skip))
	if err != nil {
		logger.Errorf("error fetching contact messages: %v", err)
		return []models.ContactMessage{}, apperr.Storage("list contact messages", err)
	}
	if msgs == nil {
		msgs = []models.ContactMessage{}
	}
	return msgs, nil
}

// MarkRead sets the status of message id to "read" and reports whether a
// document was modified. Unknown ids return false.
func (s *Service) MarkRead(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.SetStatus(ctx, id, models.StatusRead)
	if err != nil {
		logger.Errorf("error updating message status: %v", err)
		return false, apperr.Storage("mark message read", err)
	}
	return ok, nil
}
