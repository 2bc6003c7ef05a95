package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

// dismissalPauseMonths is how long a dismissed notice stays hidden per user.
const dismissalPauseMonths = 2

// noticeService is the concrete implementation of NoticeService
type noticeService struct {
	repos   *repository.Repositories
	catalog fieldCatalog
	log     zerolog.Logger
	now     func() time.Time
}

// newNoticeService creates a new NoticeService
func newNoticeService(repos *repository.Repositories, cat fieldCatalog, log zerolog.Logger) *noticeService {
	return &noticeService{
		repos:   repos,
		catalog: cat,
		log:     log.With().Str("service", "notice").Logger(),
		now:     time.Now,
	}
}

// Pending returns the notices the requesting user should currently see.
func (s *noticeService) Pending(ctx context.Context, actor models.Actor) ([]models.Notice, error) {
	notices := []models.Notice{}

	// Touch the catalog so source health reflects a current attempt, not
	// a stale snapshot.
	s.catalog.Fields(ctx)
	if !s.catalog.SourceAvailable() {
		notices = append(notices, models.Notice{
			ID:          models.NoticeMissingFieldSource,
			Kind:        models.NoticeError,
			Message:     "The custom fields source is unavailable. Custom columns are hidden until it recovers.",
			Dismissible: false,
		})
	}

	show, err := s.feedbackDue(ctx, actor)
	if err != nil {
		return nil, err
	}
	if show {
		notices = append(notices, models.Notice{
			ID:          models.NoticeFeedback,
			Kind:        models.NoticeInfo,
			Message:     "Enjoying the member admin? Tell us what is missing.",
			Dismissible: true,
		})
	}
	return notices, nil
}

// Dismiss records that the user dismissed a notice, pausing it for two
// months. Only dismissible notices can be dismissed.
func (s *noticeService) Dismiss(ctx context.Context, actor models.Actor, noticeID string) error {
	if noticeID != models.NoticeFeedback {
		return ErrUnknownNotice
	}
	key := models.NoticeDismissalPrefix + noticeID
	stamp := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.repos.Meta.Set(ctx, actor.UserID, key, stamp); err != nil {
		return fmt.Errorf("failed to record dismissal: %w", err)
	}
	s.log.Info().Int64("user_id", actor.UserID).Str("notice", noticeID).Msg("Notice dismissed")
	return nil
}

// feedbackDue reports whether the feedback notice should show for this user:
// never dismissed, an unreadable dismissal stamp, or a dismissal older than
// the pause window.
func (s *noticeService) feedbackDue(ctx context.Context, actor models.Actor) (bool, error) {
	raw, err := s.repos.Meta.Get(ctx, actor.UserID, models.NoticeDismissalPrefix+models.NoticeFeedback)
	if err != nil {
		return false, fmt.Errorf("failed to read dismissal: %w", err)
	}
	if raw == "" {
		return true, nil
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true, nil
	}
	dismissedAt := time.Unix(unix, 0)
	return !dismissedAt.AddDate(0, dismissalPauseMonths, 0).After(s.now()), nil
}
