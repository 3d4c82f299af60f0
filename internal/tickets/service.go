package tickets

import (
	"context"
	"sync"
	"time"

	"queuely/internal/shared/config"
	"queuely/internal/shared/constants"
	"queuely/pkg/cache"
	"queuely/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for queue operations
type Service interface {
	CreateTicket(ctx context.Context, clinicID uuid.UUID, req *CreateTicketRequest) (*Ticket, error)
	ListTickets(ctx context.Context, clinicID uuid.UUID) ([]Ticket, error)
	UpdateTicket(ctx context.Context, clinicID, id uuid.UUID, req *UpdateTicketRequest) (*Ticket, error)
	DeleteTicket(ctx context.Context, clinicID, id uuid.UUID) error

	CurrentTicket(ctx context.Context, clinicID uuid.UUID) (*Ticket, error)
	QueueStatus(ctx context.Context, clinicID uuid.UUID) (*QueueStatusResponse, error)
	WaitTime(ctx context.Context, clinicID uuid.UUID) (int, error)

	Advance(ctx context.Context, clinicID uuid.UUID) (*Ticket, error)
	Skip(ctx context.Context, clinicID, id uuid.UUID) (*Ticket, error)
}

// queueLocks hands out one mutex per clinic. All mutating operations on the
// same clinic serialize on it; different clinics never contend.
type queueLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (q *queueLocks) of(clinicID uuid.UUID) *sync.Mutex {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.locks == nil {
		q.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	lock, ok := q.locks[clinicID]
	if !ok {
		lock = &sync.Mutex{}
		q.locks[clinicID] = lock
	}
	return lock
}

type service struct {
	repo         Repository
	hub          Broadcaster
	cache        cache.Service
	logger       *logger.Logger
	queryTimeout time.Duration
	statusTTL    time.Duration
	waitTimeTTL  time.Duration
	locks        queueLocks
}

// NewService creates the queue controller. hub and cacheService may be nil;
// events are then dropped and every read goes to the store. cfg supplies the
// store timeout and cache TTLs; a nil cfg falls back to the catalog defaults.
func NewService(repo Repository, hub Broadcaster, cacheService cache.Service, cfg *config.Config) Service {
	s := &service{
		repo:        repo,
		hub:         hub,
		cache:       cacheService,
		logger:      logger.GetDefault(),
		statusTTL:   constants.TTLQueueStatus,
		waitTimeTTL: constants.TTLWaitTime,
	}
	if cfg != nil {
		s.queryTimeout = cfg.Database.QueryTimeout
		if cfg.Redis.StatusTTL > 0 {
			s.statusTTL = cfg.Redis.StatusTTL
		}
		if cfg.Redis.WaitTimeTTL > 0 {
			s.waitTimeTTL = cfg.Redis.WaitTimeTTL
		}
	}
	return s
}

func (s *service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *service) CreateTicket(ctx context.Context, clinicID uuid.UUID, req *CreateTicketRequest) (*Ticket, error) {
	lock := s.locks.of(clinicID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	var ticket *Ticket
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		maxSeq, err := tx.MaxSequenceNumber(ctx, clinicID)
		if err != nil {
			return err
		}

		ticket = &Ticket{
			ClinicID:       clinicID,
			SequenceNumber: maxSeq + 1,
			HolderName:     req.HolderName,
			Contact:        req.Contact,
			Priority:       req.Priority,
			Status:         StatusWaiting,
			Notes:          req.Notes,
		}
		return tx.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(clinicID)
	s.publish(ctx, Event{Kind: EventCreated, ClinicID: clinicID, Ticket: ticket, TicketID: ticket.ID})
	s.logger.LogTicketCreated(ctx, clinicID.String(), ticket.ID.String(), ticket.SequenceNumber, ticket.Priority)

	return ticket, nil
}

func (s *service) ListTickets(ctx context.Context, clinicID uuid.UUID) ([]Ticket, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repo.List(ctx, clinicID)
}

// Advance completes the current ticket (if any) and promotes the next
// waiting ticket under the ordering policy. The completion commits even when
// the queue turns out to be empty; only the promotion is then missing, which
// the caller learns about through QueueEmpty.
func (s *service) Advance(ctx context.Context, clinicID uuid.UUID) (*Ticket, error) {
	lock := s.locks.of(clinicID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	var promoted *Ticket
	queueEmpty := false

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.FindCurrent(ctx, clinicID)
		if err != nil {
			return err
		}

		if current != nil {
			now := time.Now().UTC()
			if _, err := tx.UpdateFields(ctx, clinicID, current.ID, map[string]interface{}{
				"status":       StatusCompleted,
				"completed_at": now,
			}); err != nil {
				return err
			}
		}

		waiting, err := tx.ListByStatus(ctx, clinicID, StatusWaiting)
		if err != nil {
			return err
		}

		next := Next(waiting)
		if next == nil {
			// Commit the completion; advancing past the final ticket
			// legitimately empties the queue.
			queueEmpty = true
			return nil
		}

		promoted, err = tx.UpdateFields(ctx, clinicID, next.ID, map[string]interface{}{
			"status": StatusInProgress,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(clinicID)

	if queueEmpty {
		return nil, ErrQueueEmpty
	}

	s.publish(ctx, Event{Kind: EventAdvance, ClinicID: clinicID, Ticket: promoted, TicketID: promoted.ID})
	s.logger.LogQueueAdvanced(ctx, clinicID.String(), promoted.ID.String(), promoted.SequenceNumber)

	return promoted, nil
}

func (s *service) Skip(ctx context.Context, clinicID, id uuid.UUID) (*Ticket, error) {
	lock := s.locks.of(clinicID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	ticket, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if !ticket.Status.CanTransitionTo(StatusSkipped) {
		return nil, ErrTerminalStatus
	}

	skipped, err := s.repo.UpdateFields(ctx, clinicID, id, map[string]interface{}{
		"status": StatusSkipped,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(clinicID)
	s.publish(ctx, Event{Kind: EventSkip, ClinicID: clinicID, Ticket: skipped, TicketID: skipped.ID})
	s.logger.LogTicketSkipped(ctx, clinicID.String(), skipped.ID.String())

	return skipped, nil
}

// UpdateTicket is the administrative escape hatch: provided fields are
// written directly with no transition validation, except that a second
// in-progress ticket is always rejected.
func (s *service) UpdateTicket(ctx context.Context, clinicID, id uuid.UUID, req *UpdateTicketRequest) (*Ticket, error) {
	lock := s.locks.of(clinicID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	fields := map[string]interface{}{}

	if req.Status != nil {
		status := Status(*req.Status)
		if !status.IsValid() {
			return nil, NewError(KindValidation, "invalid ticket status")
		}
		if status == StatusInProgress {
			current, err := s.repo.FindCurrent(ctx, clinicID)
			if err != nil {
				return nil, err
			}
			if current != nil && current.ID != id {
				return nil, ErrSecondInProgress
			}
		}
		fields["status"] = status
		if status == StatusCompleted {
			fields["completed_at"] = time.Now().UTC()
		}
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 {
		return s.repo.GetByID(ctx, clinicID, id)
	}

	updated, err := s.repo.UpdateFields(ctx, clinicID, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(clinicID)
	s.publish(ctx, Event{Kind: EventUpdated, ClinicID: clinicID, Ticket: updated, TicketID: updated.ID})

	return updated, nil
}

func (s *service) DeleteTicket(ctx context.Context, clinicID, id uuid.UUID) error {
	lock := s.locks.of(clinicID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		return err
	}

	s.invalidateCache(clinicID)
	s.publish(ctx, Event{Kind: EventDeleted, ClinicID: clinicID, TicketID: id})

	return nil
}

func (s *service) CurrentTicket(ctx context.Context, clinicID uuid.UUID) (*Ticket, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repo.FindCurrent(ctx, clinicID)
}

func (s *service) QueueStatus(ctx context.Context, clinicID uuid.UUID) (*QueueStatusResponse, error) {
	if s.cache != nil {
		var cached QueueStatusResponse
		if err := s.cache.Get(ctx, statusCacheKey(clinicID), &cached); err == nil {
			return &cached, nil
		}
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	current, err := s.repo.FindCurrent(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	waiting, err := s.repo.ListByStatus(ctx, clinicID, StatusWaiting)
	if err != nil {
		return nil, err
	}

	sorted := SortWaiting(waiting)
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	status := &QueueStatusResponse{
		CurrentTicket:  current,
		WaitingTickets: sorted,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, statusCacheKey(clinicID), status, s.statusTTL)
	}

	return status, nil
}

func (s *service) WaitTime(ctx context.Context, clinicID uuid.UUID) (int, error) {
	if s.cache != nil {
		var cached WaitTimeResponse
		if err := s.cache.Get(ctx, waitTimeCacheKey(clinicID), &cached); err == nil {
			return cached.AverageWaitMinutes, nil
		}
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	completed, err := s.repo.RecentCompletions(ctx, clinicID, EstimatorWindow)
	if err != nil {
		return 0, err
	}

	minutes, err := EstimateWaitMinutes(completed)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, waitTimeCacheKey(clinicID), WaitTimeResponse{AverageWaitMinutes: minutes}, s.waitTimeTTL)
	}

	return minutes, nil
}

// publish hands the event to the fan-out without ever failing the mutation
func (s *service) publish(ctx context.Context, event Event) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ctx, event)
}

func (s *service) invalidateCache(clinicID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.cache.DeletePattern(ctx, constants.BuildQueueInvalidationPattern(clinicID.String()))
}

func statusCacheKey(clinicID uuid.UUID) string {
	return constants.BuildQueueStatusKey(clinicID.String())
}

func waitTimeCacheKey(clinicID uuid.UUID) string {
	return constants.BuildWaitTimeKey(clinicID.String())
}
