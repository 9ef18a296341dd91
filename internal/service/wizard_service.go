package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/cache"
	"gradpath/internal/model"
	"gradpath/internal/present"
	"gradpath/internal/repository"
	"gradpath/internal/submission"
	"gradpath/internal/wizard"
)

// WizardService runs questionnaire sessions and their generation calls
type WizardService struct {
	forms       *wizard.Registry
	sessions    cache.SessionCache
	documents   repository.DocumentRepo
	generator   Generator
	authSvc     *AuthService
	broadcaster Broadcaster
	logger      *zap.Logger

	// lockTTL is the submit lease; a submitting session whose lease is
	// free again was abandoned and may be reclaimed
	lockTTL time.Duration
	// settleBackoff spaces the retries of storing a generation outcome
	settleBackoff time.Duration

	mu    sync.Mutex
	locks map[string]*sessionMutex
	wg    sync.WaitGroup
}

// sessionMutex serializes work on one session; entries live only while
// someone holds or waits for them
type sessionMutex struct {
	mu   sync.Mutex
	refs int
}

const settleAttempts = 3

// NewWizardService creates a new wizard service
func NewWizardService(
	forms *wizard.Registry,
	sessions cache.SessionCache,
	documents repository.DocumentRepo,
	generator Generator,
	authSvc *AuthService,
	logger *zap.Logger,
) *WizardService {
	return &WizardService{
		forms:         forms,
		sessions:      sessions,
		documents:     documents,
		generator:     generator,
		authSvc:       authSvc,
		broadcaster:   nopBroadcaster{},
		logger:        logger.Named("wizard"),
		lockTTL:       2 * time.Minute,
		settleBackoff: 100 * time.Millisecond,
		locks:         make(map[string]*sessionMutex),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *WizardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Form returns a registered form definition
func (s *WizardService) Form(formID string) (*model.FormDefinition, error) {
	return s.forms.Get(formID)
}

// CreateSession starts a session on formID (the SOP form when empty)
func (s *WizardService) CreateSession(ctx context.Context, formID string) (*model.CreateSessionResponse, error) {
	if formID == "" {
		formID = wizard.SOPFormID
	}
	def, err := s.forms.Get(formID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &model.WizardSession{
		ID:         uuid.New().String(),
		FormID:     def.ID,
		Answers:    model.AnswerMap{},
		Submission: model.Submission{Phase: model.PhaseIdle, UpdatedAt: now},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.authSvc.GenerateSessionToken(session.ID, def.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	state := stateOf(def, session)
	s.logger.Info("session created", zap.String("sessionId", session.ID), zap.String("formId", def.ID))
	return &model.CreateSessionResponse{SessionID: session.ID, Token: token, State: &state}, nil
}

// GetState returns the client view of a session
func (s *WizardService) GetState(ctx context.Context, id string) (*model.FormState, error) {
	session, def, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	state := stateOf(def, session)
	return &state, nil
}

// SetAnswer records an answer; stale dependent answers are dropped
func (s *WizardService) SetAnswer(ctx context.Context, id, questionID, value string) (*model.FormState, error) {
	return s.mutate(ctx, id, func(def *model.FormDefinition, session *model.WizardSession, form *wizard.Form) error {
		if !hasQuestion(def, questionID) {
			return ErrUnknownQuestion
		}
		if session.Submission.Phase == model.PhaseSubmitting {
			return submission.ErrAlreadySubmitting
		}
		form.SetAnswer(questionID, value)
		return nil
	})
}

// Next advances one page when the current page is complete
func (s *WizardService) Next(ctx context.Context, id string) (*model.FormState, error) {
	return s.mutate(ctx, id, func(_ *model.FormDefinition, _ *model.WizardSession, form *wizard.Form) error {
		return form.Next()
	})
}

// Prev moves back one page
func (s *WizardService) Prev(ctx context.Context, id string) (*model.FormState, error) {
	return s.mutate(ctx, id, func(_ *model.FormDefinition, _ *model.WizardSession, form *wizard.Form) error {
		form.Prev()
		return nil
	})
}

// Submit finalizes the answers and starts generation in the background.
// A settled previous attempt is reset first, and an abandoned one is
// reclaimed once its lease is free.
func (s *WizardService) Submit(ctx context.Context, id string) (*model.FormState, error) {
	var (
		attemptID string
		leased    string
		finalized wizard.Finalized
		def       *model.FormDefinition
	)
	state, err := s.mutate(ctx, id, func(d *model.FormDefinition, session *model.WizardSession, form *wizard.Form) error {
		sub := session.Submission
		if submission.Settled(sub) {
			var err error
			if sub, err = submission.Reset(sub); err != nil {
				return err
			}
		}

		f, err := form.Finalize()
		if err != nil {
			return err
		}

		attempt := uuid.New().String()
		ok, err := s.sessions.AcquireSubmitLock(ctx, id, attempt, s.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire submit lock: %w", err)
		}
		if !ok {
			return submission.ErrAlreadySubmitting
		}
		leased = attempt

		if sub.Phase == model.PhaseSubmitting {
			if sub, err = s.abandon(id, sub); err != nil {
				return err
			}
		}

		next, err := submission.Begin(sub, attempt)
		if err != nil {
			return err
		}
		session.Submission = next
		attemptID, finalized, def = attempt, f, d
		return nil
	})
	if err != nil {
		if leased != "" {
			if rerr := s.sessions.ReleaseSubmitLock(context.WithoutCancel(ctx), id, leased); rerr != nil {
				s.logger.Warn("failed to release submit lock", zap.String("sessionId", id), zap.Error(rerr))
			}
		}
		return nil, err
	}

	s.broadcaster.BroadcastToSession(id, MsgSubmissionState, state.Submission)
	s.logger.Info("submission started", zap.String("sessionId", id), zap.String("attemptId", attemptID))

	s.wg.Add(1)
	go s.generate(id, attemptID, def, finalized)
	return state, nil
}

// abandon fails a submitting attempt whose lease lapsed without an
// outcome being stored, then returns the submission to idle
func (s *WizardService) abandon(id string, sub model.Submission) (model.Submission, error) {
	s.logger.Warn("reclaiming abandoned submission", zap.String("sessionId", id), zap.String("attemptId", sub.AttemptID))
	lost := &apperr.RemoteCallError{Op: generateOp, Err: errAttemptAbandoned}
	failed, err := submission.Fail(sub, sub.AttemptID, apperr.NoticeFor(lost))
	if err != nil {
		return sub, err
	}
	return submission.Reset(failed)
}

// generate runs one attempt. Its outcome is discarded when the session
// was deleted or a newer attempt replaced it.
func (s *WizardService) generate(id, attemptID string, def *model.FormDefinition, answers wizard.Finalized) {
	defer s.wg.Done()
	log := s.logger.With(zap.String("sessionId", id), zap.String("attemptId", attemptID))

	// Detached from the request; the generator enforces its own timeout
	ctx := context.Background()

	var (
		doc    string
		genErr error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				genErr = fmt.Errorf("generator panicked: %v", r)
			}
		}()
		doc, genErr = s.generator.Generate(ctx, def, answers)
	}()

	unlock := s.lockSession(id)
	defer unlock()
	// The lease is released even when the outcome could not be stored, so
	// the next submit reclaims the session
	defer func() {
		if err := s.sessions.ReleaseSubmitLock(ctx, id, attemptID); err != nil {
			log.Warn("failed to release submit lock", zap.Error(err))
		}
	}()

	var (
		next    model.Submission
		settled bool
		err     error
	)
	for try := 1; try <= settleAttempts; try++ {
		if try > 1 {
			time.Sleep(time.Duration(try-1) * s.settleBackoff)
		}
		next, settled, err = s.settle(ctx, id, attemptID, doc, genErr)
		if err == nil {
			break
		}
		log.Warn("failed to store submission outcome", zap.Int("try", try), zap.Error(err))
	}
	if err != nil {
		log.Error("giving up on submission outcome; the session is reclaimed on its next submit", zap.Error(err))
		return
	}
	if !settled {
		return
	}
	s.broadcaster.BroadcastToSession(id, MsgSubmissionState, next)

	if genErr == nil {
		archived := &model.SOPDocument{
			SessionID: id,
			FormID:    def.ID,
			Answers:   answers.Map(),
			Document:  doc,
		}
		if _, err := s.documents.Save(ctx, archived); err != nil {
			log.Warn("failed to archive document", zap.Error(err))
		}
	}
	log.Info("submission settled", zap.String("phase", string(next.Phase)))
}

// settle stores the outcome of an attempt. It reports false without an
// error when the outcome is discarded because the session is gone or the
// attempt is stale.
func (s *WizardService) settle(ctx context.Context, id, attemptID, doc string, genErr error) (model.Submission, bool, error) {
	log := s.logger.With(zap.String("sessionId", id), zap.String("attemptId", attemptID))

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return model.Submission{}, false, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		log.Info("discarding result for closed session")
		return model.Submission{}, false, nil
	}

	var next model.Submission
	if genErr != nil {
		log.Warn("generation failed", zap.Error(genErr))
		next, err = submission.Fail(session.Submission, attemptID, apperr.NoticeFor(genErr))
	} else {
		next, err = submission.Succeed(session.Submission, attemptID, doc)
	}
	if errors.Is(err, submission.ErrStaleAttempt) || errors.Is(err, submission.ErrIllegalTransition) {
		log.Info("discarding stale attempt", zap.Error(err))
		return model.Submission{}, false, nil
	}
	if err != nil {
		return model.Submission{}, false, err
	}

	session.Submission = next
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return model.Submission{}, false, fmt.Errorf("store session: %w", err)
	}
	return next, true, nil
}

// Reset returns a settled submission to idle
func (s *WizardService) Reset(ctx context.Context, id string) (*model.FormState, error) {
	state, err := s.mutate(ctx, id, func(_ *model.FormDefinition, session *model.WizardSession, _ *wizard.Form) error {
		sub := session.Submission
		if sub.Phase == model.PhaseSubmitting {
			reclaimed, err := s.reclaim(ctx, id, sub)
			if err != nil {
				return err
			}
			sub = reclaimed
		}
		next, err := submission.Reset(sub)
		if err != nil {
			return err
		}
		session.Submission = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToSession(id, MsgSubmissionState, state.Submission)
	return state, nil
}

// reclaim takes the lease of a submitting session to prove its attempt was
// abandoned. A live attempt still holds the lease, so the transition stays
// illegal.
func (s *WizardService) reclaim(ctx context.Context, id string, sub model.Submission) (model.Submission, error) {
	holder := uuid.New().String()
	ok, err := s.sessions.AcquireSubmitLock(ctx, id, holder, s.lockTTL)
	if err != nil {
		return sub, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !ok {
		return sub, submission.ErrIllegalTransition
	}
	defer func() {
		if err := s.sessions.ReleaseSubmitLock(context.WithoutCancel(ctx), id, holder); err != nil {
			s.logger.Warn("failed to release submit lock", zap.String("sessionId", id), zap.Error(err))
		}
	}()
	return s.abandon(id, sub)
}

// Result renders the generated document of a successful submission
func (s *WizardService) Result(ctx context.Context, id string) (*present.Result, error) {
	session, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submission.Phase != model.PhaseSuccess {
		return nil, ErrResultNotReady
	}
	result := present.Render(session.Submission.Document, nil)
	return &result, nil
}

// Documents lists archived documents of a session, newest first
func (s *WizardService) Documents(ctx context.Context, id string) ([]*model.SOPDocument, error) {
	if _, _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.documents.ListBySession(ctx, id)
}

// DeleteSession tears a session down; an in-flight attempt is discarded
// when it completes
func (s *WizardService) DeleteSession(ctx context.Context, id string) error {
	unlock := s.lockSession(id)
	err := s.sessions.Delete(ctx, id)
	unlock()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.broadcaster.BroadcastToSession(id, MsgSessionClosed, map[string]string{"sessionId": id})
	s.broadcaster.DisconnectSession(id)
	s.logger.Info("session deleted", zap.String("sessionId", id))
	return nil
}

// Wait blocks until in-flight generations finish
func (s *WizardService) Wait() {
	s.wg.Wait()
}

func (s *WizardService) load(ctx context.Context, id string) (*model.WizardSession, *model.FormDefinition, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}
	def, err := s.forms.Get(session.FormID)
	if err != nil {
		return nil, nil, err
	}
	return session, def, nil
}

// mutate applies fn to a session under its lock and stores the result
func (s *WizardService) mutate(ctx context.Context, id string, fn func(*model.FormDefinition, *model.WizardSession, *wizard.Form) error) (*model.FormState, error) {
	unlock := s.lockSession(id)
	defer unlock()

	session, def, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	form := wizard.Restore(def, session.Answers, session.Page)
	if err := fn(def, session, form); err != nil {
		return nil, err
	}

	session.Answers = form.Answers()
	session.Page = form.Page()
	session.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	state := stateOf(def, session)
	return &state, nil
}

// lockSession locks one session and returns its unlock. The entry is
// dropped when the last holder unlocks, so expired sessions leave nothing
// behind.
func (s *WizardService) lockSession(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionMutex{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func stateOf(def *model.FormDefinition, session *model.WizardSession) model.FormState {
	state := wizard.Restore(def, session.Answers, session.Page).State()
	state.SessionID = session.ID
	state.Submission = session.Submission
	return state
}

func hasQuestion(def *model.FormDefinition, id string) bool {
	for _, q := range def.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
