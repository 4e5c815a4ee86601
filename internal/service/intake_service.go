package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/admin"
	"github.com/quickstop/cafebot/internal/dialogue"
	"github.com/quickstop/cafebot/internal/extract"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/storage"
)

// IntakeService handles one inbound webhook event end to end: extract the
// message, load the store, route to the admin interpreter or the dialogue
// engine, save the store. It never fails upward; the provider must always
// see success, or it redelivers the same message in a loop.
type IntakeService struct {
	repo        storage.Repository
	engine      *dialogue.Engine
	interpreter *admin.Interpreter
	sender      notify.Sender
	staff       map[string]bool
	logger      *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Repo        storage.Repository
	Engine      *dialogue.Engine
	Interpreter *admin.Interpreter
	Sender      notify.Sender
	Staff       []string
	Logger      *zap.Logger
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	staff := make(map[string]bool, len(deps.Staff))
	for _, number := range deps.Staff {
		staff[notify.NormalizeNumber(number)] = true
	}
	return &IntakeService{
		repo:        deps.Repo,
		engine:      deps.Engine,
		interpreter: deps.Interpreter,
		sender:      deps.Sender,
		staff:       staff,
		logger:      deps.Logger,
	}
}

// HandleInbound processes one raw webhook body.
func (s *IntakeService) HandleInbound(ctx context.Context, body []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("inbound handling panicked", zap.Any("panic", r))
		}
	}()

	inbound, ok := extract.Extract(body)
	if !ok {
		s.logger.Debug("nothing extracted from inbound payload")
		return
	}

	s.logger.Info("inbound message",
		zap.String("sender_id", inbound.SenderID),
		zap.Int("length", len(inbound.Text)),
		zap.Bool("staff", s.staff[inbound.SenderID]))

	if s.staff[inbound.SenderID] {
		s.handleStaff(ctx, inbound)
		return
	}

	store, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("store load failed", zap.Error(err))
		return
	}

	s.engine.Handle(ctx, store, inbound.SenderID, inbound.Text)

	if err := s.repo.Save(ctx, store); err != nil {
		s.logger.Error("store save failed", zap.Error(err))
	}
}

// handleStaff routes staff input. Staff are not customers: text that is
// not command-shaped gets a usage reminder and never reaches the dialogue
// engine.
func (s *IntakeService) handleStaff(ctx context.Context, inbound extract.Inbound) {
	cmd, ok := admin.Parse(inbound.Text)
	if !ok {
		if err := s.sender.Send(ctx, inbound.SenderID, admin.Usage); err != nil {
			s.logger.Warn("usage hint failed", zap.Error(err))
		}
		return
	}

	store, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("store load failed", zap.Error(err))
		return
	}

	s.interpreter.Apply(ctx, store, inbound.SenderID, cmd)

	if err := s.repo.Save(ctx, store); err != nil {
		s.logger.Error("store save failed", zap.Error(err))
	}
}
