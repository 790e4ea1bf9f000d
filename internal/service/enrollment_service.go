package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"os"
	"time"

	"booton-be/internal/dto"
	"booton-be/internal/entity"
	"booton-be/internal/pkg/logger"
	"booton-be/internal/pkg/mailer"
	"booton-be/internal/repository/specification"
	"booton-be/internal/repository/unitofwork"
	"booton-be/pkg/events"
	pktNats "booton-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidSignature   = errors.New("invalid signature")
)

type IEnrollmentService interface {
	Enroll(ctx context.Context, playerID uuid.UUID, req *dto.EnrollRequest) (*dto.EnrollResponse, error)
	ListEnrollments(ctx context.Context, playerID uuid.UUID) ([]*dto.EnrollmentResponse, error)
	HandlePaymentNotification(ctx context.Context, req *dto.PaymentNotificationRequest) error
}

type enrollmentService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewEnrollmentService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IEnrollmentService {
	return &enrollmentService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, playerID uuid.UUID, req *dto.EnrollRequest) (*dto.EnrollResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	coach, err := uow.CoachRepository().FindOne(ctx, specification.ByID{ID: req.CoachId})
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, ErrCoachNotFound
	}

	coachUser, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: coach.UserId})
	if err != nil {
		return nil, err
	}

	enrollmentId := uuid.New()
	enrollment := &entity.Enrollment{
		Id:            enrollmentId,
		PlayerId:      playerID,
		CoachId:       coach.Id,
		Amount:        coach.PricePerHour,
		PaymentStatus: entity.PaymentStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.EnrollmentRepository().Create(ctx, enrollment); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External calls stay outside the DB transaction.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/enrollments?payment=success", frontendURL)

	coachName := "Coach"
	if coachUser != nil {
		coachName = coachUser.FullName
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  enrollmentId.String(),
			GrossAmt: enrollment.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    coach.Id.String(),
				Price: enrollment.Amount,
				Qty:   1,
				Name:  fmt.Sprintf("Coaching session with %s", coachName),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	enrollment.SnapToken = snapResp.Token
	enrollment.RedirectURL = snapResp.RedirectURL
	if err := uow.EnrollmentRepository().Update(ctx, enrollment); err != nil {
		s.logger.Warn("EnrollmentService", "Failed to persist snap token", map[string]interface{}{
			"enrollment_id": enrollmentId,
			"error":         err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.NewEnrollmentCreated(enrollmentId.String(), playerID.String(), coach.Id.String(), enrollment.Amount)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("EnrollmentService", "Failed to publish ENROLLMENT_CREATED event", map[string]interface{}{
				"enrollment_id": enrollmentId,
				"error":         err.Error(),
			})
		}
	}

	if s.emailService != nil {
		playerName := req.FirstName
		if req.LastName != "" {
			playerName = req.FirstName + " " + req.LastName
		}
		if err := s.emailService.SendEnrollmentReceipt(req.Email, playerName, coachName, enrollment.Amount); err != nil {
			s.logger.Warn("EnrollmentService", "Failed to send receipt email", map[string]interface{}{
				"enrollment_id": enrollmentId,
				"error":         err.Error(),
			})
		}
	}

	return &dto.EnrollResponse{
		Id:          enrollmentId,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, playerID uuid.UUID) ([]*dto.EnrollmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	enrollments, err := uow.EnrollmentRepository().FindAll(ctx,
		specification.ByPlayerID{PlayerID: playerID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.EnrollmentResponse, len(enrollments))
	for i, e := range enrollments {
		res[i] = &dto.EnrollmentResponse{
			Id:            e.Id,
			CoachId:       e.CoachId,
			PlayerId:      e.PlayerId,
			Amount:        e.Amount,
			PaymentStatus: string(e.PaymentStatus),
			CreatedAt:     e.CreatedAt,
		}
	}
	return res, nil
}

func (s *enrollmentService) HandlePaymentNotification(ctx context.Context, req *dto.PaymentNotificationRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return errors.New("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.logger.Warn("EnrollmentService", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return ErrInvalidSignature
	}

	enrollmentId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	enrollment, err := uow.EnrollmentRepository().FindOne(ctx, specification.ByID{ID: enrollmentId})
	if err != nil {
		return err
	}
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}

	var newStatus entity.PaymentStatus
	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.PaymentStatusPaid
	case "deny", "cancel":
		newStatus = entity.PaymentStatusFailed
	case "expire":
		newStatus = entity.PaymentStatusExpired
	case "pending":
		return nil
	default:
		s.logger.Info("EnrollmentService", "Ignoring unknown transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	if enrollment.PaymentStatus == newStatus {
		return nil
	}

	s.logger.Info("EnrollmentService", "Payment state transition", map[string]interface{}{
		"enrollment_id": enrollmentId,
		"from":          enrollment.PaymentStatus,
		"to":            newStatus,
	})

	now := time.Now()
	enrollment.PaymentStatus = newStatus
	enrollment.UpdatedAt = &now

	if err := uow.EnrollmentRepository().Update(ctx, enrollment); err != nil {
		return err
	}

	return uow.Commit()
}
