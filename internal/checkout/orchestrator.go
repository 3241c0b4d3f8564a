package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// State — состояния конечного автомата оформления заказа.
type State string

const (
	StateStart              State = "start"
	StateAwaitingSubmission State = "awaiting_submission"
	StateValidating         State = "validating"
	StatePersisting         State = "persisting"
	StateCompleted          State = "completed"
	StateRejected           State = "rejected"
)

// RejectReason различает причины отказа для логов и метрик.
// Внешняя форма отказа при этом одинакова: повторное отображение формы.
type RejectReason string

const (
	RejectInputInvalid RejectReason = "input_invalid"
	RejectPromoInvalid RejectReason = "promo_invalid"
	RejectCancelled    RejectReason = "cancelled"
	RejectCartEmpty    RejectReason = "cart_empty"
)

// Submission — данные POST-шага оформления заказа.
type Submission struct {
	// SessionID идентифицирует корзину.
	SessionID string
	// Identity — аутентифицированный пользователь; guard внешнего слоя
	// обязан был отклонить запрос без него.
	Identity string
	// PromoCode — значение поля формы, может быть пустым.
	PromoCode string
	// Order — присланная форма; её ID при создании игнорируется.
	Order domain.Order
	// InputValid — результат внешней валидации формы (model state).
	InputValid bool
}

// Outcome описывает результат обработки сабмита.
type Outcome struct {
	State  State
	Reason RejectReason
	// OrderID заполнен при State == StateCompleted и является целью
	// редиректа на шаг завершения.
	OrderID int64
	// Order — форма для повторного отображения при отказе,
	// без каких-либо изменений.
	Order domain.Order
}

// Orchestrator координирует оформление заказа: валидация входа, проверка
// промокода, разрешение корзины, сборка и сохранение заказа. Внутреннего
// разделяемого состояния между запросами нет.
type Orchestrator struct {
	resolver *CartResolver
	promo    *PromoEvaluator
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
	logger   *log.Entry
	metrics  *metrics.CheckoutMetrics
	now      func() time.Time
}

// NewOrchestrator конструирует оркестратор с зависимостями.
// outbox опционален: без него события заказов не публикуются.
func NewOrchestrator(
	resolver *CartResolver,
	promo *PromoEvaluator,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Orchestrator{
		resolver: resolver,
		promo:    promo,
		orders:   orders,
		outbox:   outbox,
		logger:   logger,
		metrics:  metrics.NewCheckoutMetrics(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Begin — entry point шага отображения формы адреса и оплаты.
// Переход Start → AwaitingSubmission: возвращается пустой заказ для
// отображения, хранилище не затрагивается.
func (o *Orchestrator) Begin(identity string) (domain.Order, error) {
	if identity == "" {
		return domain.Order{}, domain.ErrIdentityRequired
	}
	return domain.Order{}, nil
}

// Submit обрабатывает отправку формы оформления.
// Отказы (невалидная форма, неизвестный промокод, отмена, пустая корзина)
// возвращаются как Outcome с присланным заказом без изменений; ошибка
// возвращается только при сбоях хранилища.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if sub.Identity == "" {
		return Outcome{}, domain.ErrIdentityRequired
	}

	started := o.now()
	o.metrics.RecordSubmissionStarted()
	defer func() {
		o.metrics.RecordSubmissionFinished()
		o.metrics.RecordCheckoutDuration(o.now().Sub(started))
	}()

	// AwaitingSubmission → Rejected: внешняя валидация формы не прошла.
	if !sub.InputValid {
		return o.reject(sub, RejectInputInvalid), nil
	}

	// Вход в Validating: сигнал отмены проверяется ровно один раз.
	// При уже установленной отмене хранилище не затрагивается вовсе.
	if ctx.Err() != nil {
		return o.reject(sub, RejectCancelled), nil
	}

	if !o.promo.Recognized(sub.PromoCode) {
		return o.reject(sub, RejectPromoInvalid), nil
	}

	// Validating → Persisting: корзина, сборка, сохранение.
	items, err := o.resolver.Resolve(ctx, sub.SessionID)
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return o.reject(sub, RejectCartEmpty), nil
	}

	decision := o.promo.Evaluate(sub.PromoCode, domain.CartTotalMinor(items))
	order := AssembleOrder(items, decision, sub.Order, sub.Identity, o.now())
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return Outcome{}, fmt.Errorf("assembled order is invalid: %s", joinErrors(errs))
	}

	id, err := o.orders.Create(ctx, order, sub.SessionID)
	if err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"session_id": sub.SessionID,
			"username":   sub.Identity,
		}).Error("failed to persist order")
		return Outcome{}, fmt.Errorf("persist order: %w", err)
	}
	order.ID = id

	o.enqueueCompletedEvent(order)
	o.metrics.RecordSubmissionCompleted()
	o.logger.WithFields(log.Fields{
		"order_id":    id,
		"username":    sub.Identity,
		"total_minor": order.TotalMinor,
	}).Info("checkout completed")

	// Persisting → Completed: наружу уходит инструкция редиректа,
	// сам заказ здесь не отображается.
	return Outcome{State: StateCompleted, OrderID: id, Order: order}, nil
}

// Complete — entry point шага завершения: возвращает заказ для отображения,
// если он существует и принадлежит пользователю. Отсутствие заказа и чужой
// заказ снаружи неразличимы, чтобы не раскрывать существование заказов.
func (o *Orchestrator) Complete(ctx context.Context, orderID int64, identity string) (domain.Order, error) {
	if identity == "" {
		return domain.Order{}, domain.ErrIdentityRequired
	}

	order, err := o.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			o.metrics.RecordCompletionView("not_found")
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("load order %d: %w", orderID, err)
	}

	if order.Username != identity {
		// Различие фиксируется только во внутренней телеметрии.
		o.logger.WithFields(log.Fields{
			"order_id": orderID,
			"username": identity,
		}).Debug("order ownership mismatch")
		o.metrics.RecordCompletionView("not_owned")
		return domain.Order{}, domain.ErrOrderNotFound
	}

	o.metrics.RecordCompletionView("found")
	return order, nil
}

// History возвращает заказы пользователя, свежие первыми.
func (o *Orchestrator) History(ctx context.Context, identity string, limit int) ([]domain.Order, error) {
	if identity == "" {
		return nil, domain.ErrIdentityRequired
	}

	orders, err := o.orders.ListByOwner(ctx, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", identity, err)
	}
	return orders, nil
}

func (o *Orchestrator) reject(sub Submission, reason RejectReason) Outcome {
	o.metrics.RecordSubmissionRejected(string(reason))
	o.logger.WithFields(log.Fields{
		"session_id": sub.SessionID,
		"username":   sub.Identity,
		"reason":     string(reason),
	}).Info("checkout submission rejected")

	return Outcome{State: StateRejected, Reason: reason, Order: sub.Order}
}

// enqueueCompletedEvent ставит событие о завершённом заказе в outbox.
// Ошибка постановки не прерывает оформление: заказ уже сохранён.
func (o *Orchestrator) enqueueCompletedEvent(order domain.Order) {
	if o.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(kafka.EventTypeOrderCompleted, order.ID, order.Username, order.TotalMinor, nil)
	payload, err := json.Marshal(event)
	if err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to encode order event")
		return
	}

	if _, err := o.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     string(event.EventType),
		Payload:       payload,
	}); err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order event")
	}
}

func joinErrors(errs []error) string {
	builder := strings.Builder{}
	for i, err := range errs {
		builder.WriteString(err.Error())
		if i < len(errs)-1 {
			builder.WriteString("; ")
		}
	}
	return builder.String()
}
